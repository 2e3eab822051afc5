package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// errBadRequest marks client errors that map to HTTP 400.
var errBadRequest = errors.New("bad request")

// submitRequestSchema validates analysis submission bodies before decoding.
const submitRequestSchema = `{
	"type": "object",
	"required": ["files"],
	"properties": {
		"files": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name", "content"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"content": {"type": "string"}
				}
			}
		},
		"config": {
			"type": "object",
			"properties": {
				"language": {"type": "string"},
				"categories": {
					"type": "array",
					"items": {
						"type": "string",
						"enum": ["quality", "security", "performance", "maintainability"]
					}
				},
				"severity_threshold": {"type": "string", "enum": ["high", "medium", "low"]},
				"include_tests": {"type": "boolean"},
				"include_comments": {"type": "boolean"}
			}
		}
	}
}`

var submitSchema = gojsonschema.NewStringLoader(submitRequestSchema)

// validateSubmitRequest checks the raw body against the submission schema.
func validateSubmitRequest(body []byte) error {
	result, err := gojsonschema.Validate(submitSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("%w: %s", errBadRequest, strings.Join(details, "; "))
}
