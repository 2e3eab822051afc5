// Package analyzers defines the pluggable analyzer-unit capability interface
// and the registry that resolves units for a (language, category) pair.
package analyzers

import (
	"errors"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// ErrDetection marks a recoverable per-issue detection failure inside a
// unit. The pipeline logs it and discards that unit's partial output for the
// file instead of aborting the run. Any other error from Analyze is
// unrecoverable and fails the whole run.
var ErrDetection = errors.New("issue detection failed")

// Unit is a pluggable detector implementing one analysis category.
// Implementations must be pure functions of (file, config): no shared
// mutable state, safe for concurrent use across files.
type Unit interface {
	// Name identifies the unit in logs and issue provenance.
	Name() string

	// Category is the analysis capability this unit implements.
	Category() analysis.Category

	// Analyze inspects one file and returns its findings in detection order.
	Analyze(file analysis.UploadedFile, cfg analysis.Config) ([]analysis.Issue, error)
}
