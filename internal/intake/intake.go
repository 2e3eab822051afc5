// Package intake validates and normalizes submitted file artifacts before
// analysis: size ceiling enforcement, UTF-8 decoding, and per-file language
// detection. Each file is judged independently; a bad file never fails the
// batch.
package intake

import (
	"unicode/utf8"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// DefaultMaxFileSize is the default per-file size ceiling (1 MiB).
const DefaultMaxFileSize = 1 << 20

// RejectReason classifies why a submitted file was rejected.
type RejectReason string

// Rejection reasons.
const (
	// ReasonTooLarge means the file exceeds the configured size ceiling.
	ReasonTooLarge RejectReason = "too_large"

	// ReasonUnreadableContent means the file content is not valid UTF-8 text.
	ReasonUnreadableContent RejectReason = "unreadable_content"
)

// RawFile is an unvalidated file submission: a name and raw bytes.
type RawFile struct {
	Name    string
	Content []byte
}

// Rejection records one rejected file and the reason.
type Rejection struct {
	Name   string       `json:"name"`
	Reason RejectReason `json:"reason"`
}

// Intake validates raw file submissions into UploadedFiles.
type Intake struct {
	// MaxFileSize is the per-file size ceiling in bytes.
	// Zero or negative falls back to DefaultMaxFileSize.
	MaxFileSize int64
}

// New creates an Intake with the given size ceiling.
// A non-positive ceiling uses DefaultMaxFileSize.
func New(maxFileSize int64) *Intake {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	return &Intake{MaxFileSize: maxFileSize}
}

// Ingest validates each raw file independently, returning accepted files in
// submission order and rejections in submission order. Oversized files are
// rejected, never truncated. When the configured language is not "auto",
// it overrides detection for every accepted file.
func (in *Intake) Ingest(rawFiles []RawFile, cfg analysis.Config) (accepted []analysis.UploadedFile, rejected []Rejection) {
	ceiling := in.MaxFileSize
	if ceiling <= 0 {
		ceiling = DefaultMaxFileSize
	}

	for _, raw := range rawFiles {
		if int64(len(raw.Content)) > ceiling {
			rejected = append(rejected, Rejection{Name: raw.Name, Reason: ReasonTooLarge})

			continue
		}

		if !utf8.Valid(raw.Content) {
			rejected = append(rejected, Rejection{Name: raw.Name, Reason: ReasonUnreadableContent})

			continue
		}

		language := cfg.Language
		if language == "" || language == analysis.LanguageAuto {
			language = DetectLanguage(raw.Name, raw.Content)
		}

		accepted = append(accepted, analysis.UploadedFile{
			Name:      raw.Name,
			Content:   string(raw.Content),
			Language:  language,
			SizeBytes: int64(len(raw.Content)),
		})
	}

	return accepted, rejected
}
