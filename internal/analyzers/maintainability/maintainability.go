// Package maintainability implements the built-in maintainability analyzer
// unit: tracked debt markers, magic numbers, oversized files and comment
// density.
package maintainability

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers"
)

const (
	// maxFileLines is the file length above which a split is suggested.
	maxFileLines = 500
	// minCommentRatio is the comment-to-code ratio below which sparse
	// documentation is reported. Applied only to files long enough for the
	// ratio to be meaningful.
	minCommentRatio = 0.05
	// minLinesForCommentCheck gates the density check on file size.
	minLinesForCommentCheck = 50
)

// debtMarkerPattern matches tracked-debt comment markers.
var debtMarkerPattern = regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX)\b`)

// magicNumberPattern matches bare numeric literals of three or more digits
// used in expressions. Short literals and common bases are too noisy to flag.
var magicNumberPattern = regexp.MustCompile(`(?:[=<>+\-*/%(,\[]\s*)(\d{3,})\b`)

// commentLinePattern matches whole-line comments in the supported languages.
var commentLinePattern = regexp.MustCompile(`^\s*(//|#|/\*|\*|--)`)

// declLinePattern matches constant or variable declarations, which exempt a
// numeric literal from the magic-number check.
var declLinePattern = regexp.MustCompile(`^\s*(const|final|static|val|[A-Z_]{2,}\s*=)`)

// Unit is the built-in maintainability analyzer.
type Unit struct{}

// New creates the built-in maintainability unit.
func New() *Unit { return &Unit{} }

// Name implements analyzers.Unit.
func (u *Unit) Name() string { return "builtin/maintainability" }

// Category implements analyzers.Unit.
func (u *Unit) Category() analysis.Category { return analysis.CategoryMaintainability }

// Analyze implements analyzers.Unit. Findings are emitted in line order with
// file-level findings last.
func (u *Unit) Analyze(file analysis.UploadedFile, cfg analysis.Config) ([]analysis.Issue, error) {
	lines := analyzers.SplitLines(file.Content)

	var issues []analysis.Issue

	commentLines := 0
	codeLines := 0

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if commentLinePattern.MatchString(line) {
			commentLines++
		} else {
			codeLines++
		}

		if loc := debtMarkerPattern.FindStringIndex(line); loc != nil {
			issues = append(issues, analysis.Issue{
				Kind:        analysis.KindInfo,
				Category:    string(analysis.CategoryMaintainability),
				Title:       "Tracked debt marker",
				Description: "A TODO or FIXME marker records unfinished work that accumulates silently.",
				File:        file.Name,
				Line:        i + 1,
				Column:      loc[0] + 1,
				Severity:    analysis.SeverityLow,
				Suggestion:  "File the follow-up in the issue tracker and link it from the marker.",
				CodeSnippet: analyzers.Snippet(line),
			})
		}

		if commentLinePattern.MatchString(line) || declLinePattern.MatchString(line) {
			continue
		}

		if m := magicNumberPattern.FindStringSubmatchIndex(line); m != nil {
			issues = append(issues, analysis.Issue{
				Kind:        analysis.KindInfo,
				Category:    string(analysis.CategoryMaintainability),
				Title:       "Magic number",
				Description: "A bare numeric literal hides its meaning and breaks silently when the value changes elsewhere.",
				File:        file.Name,
				Line:        i + 1,
				Column:      m[2] + 1,
				Severity:    analysis.SeverityLow,
				Suggestion:  "Extract the value into a named constant.",
				CodeSnippet: analyzers.Snippet(line),
			})
		}
	}

	if len(lines) > maxFileLines {
		issues = append(issues, analysis.Issue{
			Kind:        analysis.KindWarning,
			Category:    string(analysis.CategoryMaintainability),
			Title:       "File too long",
			Description: "Files past this length mix unrelated concerns and are hard to navigate.",
			File:        file.Name,
			Line:        1,
			Column:      1,
			Severity:    analysis.SeverityMedium,
			Suggestion:  "Split the file along its natural seams into focused modules.",
		})
	}

	if cfg.IncludeComments && codeLines >= minLinesForCommentCheck {
		ratio := float64(commentLines) / float64(codeLines)
		if ratio < minCommentRatio {
			issues = append(issues, analysis.Issue{
				Kind:        analysis.KindInfo,
				Category:    string(analysis.CategoryMaintainability),
				Title:       "Sparse documentation",
				Description: "Almost no comments for this amount of code leaves intent undocumented.",
				File:        file.Name,
				Line:        1,
				Column:      1,
				Severity:    analysis.SeverityLow,
				Suggestion:  "Document the non-obvious invariants and public entry points.",
			})
		}
	}

	return issues, nil
}
