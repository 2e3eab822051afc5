// Package quality implements the built-in code-quality analyzer unit:
// structural checks for oversized lines, oversized functions, deep nesting,
// and swallowed exceptions.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers"
)

// Structural thresholds.
const (
	maxLineLength    = 120
	maxFunctionLines = 60
	maxNestingDepth  = 5
)

// functionStartPattern matches common function declarations across the
// supported languages.
var functionStartPattern = regexp.MustCompile(
	`^\s*(func\s+\w|def\s+\w|function\s+\w|(public|private|protected)\s+[\w<>\[\]]+\s+\w+\s*\()`,
)

// emptyCatchPattern matches a catch/except clause immediately followed by an
// empty or pass-only body on the same line.
var emptyCatchPattern = regexp.MustCompile(`(catch\s*(\([^)]*\))?\s*\{\s*\}|except\s*[\w.]*\s*:\s*pass\b)`)

// Unit is the built-in quality analyzer.
type Unit struct{}

// New creates the built-in quality unit.
func New() *Unit { return &Unit{} }

// Name implements analyzers.Unit.
func (u *Unit) Name() string { return "builtin/quality" }

// Category implements analyzers.Unit.
func (u *Unit) Category() analysis.Category { return analysis.CategoryQuality }

// Analyze implements analyzers.Unit. Findings are emitted in line order.
func (u *Unit) Analyze(file analysis.UploadedFile, _ analysis.Config) ([]analysis.Issue, error) {
	lines := analyzers.SplitLines(file.Content)

	var issues []analysis.Issue

	issues = append(issues, u.checkLineLengths(file, lines)...)
	issues = append(issues, u.checkFunctionLengths(file, lines)...)
	issues = append(issues, u.checkNesting(file, lines)...)
	issues = append(issues, u.checkEmptyCatch(file, lines)...)

	return issues, nil
}

func (u *Unit) checkLineLengths(file analysis.UploadedFile, lines []string) []analysis.Issue {
	var issues []analysis.Issue

	for i, line := range lines {
		if len(line) <= maxLineLength {
			continue
		}

		issues = append(issues, analysis.Issue{
			Kind:        analysis.KindInfo,
			Category:    string(analysis.CategoryQuality),
			Title:       "Line exceeds recommended length",
			Description: fmt.Sprintf("Line is %d characters long; the recommended maximum is %d.", len(line), maxLineLength),
			File:        file.Name,
			Line:        i + 1,
			Column:      maxLineLength + 1,
			Severity:    analysis.SeverityLow,
			Suggestion:  "Break the expression across multiple lines or extract a helper.",
			CodeSnippet: analyzers.Snippet(line),
		})
	}

	return issues
}

func (u *Unit) checkFunctionLengths(file analysis.UploadedFile, lines []string) []analysis.Issue {
	var issues []analysis.Issue

	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}

		length := end - start
		if length > maxFunctionLines {
			issues = append(issues, analysis.Issue{
				Kind:        analysis.KindWarning,
				Category:    string(analysis.CategoryQuality),
				Title:       "Function is too long",
				Description: fmt.Sprintf("Function spans %d lines; functions above %d lines are hard to review.", length, maxFunctionLines),
				File:        file.Name,
				Line:        start + 1,
				Column:      1,
				Severity:    analysis.SeverityMedium,
				Suggestion:  "Split the function into smaller, named steps.",
				CodeSnippet: analyzers.Snippet(lines[start]),
			})
		}
	}

	for i, line := range lines {
		if functionStartPattern.MatchString(line) {
			flush(i)

			start = i
		}
	}

	flush(len(lines))

	return issues
}

func (u *Unit) checkNesting(file analysis.UploadedFile, lines []string) []analysis.Issue {
	var issues []analysis.Issue

	reported := false

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		depth := analyzers.IndentDepth(line)
		if depth <= maxNestingDepth {
			reported = false

			continue
		}

		// One finding per contiguous deep block.
		if reported {
			continue
		}

		reported = true

		issues = append(issues, analysis.Issue{
			Kind:        analysis.KindWarning,
			Category:    string(analysis.CategoryQuality),
			Title:       "Deeply nested code",
			Description: fmt.Sprintf("Code is nested %d levels deep; deep nesting obscures control flow.", depth),
			File:        file.Name,
			Line:        i + 1,
			Column:      1,
			Severity:    analysis.SeverityMedium,
			Suggestion:  "Use early returns or extract the inner block into a function.",
			CodeSnippet: analyzers.Snippet(line),
		})
	}

	return issues
}

func (u *Unit) checkEmptyCatch(file analysis.UploadedFile, lines []string) []analysis.Issue {
	var issues []analysis.Issue

	for i, line := range lines {
		loc := emptyCatchPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}

		issues = append(issues, analysis.Issue{
			Kind:        analysis.KindWarning,
			Category:    string(analysis.CategoryQuality),
			Title:       "Swallowed exception",
			Description: "An exception is caught and silently discarded, hiding failures from callers.",
			File:        file.Name,
			Line:        i + 1,
			Column:      loc[0] + 1,
			Severity:    analysis.SeverityMedium,
			Suggestion:  "Handle the error or log it with enough context to diagnose later.",
			CodeSnippet: analyzers.Snippet(line),
		})
	}

	return issues
}
