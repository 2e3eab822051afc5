// Package performance implements the built-in performance analyzer unit:
// nested-loop detection and allocation-heavy patterns inside loops.
package performance

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers"
)

// loopStartPattern matches loop headers across the supported languages.
var loopStartPattern = regexp.MustCompile(`^\s*(for|while)\b`)

// concatInLoopPattern matches string append-assignment likely to run per
// iteration.
var concatInLoopPattern = regexp.MustCompile(`\w+\s*\+=\s*["']`)

// syncSleepPattern matches blocking sleeps.
var syncSleepPattern = regexp.MustCompile(`\b(time\.sleep|Thread\.sleep|sleep)\s*\(`)

// Unit is the built-in performance analyzer.
type Unit struct{}

// New creates the built-in performance unit.
func New() *Unit { return &Unit{} }

// Name implements analyzers.Unit.
func (u *Unit) Name() string { return "builtin/performance" }

// Category implements analyzers.Unit.
func (u *Unit) Category() analysis.Category { return analysis.CategoryPerformance }

// Analyze implements analyzers.Unit. Findings are emitted in line order.
func (u *Unit) Analyze(file analysis.UploadedFile, _ analysis.Config) ([]analysis.Issue, error) {
	lines := analyzers.SplitLines(file.Content)

	var issues []analysis.Issue

	// Track open loop headers by indentation depth to spot nesting and
	// per-iteration work. Indentation is a heuristic that works across the
	// supported brace and offside-rule languages.
	loopDepths := make([]int, 0, 4)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		depth := analyzers.IndentDepth(line)

		for len(loopDepths) > 0 && depth <= loopDepths[len(loopDepths)-1] {
			loopDepths = loopDepths[:len(loopDepths)-1]
		}

		inLoop := len(loopDepths) > 0

		if loopStartPattern.MatchString(line) {
			if inLoop {
				issues = append(issues, analysis.Issue{
					Kind:        analysis.KindWarning,
					Category:    string(analysis.CategoryPerformance),
					Title:       "Nested loop",
					Description: "A loop inside another loop multiplies iteration cost; quadratic scans over large inputs stall.",
					File:        file.Name,
					Line:        i + 1,
					Column:      1,
					Severity:    analysis.SeverityMedium,
					Suggestion:  "Index one side in a map or set to replace the inner scan with a lookup.",
					CodeSnippet: analyzers.Snippet(line),
				})
			}

			loopDepths = append(loopDepths, depth)

			continue
		}

		if !inLoop {
			continue
		}

		if loc := concatInLoopPattern.FindStringIndex(line); loc != nil {
			issues = append(issues, analysis.Issue{
				Kind:        analysis.KindWarning,
				Category:    string(analysis.CategoryPerformance),
				Title:       "String concatenation in loop",
				Description: "Appending to a string each iteration reallocates the whole buffer repeatedly.",
				File:        file.Name,
				Line:        i + 1,
				Column:      loc[0] + 1,
				Severity:    analysis.SeverityMedium,
				Suggestion:  "Collect parts and join once, or use a string builder.",
				CodeSnippet: analyzers.Snippet(line),
			})
		}

		if loc := syncSleepPattern.FindStringIndex(line); loc != nil {
			issues = append(issues, analysis.Issue{
				Kind:        analysis.KindInfo,
				Category:    string(analysis.CategoryPerformance),
				Title:       "Blocking sleep in loop",
				Description: "A sleep inside a loop serializes work and inflates wall-clock time.",
				File:        file.Name,
				Line:        i + 1,
				Column:      loc[0] + 1,
				Severity:    analysis.SeverityLow,
				Suggestion:  "Replace polling with an event, callback, or backoff outside the hot path.",
				CodeSnippet: analyzers.Snippet(line),
			})
		}
	}

	return issues, nil
}
