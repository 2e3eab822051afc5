package pipeline

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers"
	"github.com/Sumatoshi-tech/codescope/internal/intake"
)

// minDuplicateLineLen is the shortest trimmed line counted for duplication.
// Braces, imports, and similar boilerplate repeat legitimately.
const minDuplicateLineLen = 10

// branchPattern matches control-flow branch points used to approximate
// cyclomatic complexity.
var branchPattern = regexp.MustCompile(`\b(if|for|while|case|catch|elif|else if)\b|&&|\|\|`)

// computeMetrics derives structural code metrics across all input files in a
// single pass before any analyzer unit runs.
func computeMetrics(files []analysis.UploadedFile) analysis.Metrics {
	var m analysis.Metrics

	seen := make(map[string]int)

	testLines := 0

	for _, file := range files {
		isTest := intake.IsTestFile(file.Name)

		// One decision point per file body.
		m.Complexity++

		for _, line := range analyzers.SplitLines(file.Content) {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}

			m.LinesOfCode++

			if isTest {
				testLines++
			}

			m.Complexity += len(branchPattern.FindAllStringIndex(line, -1))

			if len(trimmed) >= minDuplicateLineLen {
				seen[trimmed]++
			}
		}
	}

	for _, count := range seen {
		if count > 1 {
			m.DuplicateLines += count - 1
		}
	}

	codeLines := m.LinesOfCode - testLines
	if codeLines > 0 && testLines > 0 {
		coverage := testLines * 100 / codeLines
		if coverage > 100 {
			coverage = 100
		}

		m.TestCoverage = coverage
	}

	return m
}
