package analyzers

import "strings"

// maxSnippetLen caps code snippets attached to issues.
const maxSnippetLen = 160

// SplitLines splits file content into lines without dropping a trailing
// newline artifact. Line numbers reported by units are 1-based indexes into
// this slice.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")

	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	return lines
}

// Snippet trims and caps a source line for inclusion in an issue.
func Snippet(line string) string {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > maxSnippetLen {
		trimmed = trimmed[:maxSnippetLen]
	}

	return trimmed
}

// IndentDepth reports the nesting depth of a line, treating a tab or four
// spaces as one level.
func IndentDepth(line string) int {
	const spacesPerLevel = 4

	depth := 0
	spaces := 0

	for _, r := range line {
		switch r {
		case '\t':
			depth++
			spaces = 0
		case ' ':
			spaces++
			if spaces == spacesPerLevel {
				depth++
				spaces = 0
			}
		default:
			return depth
		}
	}

	return depth
}
