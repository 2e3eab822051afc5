package quality_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/quality"
)

func analyzeSource(t *testing.T, source string) []analysis.Issue {
	t.Helper()

	unit := quality.New()

	issues, err := unit.Analyze(analysis.UploadedFile{
		Name:     "sample.js",
		Content:  source,
		Language: "javascript",
	}, analysis.DefaultConfig())
	require.NoError(t, err)

	return issues
}

func TestUnit_CleanSourceHasNoFindings(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, "function add(a, b) {\n  return a + b;\n}\n")

	assert.Empty(t, issues)
}

func TestUnit_LongLine(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, "const x = 1;\nconst y = \""+strings.Repeat("a", 130)+"\";\n")

	require.Len(t, issues, 1)
	assert.Equal(t, "Line exceeds recommended length", issues[0].Title)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, analysis.SeverityLow, issues[0].Severity)
}

func TestUnit_LongFunction(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	sb.WriteString("function big() {\n")
	for range 70 {
		sb.WriteString("  work();\n")
	}
	sb.WriteString("}\n")

	issues := analyzeSource(t, sb.String())

	require.Len(t, issues, 1)
	assert.Equal(t, "Function is too long", issues[0].Title)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, analysis.KindWarning, issues[0].Kind)
}

func TestUnit_DeepNestingReportedOncePerBlock(t *testing.T) {
	t.Parallel()

	deep := strings.Repeat("    ", 6)
	source := "function f() {\n" + deep + "a();\n" + deep + "b();\n}\n" +
		"function g() {\n" + deep + "c();\n}\n"

	issues := analyzeSource(t, source)

	// One finding per contiguous deep block, even across multiple lines.
	require.Len(t, issues, 2)
	assert.Equal(t, "Deeply nested code", issues[0].Title)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, 6, issues[1].Line)
}

func TestUnit_SwallowedException(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, "try { risky(); } catch (e) {}\n")

	require.Len(t, issues, 1)
	assert.Equal(t, "Swallowed exception", issues[0].Title)
}

func TestUnit_DeterministicOutput(t *testing.T) {
	t.Parallel()

	source := "const y = \"" + strings.Repeat("a", 130) + "\";\ntry { x(); } catch (e) {}\n"

	first := analyzeSource(t, source)
	second := analyzeSource(t, source)

	assert.Equal(t, first, second)
}
