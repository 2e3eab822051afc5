package maintainability_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/maintainability"
)

func analyzeSource(t *testing.T, source string, cfg analysis.Config) []analysis.Issue {
	t.Helper()

	unit := maintainability.New()

	issues, err := unit.Analyze(analysis.UploadedFile{
		Name:     "module.py",
		Content:  source,
		Language: "python",
	}, cfg)
	require.NoError(t, err)

	return issues
}

func titles(issues []analysis.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Title)
	}

	return out
}

func TestUnit_DebtMarker(t *testing.T) {
	t.Parallel()

	source := "def load():\n" +
		"    # TODO: handle symlinks\n" +
		"    return read()\n"

	issues := analyzeSource(t, source, analysis.DefaultConfig())

	require.Len(t, issues, 1)
	assert.Equal(t, "Tracked debt marker", issues[0].Title)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, analysis.SeverityLow, issues[0].Severity)
}

func TestUnit_MagicNumber(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, "timeout = 3600\n", analysis.DefaultConfig())

	require.Len(t, issues, 1)
	assert.Equal(t, "Magic number", issues[0].Title)
	assert.Equal(t, 1, issues[0].Line)
}

func TestUnit_ConstantDeclarationExempt(t *testing.T) {
	t.Parallel()

	source := "TIMEOUT_SECONDS = 3600\n" +
		"const retries = 1000;\n"

	issues := analyzeSource(t, source, analysis.DefaultConfig())

	assert.Empty(t, issues)
}

func TestUnit_ShortLiteralsIgnored(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, "count = 42\n", analysis.DefaultConfig())

	assert.Empty(t, issues)
}

func TestUnit_FileTooLong(t *testing.T) {
	t.Parallel()

	source := strings.Repeat("call()\n", 501)

	issues := analyzeSource(t, source, analysis.DefaultConfig())

	require.Len(t, issues, 1)
	assert.Equal(t, "File too long", issues[0].Title)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, analysis.SeverityMedium, issues[0].Severity)
}

func TestUnit_SparseDocumentation(t *testing.T) {
	t.Parallel()

	source := strings.Repeat("process()\n", 60)

	cfg := analysis.DefaultConfig()
	cfg.IncludeComments = true

	issues := analyzeSource(t, source, cfg)

	assert.Contains(t, titles(issues), "Sparse documentation")
}

func TestUnit_SparseDocumentationRequiresOptIn(t *testing.T) {
	t.Parallel()

	source := strings.Repeat("process()\n", 60)

	issues := analyzeSource(t, source, analysis.DefaultConfig())

	assert.NotContains(t, titles(issues), "Sparse documentation")
}

func TestUnit_WellCommentedFileIsFine(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for range 60 {
		b.WriteString("# explains the step below\n")
		b.WriteString("process()\n")
	}

	cfg := analysis.DefaultConfig()
	cfg.IncludeComments = true

	issues := analyzeSource(t, b.String(), cfg)

	assert.Empty(t, issues)
}
