package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/security"
)

func analyzeSource(t *testing.T, source string) []analysis.Issue {
	t.Helper()

	unit := security.New()

	issues, err := unit.Analyze(analysis.UploadedFile{
		Name:     "app.js",
		Content:  source,
		Language: "javascript",
	}, analysis.DefaultConfig())
	require.NoError(t, err)

	return issues
}

func TestUnit_DetectsEval(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, "const result = eval(userInput);\n")

	require.Len(t, issues, 1)
	assert.Equal(t, "Use of eval", issues[0].Title)
	assert.Equal(t, analysis.KindError, issues[0].Kind)
	assert.Equal(t, analysis.SeverityHigh, issues[0].Severity)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 16, issues[0].Column)
}

func TestUnit_DetectsInnerHTML(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, "el.innerHTML = payload;\n")

	require.Len(t, issues, 1)
	assert.Equal(t, "Potential XSS via innerHTML", issues[0].Title)
}

func TestUnit_DetectsHardcodedCredential(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, `const apiKey = { api_key: "sk-not-a-real-key" };` + "\n")

	require.Len(t, issues, 1)
	assert.Equal(t, "Hardcoded credential", issues[0].Title)
	assert.Equal(t, analysis.SeverityHigh, issues[0].Severity)
}

func TestUnit_DetectsInsecureTransport(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, `fetch("http://example.com/data");` + "\n")

	require.Len(t, issues, 1)
	assert.Equal(t, "Insecure transport URL", issues[0].Title)
	assert.Equal(t, analysis.SeverityLow, issues[0].Severity)
}

func TestUnit_LineOrderThenRuleOrder(t *testing.T) {
	t.Parallel()

	source := `document.write(banner);` + "\n" + `eval(code);` + "\n"

	issues := analyzeSource(t, source)

	require.Len(t, issues, 2)
	assert.Equal(t, "Use of document.write", issues[0].Title)
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, "Use of eval", issues[1].Title)
	assert.Equal(t, 2, issues[1].Line)
}

func TestUnit_CleanSource(t *testing.T) {
	t.Parallel()

	issues := analyzeSource(t, `fetch("https://example.com");`+"\nel.textContent = value;\n")

	assert.Empty(t, issues)
}
