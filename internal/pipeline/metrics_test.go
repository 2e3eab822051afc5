package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

func TestComputeMetrics_LinesOfCode(t *testing.T) {
	t.Parallel()

	files := []analysis.UploadedFile{
		{Name: "a.py", Content: "x = 1\n\ny = 2\n"},
		{Name: "b.py", Content: "z = 3\n"},
	}

	m := computeMetrics(files)

	assert.Equal(t, 3, m.LinesOfCode)
}

func TestComputeMetrics_Complexity(t *testing.T) {
	t.Parallel()

	source := "if ready and done:\n" +
		"    run()\n" +
		"for item in items:\n" +
		"    use(item)\n"

	m := computeMetrics([]analysis.UploadedFile{{Name: "a.py", Content: source}})

	// One point for the file body plus one per branch keyword.
	assert.Equal(t, 3, m.Complexity)
}

func TestComputeMetrics_DuplicateLines(t *testing.T) {
	t.Parallel()

	source := "result = transform(value)\n" +
		"other = 1\n" +
		"result = transform(value)\n" +
		"result = transform(value)\n"

	m := computeMetrics([]analysis.UploadedFile{{Name: "a.py", Content: source}})

	assert.Equal(t, 2, m.DuplicateLines)
}

func TestComputeMetrics_ShortLinesNotCountedAsDuplicates(t *testing.T) {
	t.Parallel()

	source := "}\n}\n}\n"

	m := computeMetrics([]analysis.UploadedFile{{Name: "a.js", Content: source}})

	assert.Equal(t, 0, m.DuplicateLines)
}

func TestComputeMetrics_TestCoverage(t *testing.T) {
	t.Parallel()

	files := []analysis.UploadedFile{
		{Name: "store.py", Content: "a = 1\nb = 2\nc = 3\nd = 4\n"},
		{Name: "test_store.py", Content: "check(a)\ncheck(b)\n"},
	}

	m := computeMetrics(files)

	assert.Equal(t, 50, m.TestCoverage)
}

func TestComputeMetrics_NoTestFilesMeansZeroCoverage(t *testing.T) {
	t.Parallel()

	m := computeMetrics([]analysis.UploadedFile{{Name: "store.py", Content: "a = 1\n"}})

	assert.Equal(t, 0, m.TestCoverage)
}
