package intake

import (
	"path"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// extensionLanguages maps lowercase file extensions to analysis languages.
// Matches are case-insensitive on the extension.
var extensionLanguages = map[string]string{
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".java": "java",
	".cpp":  "cpp",
	".cc":   "cpp",
	".cxx":  "cpp",
	".c":    "c",
	".h":    "c",
	".php":  "php",
	".rb":   "ruby",
	".go":   "go",
	".rs":   "rust",
}

// DetectLanguage resolves a file's language from its extension first, then
// falls back to content-based detection, then to plaintext. Detection never
// fails; an unknown file is simply plaintext.
func DetectLanguage(name string, content []byte) string {
	ext := strings.ToLower(path.Ext(name))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}

	if lang := enry.GetLanguage(path.Base(name), content); lang != enry.OtherLanguage {
		return strings.ToLower(lang)
	}

	return analysis.LanguagePlaintext
}

// IsTestFile reports whether the file looks like a test artifact by
// common test-name conventions across the supported languages.
func IsTestFile(name string) bool {
	base := strings.ToLower(path.Base(name))

	return strings.HasSuffix(trimExt(base), "_test") ||
		strings.HasSuffix(trimExt(base), ".test") ||
		strings.HasSuffix(trimExt(base), ".spec") ||
		strings.HasPrefix(base, "test_")
}

func trimExt(base string) string {
	return strings.TrimSuffix(base, path.Ext(base))
}
