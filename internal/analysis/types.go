// Package analysis defines the data model shared by the intake, pipeline,
// store, and session layers: uploaded files, run configuration, issues,
// quality scores, results, and history summaries.
package analysis

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for run validation. These surface before a run starts;
// no history entry is recorded for them.
var (
	// ErrNoInputFiles indicates intake accepted zero files.
	ErrNoInputFiles = errors.New("no input files accepted")

	// ErrNoCategoriesSelected indicates the configuration selects no analysis categories.
	ErrNoCategoriesSelected = errors.New("no analysis categories selected")

	// ErrUnknownCategory indicates the configuration names a category that
	// does not exist.
	ErrUnknownCategory = errors.New("unknown analysis category")
)

// LanguageAuto requests per-file language detection during intake.
const LanguageAuto = "auto"

// LanguagePlaintext is the fallback language for undetectable files.
const LanguagePlaintext = "plaintext"

// Category is one analysis capability an analyzer unit implements.
type Category string

// Analysis categories, in canonical pipeline execution order.
const (
	CategoryQuality         Category = "quality"
	CategorySecurity        Category = "security"
	CategoryPerformance     Category = "performance"
	CategoryMaintainability Category = "maintainability"
)

// CanonicalCategories returns all categories in canonical execution order.
func CanonicalCategories() []Category {
	return []Category{CategoryQuality, CategorySecurity, CategoryPerformance, CategoryMaintainability}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryQuality, CategorySecurity, CategoryPerformance, CategoryMaintainability:
		return true
	}

	return false
}

// Severity classifies how serious an issue is.
type Severity string

// Issue severities, most serious first.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns a comparable rank for severity ordering. Higher is more serious.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}

	return 0
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// IssueKind is the reporting class of an issue.
type IssueKind string

// Issue kinds.
const (
	KindError   IssueKind = "error"
	KindWarning IssueKind = "warning"
	KindInfo    IssueKind = "info"
)

// Valid reports whether k is a known issue kind.
func (k IssueKind) Valid() bool {
	switch k {
	case KindError, KindWarning, KindInfo:
		return true
	}

	return false
}

// RunStatus is the lifecycle state of a run as visible in history.
type RunStatus string

// Run statuses.
const (
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Valid reports whether s is a known run status.
func (s RunStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}

	return false
}

// UploadedFile is one validated, normalized input file.
// Instances are immutable once produced by intake.
type UploadedFile struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Language  string `json:"language"`
	SizeBytes int64  `json:"size_bytes"`
}

// Config controls a single analysis run.
type Config struct {
	// Language is "auto" or an explicit language applied to every file.
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// Categories selects which analysis capabilities run. Must be non-empty.
	Categories []Category `json:"categories" yaml:"categories" mapstructure:"categories"`

	// SeverityThreshold is the minimum severity shown at report-read time.
	// The pipeline always computes and stores the full issue set.
	SeverityThreshold Severity `json:"severity_threshold" yaml:"severity_threshold" mapstructure:"severity_threshold"`

	// IncludeTests includes test files in analysis.
	IncludeTests bool `json:"include_tests" yaml:"include_tests" mapstructure:"include_tests"`

	// IncludeComments enables comment-quality checks.
	IncludeComments bool `json:"include_comments" yaml:"include_comments" mapstructure:"include_comments"`
}

// DefaultConfig returns the configuration the original upload form starts with.
func DefaultConfig() Config {
	return Config{
		Language:          LanguageAuto,
		Categories:        []Category{CategoryQuality, CategorySecurity},
		SeverityThreshold: SeverityMedium,
		IncludeTests:      true,
		IncludeComments:   false,
	}
}

// Validate checks the configuration is runnable.
func (c Config) Validate() error {
	if len(c.Categories) == 0 {
		return ErrNoCategoriesSelected
	}

	for _, cat := range c.Categories {
		if !cat.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
		}
	}

	return nil
}

// HasCategory reports whether the configuration selects the given category.
func (c Config) HasCategory(cat Category) bool {
	for _, have := range c.Categories {
		if have == cat {
			return true
		}
	}

	return false
}

// Issue is a single finding. Positions are 1-based into the original file content.
// Immutable after creation.
type Issue struct {
	ID          string    `json:"id"`
	Kind        IssueKind `json:"type"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	File        string    `json:"file"`
	Line        int       `json:"line"`
	Column      int       `json:"column"`
	Severity    Severity  `json:"severity"`
	Suggestion  string    `json:"suggestion"`
	CodeSnippet string    `json:"code_snippet"`
}

// QualityScore holds the per-dimension quality scores, each in [0,100].
type QualityScore struct {
	Overall         int `json:"overall"`
	Maintainability int `json:"maintainability"`
	Reliability     int `json:"reliability"`
	Security        int `json:"security"`
	Performance     int `json:"performance"`
}

// Metrics are code metrics summed or derived across all input files of a run.
type Metrics struct {
	LinesOfCode    int `json:"lines_of_code"`
	Complexity     int `json:"complexity"`
	DuplicateLines int `json:"duplicate_lines"`
	TestCoverage   int `json:"test_coverage"`
}

// Result is the immutable output of one completed pipeline run.
type Result struct {
	ID           string       `json:"id"`
	Timestamp    time.Time    `json:"timestamp"`
	Files        []string     `json:"files"`
	QualityScore QualityScore `json:"quality_score"`
	Issues       []Issue      `json:"issues"`
	Metrics      Metrics      `json:"metrics"`
}

// IssueCounts tallies issues of a result by kind.
type IssueCounts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Total returns the summed issue count.
func (ic IssueCounts) Total() int {
	return ic.Errors + ic.Warnings + ic.Info
}

// CountIssues tallies issues by kind.
func CountIssues(issues []Issue) IssueCounts {
	var counts IssueCounts

	for _, issue := range issues {
		switch issue.Kind {
		case KindError:
			counts.Errors++
		case KindWarning:
			counts.Warnings++
		case KindInfo:
			counts.Info++
		}
	}

	return counts
}

// FilterIssues returns the issues at or above the given minimum severity,
// preserving order. An invalid minimum returns all issues.
func FilterIssues(issues []Issue, minimum Severity) []Issue {
	if !minimum.Valid() {
		return issues
	}

	filtered := make([]Issue, 0, len(issues))

	for _, issue := range issues {
		if issue.Severity.Rank() >= minimum.Rank() {
			filtered = append(filtered, issue)
		}
	}

	return filtered
}

// HistoryItem is the denormalized summary of one run kept in the history
// index. Exactly one item exists per pipeline invocation; failed runs carry
// zero scores and issue counts.
type HistoryItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Timestamp   time.Time   `json:"timestamp"`
	FileNames   []string    `json:"files"`
	Score       int         `json:"quality_score"`
	IssueCounts IssueCounts `json:"issues_count"`
	Status      RunStatus   `json:"status"`
	SizeKB      int64       `json:"size_kb"`
}

// TrendPoint is one day of quality history, derived from completed runs.
type TrendPoint struct {
	Date       string `json:"date"` // YYYY-MM-DD.
	Score      int    `json:"score"`
	IssueCount int    `json:"issue_count"`
}
