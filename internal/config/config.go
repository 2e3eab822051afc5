// Package config loads and validates codescope configuration from file,
// environment variables, and defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// Config is the top-level configuration struct for codescope.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Analysis      AnalysisConfig      `mapstructure:"analysis"`
	Intake        IntakeConfig        `mapstructure:"intake"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Store         StoreConfig         `mapstructure:"store"`
	Server        ServerConfig        `mapstructure:"server"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AnalysisConfig holds the default run configuration. CLI flags and request
// bodies override it per run.
type AnalysisConfig struct {
	Language          string   `mapstructure:"language"`
	Categories        []string `mapstructure:"categories"`
	SeverityThreshold string   `mapstructure:"severity_threshold"`
	IncludeTests      bool     `mapstructure:"include_tests"`
	IncludeComments   bool     `mapstructure:"include_comments"`
}

// IntakeConfig holds file intake limits.
type IntakeConfig struct {
	// MaxFileSize is a human-readable size ceiling, e.g. "1 MiB".
	MaxFileSize string `mapstructure:"max_file_size"`
}

// PipelineConfig holds pipeline resource knobs.
type PipelineConfig struct {
	Workers int `mapstructure:"workers"`
}

// StoreConfig selects and configures the storage backend.
type StoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `mapstructure:"backend"`

	// Path is the SQLite database file. Required for the sqlite backend.
	Path string `mapstructure:"path"`

	// SnapshotDir, when set with the memory backend, persists a state
	// snapshot there after every mutation.
	SnapshotDir string `mapstructure:"snapshot_dir"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	Environment  string  `mapstructure:"environment"`
	LogLevel     string  `mapstructure:"log_level"`
	LogJSON      bool    `mapstructure:"log_json"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Store backends.
const (
	StoreBackendMemory = "memory"
	StoreBackendSQLite = "sqlite"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxFileSize indicates the size string does not parse.
	ErrInvalidMaxFileSize = errors.New("intake.max_file_size must be a size like \"1 MiB\"")
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("pipeline.workers must be non-negative")
	// ErrUnknownStoreBackend indicates an unsupported storage backend.
	ErrUnknownStoreBackend = errors.New("store.backend must be \"memory\" or \"sqlite\"")
	// ErrMissingStorePath indicates the sqlite backend has no database path.
	ErrMissingStorePath = errors.New("store.path is required for the sqlite backend")
	// ErrUnknownCategory indicates an unsupported analysis category.
	ErrUnknownCategory = errors.New("analysis.categories contains an unknown category")
	// ErrUnknownSeverity indicates an unsupported severity threshold.
	ErrUnknownSeverity = errors.New("analysis.severity_threshold must be high, medium, or low")
	// ErrInvalidSampleRatio indicates the trace sample ratio is out of range.
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if _, err := humanize.ParseBytes(c.Intake.MaxFileSize); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, c.Intake.MaxFileSize)
	}

	if c.Pipeline.Workers < 0 {
		return ErrInvalidWorkers
	}

	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendSQLite:
		if c.Store.Path == "" {
			return ErrMissingStorePath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreBackend, c.Store.Backend)
	}

	for _, cat := range c.Analysis.Categories {
		if !analysis.Category(cat).Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
		}
	}

	if !analysis.Severity(c.Analysis.SeverityThreshold).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, c.Analysis.SeverityThreshold)
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

// MaxFileSizeBytes returns the parsed intake size ceiling.
// Call Validate first; an unparsable value falls back to zero.
func (c *Config) MaxFileSizeBytes() int64 {
	size, err := humanize.ParseBytes(c.Intake.MaxFileSize)
	if err != nil {
		return 0
	}

	return int64(size)
}

// AnalysisDefaults converts the configured analysis defaults into a run
// configuration.
func (c *Config) AnalysisDefaults() analysis.Config {
	categories := make([]analysis.Category, 0, len(c.Analysis.Categories))
	for _, cat := range c.Analysis.Categories {
		categories = append(categories, analysis.Category(cat))
	}

	return analysis.Config{
		Language:          c.Analysis.Language,
		Categories:        categories,
		SeverityThreshold: analysis.Severity(c.Analysis.SeverityThreshold),
		IncludeTests:      c.Analysis.IncludeTests,
		IncludeComments:   c.Analysis.IncludeComments,
	}
}
