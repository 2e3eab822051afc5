package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Analysis.Language)
	assert.Equal(t, []string{"quality", "security"}, cfg.Analysis.Categories)
	assert.Equal(t, "medium", cfg.Analysis.SeverityThreshold)
	assert.True(t, cfg.Analysis.IncludeTests)
	assert.False(t, cfg.Analysis.IncludeComments)
	assert.Equal(t, "1 MiB", cfg.Intake.MaxFileSize)
	assert.Equal(t, 0, cfg.Pipeline.Workers)
	assert.Equal(t, config.StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "codescope.yaml")
	content := `
analysis:
  language: python
  categories: [quality, performance]
intake:
  max_file_size: 4 MiB
store:
  backend: sqlite
  path: runs.db
server:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "python", cfg.Analysis.Language)
	assert.Equal(t, []string{"quality", "performance"}, cfg.Analysis.Categories)
	assert.Equal(t, int64(4<<20), cfg.MaxFileSizeBytes())
	assert.Equal(t, config.StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "runs.db", cfg.Store.Path)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	// Settings absent from the file keep their defaults.
	assert.Equal(t, "medium", cfg.Analysis.SeverityThreshold)
}

func validConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			Language:          "auto",
			Categories:        []string{"quality"},
			SeverityThreshold: "medium",
		},
		Intake: config.IntakeConfig{MaxFileSize: "1 MiB"},
		Store:  config.StoreConfig{Backend: config.StoreBackendMemory},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:    "bad file size",
			mutate:  func(c *config.Config) { c.Intake.MaxFileSize = "enormous" },
			wantErr: config.ErrInvalidMaxFileSize,
		},
		{
			name:    "negative workers",
			mutate:  func(c *config.Config) { c.Pipeline.Workers = -1 },
			wantErr: config.ErrInvalidWorkers,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *config.Config) { c.Store.Backend = "postgres" },
			wantErr: config.ErrUnknownStoreBackend,
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *config.Config) { c.Store.Backend = config.StoreBackendSQLite },
			wantErr: config.ErrMissingStorePath,
		},
		{
			name:    "unknown category",
			mutate:  func(c *config.Config) { c.Analysis.Categories = []string{"style"} },
			wantErr: config.ErrUnknownCategory,
		},
		{
			name:    "unknown severity",
			mutate:  func(c *config.Config) { c.Analysis.SeverityThreshold = "critical" },
			wantErr: config.ErrUnknownSeverity,
		},
		{
			name:    "sample ratio out of range",
			mutate:  func(c *config.Config) { c.Observability.SampleRatio = 1.5 },
			wantErr: config.ErrInvalidSampleRatio,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tc.wantErr)
		})
	}
}

func TestMaxFileSizeBytes(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	assert.Equal(t, int64(1<<20), cfg.MaxFileSizeBytes())

	cfg.Intake.MaxFileSize = "nonsense"
	assert.Equal(t, int64(0), cfg.MaxFileSizeBytes())
}

func TestAnalysisDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Analysis.Categories = []string{"quality", "security"}
	cfg.Analysis.IncludeComments = true

	run := cfg.AnalysisDefaults()

	assert.Equal(t, "auto", run.Language)
	assert.Equal(t, []analysis.Category{analysis.CategoryQuality, analysis.CategorySecurity}, run.Categories)
	assert.Equal(t, analysis.SeverityMedium, run.SeverityThreshold)
	assert.True(t, run.IncludeComments)
	require.NoError(t, run.Validate())
}
