package config

// Default analysis settings. These match the defaults a run starts with
// when no configuration is provided.
const (
	DefaultAnalysisLanguage          = "auto"
	DefaultAnalysisSeverityThreshold = "medium"
	DefaultAnalysisIncludeTests      = true
	DefaultAnalysisIncludeComments   = false
)

// DefaultAnalysisCategories are the categories selected by default.
var DefaultAnalysisCategories = []string{"quality", "security"}

// Default intake settings.
const DefaultIntakeMaxFileSize = "1 MiB"

// Default pipeline settings. Zero workers means one per CPU.
const DefaultPipelineWorkers = 0

// Default store settings.
const (
	DefaultStoreBackend = StoreBackendMemory
	DefaultStorePath    = "codescope.db"
)

// Default server settings.
const DefaultServerAddr = ":8080"

// DefaultServerCORSOrigins allows any origin until narrowed in config.
var DefaultServerCORSOrigins = []string{"*"}

// Default observability settings.
const (
	DefaultObservabilityLogLevel    = "info"
	DefaultObservabilityLogJSON     = false
	DefaultObservabilitySampleRatio = 0.0
)
