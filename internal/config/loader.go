package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".codescope"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for codescope settings.
const envPrefix = "CODESCOPE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) && !errors.Is(readErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.language", DefaultAnalysisLanguage)
	viperCfg.SetDefault("analysis.categories", DefaultAnalysisCategories)
	viperCfg.SetDefault("analysis.severity_threshold", DefaultAnalysisSeverityThreshold)
	viperCfg.SetDefault("analysis.include_tests", DefaultAnalysisIncludeTests)
	viperCfg.SetDefault("analysis.include_comments", DefaultAnalysisIncludeComments)

	viperCfg.SetDefault("intake.max_file_size", DefaultIntakeMaxFileSize)

	viperCfg.SetDefault("pipeline.workers", DefaultPipelineWorkers)

	viperCfg.SetDefault("store.backend", DefaultStoreBackend)
	viperCfg.SetDefault("store.path", DefaultStorePath)
	viperCfg.SetDefault("store.snapshot_dir", "")

	viperCfg.SetDefault("server.addr", DefaultServerAddr)
	viperCfg.SetDefault("server.cors_origins", DefaultServerCORSOrigins)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.environment", "")
	viperCfg.SetDefault("observability.log_level", DefaultObservabilityLogLevel)
	viperCfg.SetDefault("observability.log_json", DefaultObservabilityLogJSON)
	viperCfg.SetDefault("observability.debug_trace", false)
	viperCfg.SetDefault("observability.sample_ratio", DefaultObservabilitySampleRatio)
}
