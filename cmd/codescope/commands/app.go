// Package commands implements the codescope CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codescope/internal/analyzers/builtin"
	"github.com/Sumatoshi-tech/codescope/internal/cache"
	"github.com/Sumatoshi-tech/codescope/internal/config"
	"github.com/Sumatoshi-tech/codescope/internal/intake"
	"github.com/Sumatoshi-tech/codescope/internal/observability"
	"github.com/Sumatoshi-tech/codescope/internal/pipeline"
	"github.com/Sumatoshi-tech/codescope/internal/session"
	"github.com/Sumatoshi-tech/codescope/internal/store"
	"github.com/Sumatoshi-tech/codescope/pkg/version"
)

// shutdownGrace bounds telemetry flush on exit.
const shutdownGrace = 5 * time.Second

// app bundles everything a subcommand needs to run.
type app struct {
	cfg       *config.Config
	engine    *session.Engine
	providers observability.Providers
	log       *slog.Logger

	store store.Store
}

// buildApp loads configuration and wires the engine for the given mode.
func buildApp(cmd *cobra.Command, mode observability.AppMode) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.DebugTrace = cfg.Observability.DebugTrace
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.LogJSON = cfg.Observability.LogJSON
	obsCfg.LogLevel = parseLogLevel(cfg.Observability.LogLevel)

	if verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	pipe := pipeline.New(builtin.Registry(), pipeline.Options{
		Workers: cfg.Pipeline.Workers,
		Log:     providers.Logger,
		Metrics: metrics,
	})

	in := intake.New(cfg.MaxFileSizeBytes())
	engine := session.New(in, pipe, st, providers.Logger)

	return &app{
		cfg:       cfg,
		engine:    engine,
		providers: providers,
		log:       providers.Logger,
		store:     st,
	}, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite:
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}

		return store.NewCached(st, cache.DefaultCapacity), nil
	default:
		if cfg.Store.SnapshotDir != "" {
			return store.NewMemoryWithSnapshot(cfg.Store.SnapshotDir)
		}

		return store.NewMemory(), nil
	}
}

// close shuts down the engine, store, and telemetry.
func (a *app) close() {
	a.engine.Close()

	if err := a.store.Close(); err != nil {
		a.log.Error("close store", slog.Any("error", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := a.providers.Shutdown(ctx); err != nil {
		a.log.Error("shutdown telemetry", slog.Any("error", err))
	}
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}

	return l
}
