// Package pipeline executes analysis runs: a structural parse pass followed
// by the selected analyzer categories in canonical order, parallel across
// files, with deterministic output ordering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers"
	"github.com/Sumatoshi-tech/codescope/internal/intake"
	"github.com/Sumatoshi-tech/codescope/internal/observability"
)

// ErrCancelled indicates the run was cancelled before completion.
var ErrCancelled = errors.New("analysis run cancelled")

// Options tune a pipeline. Zero values select sane defaults.
type Options struct {
	// Workers caps concurrent file analysis within a category.
	// Zero uses GOMAXPROCS.
	Workers int

	// Policy is the scoring policy. Zero value uses DefaultScorePolicy.
	Policy analysis.ScorePolicy

	// Log receives run telemetry. Nil discards it.
	Log *slog.Logger

	// Metrics records run instrumentation. Nil disables recording.
	Metrics *observability.PipelineMetrics
}

// Pipeline runs analyses against a registry of analyzer units.
type Pipeline struct {
	registry *analyzers.Registry
	workers  int
	policy   analysis.ScorePolicy
	log      *slog.Logger
	metrics  *observability.PipelineMetrics
}

// New creates a pipeline over the given registry.
func New(registry *analyzers.Registry, opts Options) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	policy := opts.Policy
	if policy == (analysis.ScorePolicy{}) {
		policy = analysis.DefaultScorePolicy()
	}

	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if registry == nil {
		registry = analyzers.NewRegistry()
	}

	return &Pipeline{
		registry: registry,
		workers:  workers,
		policy:   policy,
		log:      log,
		metrics:  opts.Metrics,
	}
}

// Run executes one analysis over the given files. Files arrive already
// validated by intake. Issues are returned in canonical category order, then
// file submission order, then line order; parallel execution never reorders
// the output. The returned result is immutable once produced.
func (pl *Pipeline) Run(ctx context.Context, runID string, files []analysis.UploadedFile, cfg analysis.Config, progress ProgressFunc) (analysis.Result, error) {
	if err := cfg.Validate(); err != nil {
		return analysis.Result{}, err
	}

	start := time.Now()

	selected := selectedCategories(cfg)

	// One parse stage plus one stage per selected category.
	tracker := newProgressTracker(progress, 1+len(selected))

	analyzed := files
	if !cfg.IncludeTests {
		analyzed = withoutTestFiles(files)
	}

	pl.log.InfoContext(ctx, "analysis run started",
		slog.String("run_id", runID),
		slog.Int("files", len(analyzed)),
		slog.Int("categories", len(selected)))

	metrics := computeMetrics(analyzed)
	tracker.advance("parse")

	var issues []analysis.Issue

	for _, cat := range selected {
		if err := ctx.Err(); err != nil {
			pl.record(ctx, analysis.StatusFailed, start, analyzed, nil)

			return analysis.Result{}, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		found, err := pl.runCategory(ctx, cat, analyzed, cfg)
		if err != nil {
			pl.record(ctx, analysis.StatusFailed, start, analyzed, nil)

			return analysis.Result{}, fmt.Errorf("category %s: %w", cat, err)
		}

		issues = append(issues, found...)
		tracker.advance(string(cat))
	}

	for i := range issues {
		issues[i].ID = uuid.New().String()
	}

	result := analysis.Result{
		ID:           runID,
		Timestamp:    time.Now().UTC(),
		Files:        fileNames(files),
		QualityScore: analysis.ComputeScore(pl.policy, issues, cfg),
		Issues:       issues,
		Metrics:      metrics,
	}

	pl.record(ctx, analysis.StatusCompleted, start, analyzed, issues)
	pl.log.InfoContext(ctx, "analysis run completed",
		slog.String("run_id", runID),
		slog.Int("issues", len(issues)),
		slog.Int("score", result.QualityScore.Overall))

	return result, nil
}

// runCategory analyzes every file with the category's units, parallel across
// files. Results are collected into a slice indexed by file position so that
// scheduling order never leaks into the output.
func (pl *Pipeline) runCategory(ctx context.Context, cat analysis.Category, files []analysis.UploadedFile, cfg analysis.Config) ([]analysis.Issue, error) {
	perFile := make([][]analysis.Issue, len(files))
	errs := make([]error, len(files))

	sem := make(chan struct{}, pl.workers)

	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)

		go func(idx int, file analysis.UploadedFile) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[idx] = ctx.Err()

				return
			}

			perFile[idx], errs[idx] = pl.analyzeFile(ctx, cat, file, cfg)
		}(i, file)
	}

	wg.Wait()

	var issues []analysis.Issue

	for i := range files {
		if err := errs[i]; err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
			}

			return nil, err
		}

		issues = append(issues, perFile[i]...)
	}

	return issues, nil
}

// analyzeFile runs the resolved units for one file in registration order.
// A unit failing with ErrDetection is logged and its output for this file
// discarded; any other error aborts the run.
func (pl *Pipeline) analyzeFile(ctx context.Context, cat analysis.Category, file analysis.UploadedFile, cfg analysis.Config) ([]analysis.Issue, error) {
	units := pl.registry.Resolve(file.Language, []analysis.Category{cat})

	var issues []analysis.Issue

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := unit.Analyze(file, cfg)
		if err != nil {
			if errors.Is(err, analyzers.ErrDetection) {
				pl.log.WarnContext(ctx, "analyzer unit failed, discarding its output",
					slog.String("unit", unit.Name()),
					slog.String("file", file.Name),
					slog.Any("error", err))

				continue
			}

			return nil, fmt.Errorf("unit %s on %s: %w", unit.Name(), file.Name, err)
		}

		issues = append(issues, found...)
	}

	return issues, nil
}

func (pl *Pipeline) record(ctx context.Context, status analysis.RunStatus, start time.Time, files []analysis.UploadedFile, issues []analysis.Issue) {
	pl.metrics.RecordRun(ctx, status, time.Since(start), len(files), issues)
}

// selectedCategories returns the configured categories in canonical order,
// ignoring duplicates and unknown values.
func selectedCategories(cfg analysis.Config) []analysis.Category {
	var selected []analysis.Category

	for _, cat := range analysis.CanonicalCategories() {
		if cfg.HasCategory(cat) {
			selected = append(selected, cat)
		}
	}

	return selected
}

func withoutTestFiles(files []analysis.UploadedFile) []analysis.UploadedFile {
	kept := make([]analysis.UploadedFile, 0, len(files))

	for _, file := range files {
		if intake.IsTestFile(file.Name) {
			continue
		}

		kept = append(kept, file)
	}

	return kept
}

func fileNames(files []analysis.UploadedFile) []string {
	names := make([]string, len(files))

	for i, file := range files {
		names[i] = file.Name
	}

	return names
}
