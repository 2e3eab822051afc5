// Package session exposes the analysis engine: it accepts file submissions,
// runs the pipeline asynchronously, and serves reports, history, and trends
// from the store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/intake"
	"github.com/Sumatoshi-tech/codescope/internal/pipeline"
	"github.com/Sumatoshi-tech/codescope/internal/store"
)

// ErrUnknownRun indicates the run id is not tracked by this engine instance.
var ErrUnknownRun = errors.New("unknown run")

// kilobyte converts byte totals to the KB figure shown in history.
const kilobyte = 1024

// milestoneBuffer sizes watcher channels. One slot per possible stage.
const milestoneBuffer = 8

// Submission is the synchronous outcome of submitting files for analysis.
// The run itself continues in the background.
type Submission struct {
	RunID    string             `json:"run_id"`
	Name     string             `json:"name"`
	Accepted int                `json:"accepted"`
	Rejected []intake.Rejection `json:"rejected,omitempty"`
}

// runHandle tracks one in-flight run.
type runHandle struct {
	cancel   context.CancelFunc
	done     chan struct{}
	err      error
	watchers []chan pipeline.Milestone
}

// Engine coordinates intake, the pipeline, and the store. Safe for
// concurrent use.
type Engine struct {
	intake *intake.Intake
	pipe   *pipeline.Pipeline
	store  store.Store
	log    *slog.Logger

	mu   sync.Mutex
	runs map[string]*runHandle
}

// New creates an engine. A nil logger discards telemetry.
func New(in *intake.Intake, pipe *pipeline.Pipeline, st store.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		intake: in,
		pipe:   pipe,
		store:  st,
		log:    log,
		runs:   make(map[string]*runHandle),
	}
}

// SubmitAnalysis validates and ingests the submitted files, records a
// processing history entry, and starts the run in the background. Validation
// failures return before anything is recorded, so no history entry exists
// for a run that never started.
func (e *Engine) SubmitAnalysis(ctx context.Context, files []intake.RawFile, cfg analysis.Config) (Submission, error) {
	if err := cfg.Validate(); err != nil {
		return Submission{}, err
	}

	accepted, rejected := e.intake.Ingest(files, cfg)
	if len(accepted) == 0 {
		return Submission{Rejected: rejected}, analysis.ErrNoInputFiles
	}

	runID := uuid.New().String()
	name := runName(accepted)

	item := analysis.HistoryItem{
		ID:        runID,
		Name:      name,
		Timestamp: time.Now().UTC(),
		FileNames: fileNames(accepted),
		Status:    analysis.StatusProcessing,
	}

	if err := e.store.AppendItem(ctx, item); err != nil {
		return Submission{}, fmt.Errorf("record run %s: %w", runID, err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	handle := &runHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	e.mu.Lock()
	e.runs[runID] = handle
	e.mu.Unlock()

	go e.run(runCtx, runID, item, accepted, cfg, handle)

	return Submission{
		RunID:    runID,
		Name:     name,
		Accepted: len(accepted),
		Rejected: rejected,
	}, nil
}

// run executes the pipeline and finalizes the history entry. The result is
// stored before the history entry flips to completed, so a reader that sees
// a terminal entry can always fetch its report.
func (e *Engine) run(
	ctx context.Context,
	runID string,
	item analysis.HistoryItem,
	files []analysis.UploadedFile,
	cfg analysis.Config,
	handle *runHandle,
) {
	defer handle.cancel()

	result, err := e.pipe.Run(ctx, runID, files, cfg, func(m pipeline.Milestone) {
		e.broadcast(handle, m)
	})
	if err != nil {
		e.log.ErrorContext(ctx, "analysis run failed",
			slog.String("run_id", runID),
			slog.Any("error", err))

		item.Status = analysis.StatusFailed

		if finalizeErr := e.store.FinalizeItem(ctx, runID, item); finalizeErr != nil {
			e.log.ErrorContext(ctx, "finalize failed run",
				slog.String("run_id", runID),
				slog.Any("error", finalizeErr))
		}

		e.finish(handle, err)

		return
	}

	if putErr := e.store.PutResult(ctx, result); putErr != nil {
		e.log.ErrorContext(ctx, "store result",
			slog.String("run_id", runID),
			slog.Any("error", putErr))

		item.Status = analysis.StatusFailed
	} else {
		item.Status = analysis.StatusCompleted
		item.Score = result.QualityScore.Overall
		item.IssueCounts = analysis.CountIssues(result.Issues)
		item.SizeKB = sizeKB(files)
	}

	if finalizeErr := e.store.FinalizeItem(ctx, runID, item); finalizeErr != nil {
		e.log.ErrorContext(ctx, "finalize run",
			slog.String("run_id", runID),
			slog.Any("error", finalizeErr))
	}

	e.finish(handle, nil)
}

// broadcast delivers a milestone to every watcher without blocking the
// pipeline. A watcher that stopped draining misses milestones.
func (e *Engine) broadcast(handle *runHandle, m pipeline.Milestone) {
	e.mu.Lock()
	watchers := append([]chan pipeline.Milestone(nil), handle.watchers...)
	e.mu.Unlock()

	for _, w := range watchers {
		select {
		case w <- m:
		default:
		}
	}
}

// finish marks the run done and closes watcher channels. Handles stay
// registered so Wait and Watch keep working after completion.
func (e *Engine) finish(handle *runHandle, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	handle.err = err

	for _, w := range handle.watchers {
		close(w)
	}

	handle.watchers = nil

	close(handle.done)
}

// Watch returns a channel of progress milestones for an in-flight run. The
// channel closes when the run reaches a terminal state. Watching a finished
// run returns an already-closed channel.
func (e *Engine) Watch(runID string) (<-chan pipeline.Milestone, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	handle, ok := e.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrUnknownRun)
	}

	ch := make(chan pipeline.Milestone, milestoneBuffer)

	select {
	case <-handle.done:
		close(ch)
	default:
		handle.watchers = append(handle.watchers, ch)
	}

	return ch, nil
}

// Cancel aborts an in-flight run. The run finalizes as failed. Cancelling a
// finished run is a no-op.
func (e *Engine) Cancel(runID string) error {
	e.mu.Lock()
	handle, ok := e.runs[runID]
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("run %s: %w", runID, ErrUnknownRun)
	}

	handle.cancel()

	return nil
}

// Wait blocks until the run finishes or the context expires, returning the
// run's error.
func (e *Engine) Wait(ctx context.Context, runID string) error {
	e.mu.Lock()
	handle, ok := e.runs[runID]
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("run %s: %w", runID, ErrUnknownRun)
	}

	select {
	case <-handle.done:
		return handle.err
	case <-ctx.Done():
		return fmt.Errorf("wait for run %s: %w", runID, ctx.Err())
	}
}

// GetReport fetches a result by id, LatestAlias included. Issues below the
// minimum severity are filtered out of the returned copy; the stored result
// keeps the full set.
func (e *Engine) GetReport(ctx context.Context, id string, minSeverity analysis.Severity) (analysis.Result, error) {
	result, err := e.store.GetResult(ctx, id)
	if err != nil {
		return analysis.Result{}, err
	}

	result.Issues = analysis.FilterIssues(result.Issues, minSeverity)

	return result, nil
}

// ListHistory returns history items matching the filter, sorted by the given
// key.
func (e *Engine) ListHistory(ctx context.Context, f store.Filter, key store.SortKey) ([]analysis.HistoryItem, error) {
	items, err := e.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	items = store.FilterItems(items, f, time.Now().UTC())
	store.SortItems(items, key)

	return items, nil
}

// HistoryStats summarizes the full history index.
func (e *Engine) HistoryStats(ctx context.Context) (store.Stats, error) {
	items, err := e.store.ListItems(ctx)
	if err != nil {
		return store.Stats{}, err
	}

	return store.ComputeStats(items), nil
}

// DeleteHistory removes the history items with the given ids, skipping ids
// with no entry, and returns how many were removed. Stored reports stay
// fetchable by id.
func (e *Engine) DeleteHistory(ctx context.Context, ids []string) (int, error) {
	return e.store.DeleteItems(ctx, ids)
}

// ClearHistory removes all history items.
func (e *Engine) ClearHistory(ctx context.Context) error {
	return e.store.ClearItems(ctx)
}

// GetTrend aggregates completed runs into per-day quality points.
func (e *Engine) GetTrend(ctx context.Context) ([]analysis.TrendPoint, error) {
	items, err := e.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	return store.TrendSeries(items), nil
}

// Close cancels in-flight runs and waits for them to finalize.
func (e *Engine) Close() {
	e.mu.Lock()
	handles := make([]*runHandle, 0, len(e.runs))

	for _, handle := range e.runs {
		handle.cancel()
		handles = append(handles, handle)
	}
	e.mu.Unlock()

	for _, handle := range handles {
		<-handle.done
	}
}

// runName derives the display name from the accepted files: the first file
// name, with a suffix counting the rest.
func runName(files []analysis.UploadedFile) string {
	if len(files) == 1 {
		return files[0].Name
	}

	rest := len(files) - 1
	if rest == 1 {
		return fmt.Sprintf("%s +1 file", files[0].Name)
	}

	return fmt.Sprintf("%s +%d files", files[0].Name, rest)
}

func fileNames(files []analysis.UploadedFile) []string {
	names := make([]string, len(files))

	for i, file := range files {
		names[i] = file.Name
	}

	return names
}

// sizeKB totals accepted file sizes, rounding up to whole kilobytes.
func sizeKB(files []analysis.UploadedFile) int64 {
	var total int64

	for _, file := range files {
		total += file.SizeBytes
	}

	return (total + kilobyte - 1) / kilobyte
}
