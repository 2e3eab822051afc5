package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

const (
	metricRunsTotal     = "codescope.runs.total"
	metricRunDuration   = "codescope.run.duration.seconds"
	metricFilesAnalyzed = "codescope.files.analyzed.total"
	metricIssuesFound   = "codescope.issues.found.total"

	attrRunStatus = "status"
	attrCategory  = "category"
)

// runDurationBoundaries covers 10ms to 60s. Runs analyze in-memory file
// sets, so multi-minute buckets are not needed.
var runDurationBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// PipelineMetrics holds the OTel instruments for analysis run telemetry.
// A nil *PipelineMetrics is valid and records nothing.
type PipelineMetrics struct {
	runsTotal     metric.Int64Counter
	runDuration   metric.Float64Histogram
	filesAnalyzed metric.Int64Counter
	issuesFound   metric.Int64Counter
}

// NewPipelineMetrics creates run metric instruments from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	runs, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Total number of analysis runs by terminal status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Analysis run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(runDurationBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	files, err := mt.Int64Counter(metricFilesAnalyzed,
		metric.WithDescription("Total number of files analyzed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesAnalyzed, err)
	}

	issues, err := mt.Int64Counter(metricIssuesFound,
		metric.WithDescription("Total number of issues found by category"),
		metric.WithUnit("{issue}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricIssuesFound, err)
	}

	return &PipelineMetrics{
		runsTotal:     runs,
		runDuration:   duration,
		filesAnalyzed: files,
		issuesFound:   issues,
	}, nil
}

// RecordRun records one finished run: its terminal status, duration, file
// count, and per-category issue counts. Safe to call on a nil receiver.
func (pm *PipelineMetrics) RecordRun(
	ctx context.Context,
	status analysis.RunStatus,
	duration time.Duration,
	files int,
	issues []analysis.Issue,
) {
	if pm == nil {
		return
	}

	statusAttrs := metric.WithAttributes(attribute.String(attrRunStatus, string(status)))

	pm.runsTotal.Add(ctx, 1, statusAttrs)
	pm.runDuration.Record(ctx, duration.Seconds(), statusAttrs)
	pm.filesAnalyzed.Add(ctx, int64(files))

	byCategory := make(map[string]int64)
	for _, issue := range issues {
		byCategory[issue.Category]++
	}

	for category, count := range byCategory {
		pm.issuesFound.Add(ctx, count, metric.WithAttributes(
			attribute.String(attrCategory, category),
		))
	}
}
