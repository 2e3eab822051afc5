// Package store persists analysis results and the run history index, with
// in-memory and SQLite backends behind one interface.
package store

import (
	"context"
	"errors"
	"math"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// Storage errors.
var (
	// ErrNotFound indicates no result or history item exists for the id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates an insert reused an existing id.
	ErrDuplicateID = errors.New("duplicate id")
)

// LatestAlias resolves to the most recently stored result.
const LatestAlias = "latest"

// ReportStore persists full analysis results keyed by run id.
type ReportStore interface {
	// PutResult stores a completed result. The id must be unused.
	PutResult(ctx context.Context, result analysis.Result) error

	// GetResult fetches a result by id. The id LatestAlias resolves to the
	// most recently stored result. Returns ErrNotFound for unknown ids and
	// for LatestAlias when the store is empty.
	GetResult(ctx context.Context, id string) (analysis.Result, error)
}

// HistoryIndex maintains the denormalized run history.
type HistoryIndex interface {
	// AppendItem records a new history item, usually in processing state.
	AppendItem(ctx context.Context, item analysis.HistoryItem) error

	// FinalizeItem atomically replaces the item with the given id with its
	// terminal form. Readers never observe a partially updated item.
	FinalizeItem(ctx context.Context, id string, item analysis.HistoryItem) error

	// ListItems returns all history items in insertion order.
	ListItems(ctx context.Context) ([]analysis.HistoryItem, error)

	// DeleteItems removes the history items with the given ids, skipping
	// ids that are not present, and returns how many were removed. Stored
	// results, if any, are left untouched.
	DeleteItems(ctx context.Context, ids []string) (int, error)

	// ClearItems removes all history items.
	ClearItems(ctx context.Context) error
}

// Store combines result persistence and the history index.
type Store interface {
	ReportStore
	HistoryIndex

	// Close releases backend resources.
	Close() error
}

// Stats summarizes the history index.
type Stats struct {
	TotalRuns     int `json:"total_runs"`
	CompletedRuns int `json:"completed_runs"`
	AverageScore  int `json:"average_score"`
	TotalIssues   int `json:"total_issues"`
}

// ComputeStats derives summary statistics from history items. The average
// score covers completed runs only; failed and in-flight runs carry no score.
func ComputeStats(items []analysis.HistoryItem) Stats {
	stats := Stats{TotalRuns: len(items)}

	scoreSum := 0

	for _, item := range items {
		stats.TotalIssues += item.IssueCounts.Total()

		if item.Status == analysis.StatusCompleted {
			stats.CompletedRuns++
			scoreSum += item.Score
		}
	}

	if stats.CompletedRuns > 0 {
		stats.AverageScore = int(math.Round(float64(scoreSum) / float64(stats.CompletedRuns)))
	}

	return stats
}
