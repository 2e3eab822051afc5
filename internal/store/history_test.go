package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/store"
)

func historyFixture(now time.Time) []analysis.HistoryItem {
	return []analysis.HistoryItem{
		{
			ID:          "r1",
			Name:        "billing.js +1 file",
			Timestamp:   now.Add(-2 * time.Hour),
			FileNames:   []string{"billing.js", "invoice.js"},
			Score:       91,
			IssueCounts: analysis.IssueCounts{Warnings: 2},
			Status:      analysis.StatusCompleted,
		},
		{
			ID:          "r2",
			Name:        "auth.py",
			Timestamp:   now.Add(-5 * 24 * time.Hour),
			FileNames:   []string{"auth.py"},
			Score:       74,
			IssueCounts: analysis.IssueCounts{Errors: 3, Info: 4},
			Status:      analysis.StatusCompleted,
		},
		{
			ID:        "r3",
			Name:      "Legacy.java",
			Timestamp: now.Add(-20 * 24 * time.Hour),
			FileNames: []string{"Legacy.java"},
			Status:    analysis.StatusFailed,
		},
		{
			ID:        "r4",
			Name:      "worker.go",
			Timestamp: now.Add(-45 * 24 * time.Hour),
			FileNames: []string{"worker.go"},
			Status:    analysis.StatusProcessing,
		},
	}
}

func ids(items []analysis.HistoryItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}

	return out
}

func TestFilterItems_ZeroFilterKeepsEverything(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	kept := store.FilterItems(items, store.Filter{}, now)

	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(kept))
}

func TestFilterItems_SearchCoversNameAndFileNames(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	byName := store.FilterItems(items, store.Filter{Search: "AUTH"}, now)
	assert.Equal(t, []string{"r2"}, ids(byName))

	// invoice.js appears only in r1's file list, not its name.
	byFile := store.FilterItems(items, store.Filter{Search: "invoice"}, now)
	assert.Equal(t, []string{"r1"}, ids(byFile))
}

func TestFilterItems_Status(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	kept := store.FilterItems(items, store.Filter{Status: analysis.StatusFailed}, now)

	assert.Equal(t, []string{"r3"}, ids(kept))
}

func TestFilterItems_DateRangeBuckets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	today := store.FilterItems(items, store.Filter{Range: store.RangeToday}, now)
	assert.Equal(t, []string{"r1"}, ids(today))

	week := store.FilterItems(items, store.Filter{Range: store.RangeLast7}, now)
	assert.Equal(t, []string{"r1", "r2"}, ids(week))

	month := store.FilterItems(items, store.Filter{Range: store.RangeLast30}, now)
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(month))
}

func TestFilterItems_Idempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f := store.Filter{Search: "js", Range: store.RangeLast30}

	once := store.FilterItems(historyFixture(now), f, now)
	twice := store.FilterItems(once, f, now)

	assert.Equal(t, once, twice)
}

func TestSortItems_DateNewestFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	store.SortItems(items, store.SortByDate)

	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(items))
}

func TestSortItems_NameCaseInsensitive(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	store.SortItems(items, store.SortByName)

	// Legacy.java sorts between auth.py and worker.go despite its capital L.
	assert.Equal(t, []string{"r2", "r1", "r3", "r4"}, ids(items))
}

func TestSortItems_ScoreBestFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	store.SortItems(items, store.SortByScore)

	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(items))
}

func TestSortItems_IssuesFewestFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	store.SortItems(items, store.SortByIssues)

	// r3 and r4 both count zero issues and keep their relative order.
	assert.Equal(t, []string{"r3", "r4", "r1", "r2"}, ids(items))
}

func TestSortItems_UnknownKeyLeavesOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := historyFixture(now)

	store.SortItems(items, store.SortKey("bogus"))

	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(items))
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	stats := store.ComputeStats(historyFixture(now))

	// Completed scores 91 and 74 average to 82.5, rounded to nearest.
	assert.Equal(t, store.Stats{
		TotalRuns:     4,
		CompletedRuns: 2,
		AverageScore:  83,
		TotalIssues:   9,
	}, stats)
}

func TestComputeStats_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, store.Stats{}, store.ComputeStats(nil))
}
