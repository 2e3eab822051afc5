package store

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// DateRange buckets history items by whole days elapsed since the run.
type DateRange string

// Date range buckets.
const (
	RangeAll    DateRange = ""
	RangeToday  DateRange = "today"
	RangeLast7  DateRange = "last7days"
	RangeLast30 DateRange = "last30days"
)

// Day spans for the date range buckets.
const (
	daysInWeek  = 7
	daysInMonth = 30
)

// SortKey selects the history ordering.
type SortKey string

// Sort keys. Each key has a fixed direction.
const (
	// SortByDate orders newest first.
	SortByDate SortKey = "date"
	// SortByName orders by run name ascending, locale-aware.
	SortByName SortKey = "name"
	// SortByScore orders best score first.
	SortByScore SortKey = "score"
	// SortByIssues orders fewest issues first.
	SortByIssues SortKey = "issues"
)

// Filter narrows history items. Zero-value fields match everything, so the
// zero Filter is a no-op.
type Filter struct {
	// Search matches case-insensitively against the run name and file names.
	Search string

	// Status keeps only items with this run status.
	Status analysis.RunStatus

	// Range keeps only items within the date bucket relative to now.
	Range DateRange
}

// FilterItems returns the items matching the filter, preserving order.
// Applying the same filter to its own output returns it unchanged.
func FilterItems(items []analysis.HistoryItem, f Filter, now time.Time) []analysis.HistoryItem {
	kept := make([]analysis.HistoryItem, 0, len(items))

	needle := strings.ToLower(strings.TrimSpace(f.Search))

	for _, item := range items {
		if needle != "" && !matchesSearch(item, needle) {
			continue
		}

		if f.Status != "" && item.Status != f.Status {
			continue
		}

		if !inRange(item.Timestamp, f.Range, now) {
			continue
		}

		kept = append(kept, item)
	}

	return kept
}

func matchesSearch(item analysis.HistoryItem, needle string) bool {
	if strings.Contains(strings.ToLower(item.Name), needle) {
		return true
	}

	for _, name := range item.FileNames {
		if strings.Contains(strings.ToLower(name), needle) {
			return true
		}
	}

	return false
}

// inRange buckets by floored whole days elapsed. A run from 23 hours ago is
// zero days old and still counts as today.
func inRange(ts time.Time, r DateRange, now time.Time) bool {
	if r == RangeAll {
		return true
	}

	days := int(now.Sub(ts).Hours() / 24)

	switch r {
	case RangeToday:
		return days == 0
	case RangeLast7:
		return days <= daysInWeek
	case RangeLast30:
		return days <= daysInMonth
	default:
		return true
	}
}

// SortItems stably sorts items by the given key, in place. Ties keep their
// relative order, so chained sorts compose predictably. An unknown key
// leaves the order untouched.
func SortItems(items []analysis.HistoryItem, key SortKey) {
	switch key {
	case SortByDate:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Timestamp.After(items[j].Timestamp)
		})
	case SortByName:
		cl := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			return cl.CompareString(items[i].Name, items[j].Name) < 0
		})
	case SortByScore:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Score > items[j].Score
		})
	case SortByIssues:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].IssueCounts.Total() < items[j].IssueCounts.Total()
		})
	}
}
