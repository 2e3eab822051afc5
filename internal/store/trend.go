package store

import (
	"math"
	"sort"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
)

// trendDateLayout formats trend point dates.
const trendDateLayout = "2006-01-02"

// TrendSeries aggregates completed runs into per-day quality points, sorted
// by date ascending. Each point carries the day's mean score (rounded to the
// nearest integer) and summed issue total. Failed and in-flight runs
// contribute nothing; a day without completed runs has no point.
func TrendSeries(items []analysis.HistoryItem) []analysis.TrendPoint {
	type bucket struct {
		scoreSum int
		runs     int
		issues   int
	}

	byDay := make(map[string]*bucket)

	for _, item := range items {
		if item.Status != analysis.StatusCompleted {
			continue
		}

		day := item.Timestamp.UTC().Format(trendDateLayout)

		b, ok := byDay[day]
		if !ok {
			b = &bucket{}
			byDay[day] = b
		}

		b.scoreSum += item.Score
		b.runs++
		b.issues += item.IssueCounts.Total()
	}

	points := make([]analysis.TrendPoint, 0, len(byDay))

	for day, b := range byDay {
		points = append(points, analysis.TrendPoint{
			Date:       day,
			Score:      int(math.Round(float64(b.scoreSum) / float64(b.runs))),
			IssueCount: b.issues,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points
}
