package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/store"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatPlot  = "plot"
)

// Score bands for terminal coloring.
const (
	scoreGood = 90
	scoreOK   = 70
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrUnknownSeverity is returned for an unsupported severity flag value.
var ErrUnknownSeverity = errors.New("unknown severity")

func writeEncoded(w io.Writer, v any, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// renderReport writes an analysis result in the requested format.
func renderReport(w io.Writer, result analysis.Result, format string) error {
	if format != formatTable {
		return writeEncoded(w, result, format)
	}

	fmt.Fprintf(w, "Run %s  (%s)\n", result.ID, result.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Files: %d  Lines: %s  Complexity: %d  Duplicate lines: %d  Test coverage: %d%%\n\n",
		len(result.Files),
		humanize.Comma(int64(result.Metrics.LinesOfCode)),
		result.Metrics.Complexity,
		result.Metrics.DuplicateLines,
		result.Metrics.TestCoverage)

	renderScore(w, result.QualityScore)
	renderIssues(w, result.Issues)

	return nil
}

func renderScore(w io.Writer, score analysis.QualityScore) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Overall", "Maintainability", "Reliability", "Security", "Performance"})
	tw.AppendRow(table.Row{
		colorScore(score.Overall),
		score.Maintainability,
		score.Reliability,
		score.Security,
		score.Performance,
	})
	tw.Render()
	fmt.Fprintln(w)
}

func renderIssues(w io.Writer, issues []analysis.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, color.GreenString("No issues found."))

		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Severity", "Category", "Location", "Title", "Suggestion"})

	for _, issue := range issues {
		location := fmt.Sprintf("%s:%d:%d", issue.File, issue.Line, issue.Column)
		tw.AppendRow(table.Row{
			colorSeverity(issue.Severity),
			issue.Category,
			location,
			issue.Title,
			issue.Suggestion,
		})
	}

	tw.Render()

	counts := analysis.CountIssues(issues)
	fmt.Fprintf(w, "\n%d issues: %s, %s, %s\n",
		counts.Total(),
		color.RedString("%d errors", counts.Errors),
		color.YellowString("%d warnings", counts.Warnings),
		color.CyanString("%d info", counts.Info))

	dist := analysis.Distribute(issues)

	parts := make([]string, 0, len(dist.ByCategory))

	for _, cat := range analysis.CanonicalCategories() {
		if n := dist.ByCategory[string(cat)]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", cat, n))
		}
	}

	fmt.Fprintf(w, "By category: %s\n", strings.Join(parts, ", "))
}

// renderHistory writes history items in the requested format.
func renderHistory(w io.Writer, items []analysis.HistoryItem, format string) error {
	if format != formatTable {
		return writeEncoded(w, items, format)
	}

	if len(items) == 0 {
		fmt.Fprintln(w, "No analysis runs recorded.")

		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Name", "Date", "Status", "Score", "Issues", "Size"})

	for _, item := range items {
		tw.AppendRow(table.Row{
			shortID(item.ID),
			item.Name,
			item.Timestamp.Format("2006-01-02 15:04"),
			colorStatus(item.Status),
			scoreCell(item),
			item.IssueCounts.Total(),
			humanize.IBytes(uint64(item.SizeKB) * 1024),
		})
	}

	tw.Render()

	return nil
}

// renderStats writes history summary statistics.
func renderStats(w io.Writer, stats store.Stats, format string) error {
	if format != formatTable {
		return writeEncoded(w, stats, format)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Total runs", "Completed", "Average score", "Total issues"})
	tw.AppendRow(table.Row{stats.TotalRuns, stats.CompletedRuns, colorScore(stats.AverageScore), stats.TotalIssues})
	tw.Render()

	return nil
}

// renderTrend writes trend points as a table or encoded document.
func renderTrend(w io.Writer, points []analysis.TrendPoint, format string) error {
	if format != formatTable {
		return writeEncoded(w, points, format)
	}

	if len(points) == 0 {
		fmt.Fprintln(w, "No completed runs to chart.")

		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Date", "Score", "Issues"})

	for _, point := range points {
		tw.AppendRow(table.Row{point.Date, colorScore(point.Score), point.IssueCount})
	}

	tw.Render()

	return nil
}

func colorSeverity(s analysis.Severity) string {
	switch s {
	case analysis.SeverityHigh:
		return color.RedString(string(s))
	case analysis.SeverityMedium:
		return color.YellowString(string(s))
	default:
		return color.CyanString(string(s))
	}
}

func colorStatus(s analysis.RunStatus) string {
	switch s {
	case analysis.StatusCompleted:
		return color.GreenString(string(s))
	case analysis.StatusFailed:
		return color.RedString(string(s))
	default:
		return color.YellowString(string(s))
	}
}

func colorScore(score int) string {
	text := strconv.Itoa(score)

	switch {
	case score >= scoreGood:
		return color.GreenString(text)
	case score >= scoreOK:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}

func scoreCell(item analysis.HistoryItem) string {
	if item.Status != analysis.StatusCompleted {
		return "-"
	}

	return colorScore(item.Score)
}

// shortID abbreviates a UUID for table display.
func shortID(id string) string {
	const short = 8
	if len(id) <= short {
		return id
	}

	return id[:short]
}
