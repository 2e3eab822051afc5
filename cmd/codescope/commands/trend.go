package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/observability"
)

// Trend chart layout.
const (
	trendChartWidth  = "900px"
	trendChartHeight = "500px"
	trendLineWidth   = 2
)

// ErrNoOutputPath is returned when --format plot is used without --output.
var ErrNoOutputPath = errors.New("output path is required for plot format (use --output)")

// NewTrendCommand creates the trend subcommand.
func NewTrendCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show quality trend over time",
		Long:  `Show per-day quality scores and issue totals aggregated from completed runs.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			points, err := a.engine.GetTrend(cmd.Context())
			if err != nil {
				return err
			}

			if format == formatPlot {
				if output == "" {
					return ErrNoOutputPath
				}

				return writeTrendPlot(output, points)
			}

			return renderTrend(cmd.OutOrStdout(), points, format)
		},
	}

	cmd.Flags().StringVarP(&format, flagFormat, "f", formatTable, "output format (table, json, yaml, plot)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file for plot format")

	return cmd
}

// writeTrendPlot renders the trend as a standalone HTML line chart.
func writeTrendPlot(path string, points []analysis.TrendPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()

	return renderTrendChart(f, points)
}

func renderTrendChart(w io.Writer, points []analysis.TrendPoint) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  trendChartWidth,
			Height: trendChartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Quality Trend",
			Subtitle: "Per-day mean score and issue totals from completed runs",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score"}),
	)

	labels := make([]string, len(points))
	scores := make([]opts.LineData, len(points))
	issues := make([]opts.LineData, len(points))

	for i, point := range points {
		labels[i] = point.Date
		scores[i] = opts.LineData{Value: point.Score}
		issues[i] = opts.LineData{Value: point.IssueCount}
	}

	line.SetXAxis(labels)
	line.AddSeries("Score", scores,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: trendLineWidth}),
	)
	line.AddSeries("Issues", issues,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: trendLineWidth, Type: "dashed"}),
	)

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render trend chart: %w", err)
	}

	return nil
}
