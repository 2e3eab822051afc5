package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/observability"
	"github.com/Sumatoshi-tech/codescope/internal/store"
)

// NewReportCommand creates the report subcommand.
func NewReportCommand() *cobra.Command {
	var (
		minSeverity string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Show a stored analysis report",
		Long:  `Show a stored analysis report by run id. Without an id, shows the latest report.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			id := store.LatestAlias
			if len(args) > 0 {
				id = args[0]
			}

			severity := analysis.Severity(minSeverity)
			if minSeverity != "" && !severity.Valid() {
				return fmt.Errorf("%w: %q", ErrUnknownSeverity, minSeverity)
			}

			result, err := a.engine.GetReport(cmd.Context(), id, severity)
			if err != nil {
				return err
			}

			return renderReport(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVar(&minSeverity, "min-severity", "", "minimum severity shown (high, medium, low)")
	cmd.Flags().StringVarP(&format, flagFormat, "f", formatTable, "output format (table, json, yaml)")

	return cmd
}
