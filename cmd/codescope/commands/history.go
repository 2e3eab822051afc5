package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/observability"
	"github.com/Sumatoshi-tech/codescope/internal/store"
)

// History command flag names.
const (
	flagSearch = "search"
	flagStatus = "status"
	flagRange  = "range"
	flagSort   = "sort"
)

// NewHistoryCommand creates the history subcommand group.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage the run history",
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryStatsCommand())
	cmd.AddCommand(newHistoryDeleteCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	var (
		search    string
		status    string
		dateRange string
		sortKey   string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			runStatus := analysis.RunStatus(status)
			if status != "" && !runStatus.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}

			items, err := a.engine.ListHistory(cmd.Context(), store.Filter{
				Search: search,
				Status: runStatus,
				Range:  store.DateRange(dateRange),
			}, store.SortKey(sortKey))
			if err != nil {
				return err
			}

			return renderHistory(cmd.OutOrStdout(), items, format)
		},
	}

	cmd.Flags().StringVar(&search, flagSearch, "", "substring match on run and file names")
	cmd.Flags().StringVar(&status, flagStatus, "", "filter by status (processing, completed, failed)")
	cmd.Flags().StringVar(&dateRange, flagRange, "", "filter by age (today, last7days, last30days)")
	cmd.Flags().StringVar(&sortKey, flagSort, string(store.SortByDate), "sort key (date, name, score, issues)")
	cmd.Flags().StringVarP(&format, flagFormat, "f", formatTable, "output format (table, json, yaml)")

	return cmd
}

func newHistoryStatsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			stats, err := a.engine.HistoryStats(cmd.Context())
			if err != nil {
				return err
			}

			return renderStats(cmd.OutOrStdout(), stats, format)
		},
	}

	cmd.Flags().StringVarP(&format, flagFormat, "f", formatTable, "output format (table, json, yaml)")

	return cmd
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>...",
		Short: "Delete history entries",
		Long:  `Delete history entries by run id. Unknown ids are skipped; stored reports stay fetchable by run id.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			deleted, err := a.engine.DeleteHistory(cmd.Context(), args)
			if err != nil {
				return err
			}

			cmd.Printf("deleted %d of %d\n", deleted, len(args))

			return nil
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.ClearHistory(cmd.Context()); err != nil {
				return err
			}

			cmd.Println("history cleared")

			return nil
		},
	}
}
