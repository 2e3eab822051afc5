// Package main provides the entry point for the codescope CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codescope/cmd/codescope/commands"
	"github.com/Sumatoshi-tech/codescope/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "codescope",
		Short: "Codescope - code quality analysis sessions",
		Long: `Codescope analyzes submitted source files for quality, security,
performance, and maintainability issues, and tracks results over time.

Commands:
  analyze   Run an analysis over source files
  report    Show a stored analysis report
  history   Browse and manage the run history
  trend     Show quality trend over time
  serve     Run the HTTP API server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewTrendCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "codescope %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
