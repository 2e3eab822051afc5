package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/intake"
	"github.com/Sumatoshi-tech/codescope/internal/observability"
)

// Analyze command flag names.
const (
	flagLanguage        = "language"
	flagCategories      = "categories"
	flagSeverity        = "severity-threshold"
	flagIncludeTests    = "include-tests"
	flagIncludeComments = "include-comments"
	flagFormat          = "format"
)

// ErrNoFiles is returned when no readable input files were given.
var ErrNoFiles = errors.New("no readable input files")

// NewAnalyzeCommand creates the analyze subcommand.
func NewAnalyzeCommand() *cobra.Command {
	var (
		language        string
		categories      []string
		severity        string
		includeTests    bool
		includeComments bool
		format          string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Run an analysis over source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			cfg := a.cfg.AnalysisDefaults()

			if cmd.Flags().Changed(flagLanguage) {
				cfg.Language = language
			}

			if cmd.Flags().Changed(flagCategories) {
				cfg.Categories = toCategories(categories)
			}

			if cmd.Flags().Changed(flagSeverity) {
				cfg.SeverityThreshold = analysis.Severity(severity)
			}

			if cmd.Flags().Changed(flagIncludeTests) {
				cfg.IncludeTests = includeTests
			}

			if cmd.Flags().Changed(flagIncludeComments) {
				cfg.IncludeComments = includeComments
			}

			return runAnalyze(cmd, a, args, cfg, format)
		},
	}

	cmd.Flags().StringVarP(&language, flagLanguage, "l", "auto", "source language, or auto-detect per file")
	cmd.Flags().StringSliceVar(&categories, flagCategories, nil,
		"analysis categories (quality, security, performance, maintainability)")
	cmd.Flags().StringVar(&severity, flagSeverity, "", "minimum severity shown (high, medium, low)")
	cmd.Flags().BoolVar(&includeTests, flagIncludeTests, true, "analyze test files too")
	cmd.Flags().BoolVar(&includeComments, flagIncludeComments, false, "enable comment-quality checks")
	cmd.Flags().StringVarP(&format, flagFormat, "f", formatTable, "output format (table, json, yaml)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, paths []string, cfg analysis.Config, format string) error {
	files, err := readInputFiles(paths)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	submission, err := a.engine.SubmitAnalysis(ctx, files, cfg)
	if err != nil {
		reportRejections(cmd, submission.Rejected)

		return err
	}

	reportRejections(cmd, submission.Rejected)

	milestones, err := a.engine.Watch(submission.RunID)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	for m := range milestones {
		if verbose {
			cmd.PrintErrf("%3d%% %s\n", m.Percent, m.Stage)
		}
	}

	if err := a.engine.Wait(ctx, submission.RunID); err != nil {
		return err
	}

	result, err := a.engine.GetReport(ctx, submission.RunID, cfg.SeverityThreshold)
	if err != nil {
		return err
	}

	return renderReport(cmd.OutOrStdout(), result, format)
}

// readInputFiles loads the given paths. A missing file fails the command
// outright; intake handles per-file content validation.
func readInputFiles(paths []string) ([]intake.RawFile, error) {
	files := make([]intake.RawFile, 0, len(paths))

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}

		files = append(files, intake.RawFile{
			Name:    filepath.Base(path),
			Content: content,
		})
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	return files, nil
}

func reportRejections(cmd *cobra.Command, rejected []intake.Rejection) {
	for _, rej := range rejected {
		cmd.PrintErrf("skipped %s: %s\n", rej.Name, rej.Reason)
	}
}

func toCategories(names []string) []analysis.Category {
	categories := make([]analysis.Category, 0, len(names))

	for _, name := range names {
		categories = append(categories, analysis.Category(name))
	}

	return categories
}
