package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outliers/druknation/internal/db"
	"github.com/outliers/druknation/internal/observability"
)

var (
	documentsHistory bool
	documentsLimit   int
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Load the legal sources and print a summary",
	Long: `Fetch and extract both legal sources and print their lengths, hashes and
previews. With --history, list recent ingestion runs from the audit database
instead.`,
	RunE: runDocuments,
}

func init() {
	documentsCmd.Flags().BoolVar(&documentsHistory, "history", false, "List recorded ingestion runs (requires DATABASE_URL)")
	documentsCmd.Flags().IntVar(&documentsLimit, "limit", db.DefaultListLimit, "Number of runs to list with --history")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	printer := observability.NewPrinter(cmd.OutOrStdout())

	if documentsHistory {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--history requires DATABASE_URL")
		}
		database, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		runs, err := database.ListIngestionRuns(ctx, documentsLimit)
		if err != nil {
			return err
		}
		printer.PrintIngestionRuns(runs)
		return nil
	}

	a, err := newApp(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.initializer.Initialize(ctx, db.TriggerStartup)
	if err != nil {
		return err
	}
	printer.PrintDocuments(result.Documents)
	return nil
}
