package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/outliers/druknation/internal/db"
	"github.com/outliers/druknation/internal/observability"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Load the legal sources and answer one question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.initializer.Initialize(ctx, db.TriggerStartup); err != nil {
		return err
	}

	ans, err := a.answers.Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to process question: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintAnswer(ans)
	return nil
}
