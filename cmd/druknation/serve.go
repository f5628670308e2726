package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/outliers/druknation/internal/db"
	"github.com/outliers/druknation/internal/server"
	"github.com/outliers/druknation/internal/server/ratelimit"
)

var (
	servePort       int
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Load both legal sources and start the HTTP server. The process exits with a
non-zero status when the initial load fails.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render the reference article in headless Chrome")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = serveUseBrowser
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.initializer.Initialize(ctx, db.TriggerStartup); err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}

	deps := server.Deps{
		Store:    a.store,
		Answers:  a.answers,
		Reloader: a.initializer,
		Limiter:  ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:   logger,
	}
	if a.database != nil {
		deps.Runs = a.database
	}

	jwtConfig, err := cfg.JWT()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	if jwtConfig != nil {
		deps.JWT = server.NewJWTService(jwtConfig)
		deps.Password, err = cfg.Password()
		if err != nil {
			return fmt.Errorf("failed to create password config: %w", err)
		}
		logger.Info("operator auth enabled for /reload",
			zap.Bool("token_endpoint", deps.Password.Hash != ""))
	}

	srv := server.New(server.Config{
		Addr:             cfg.Addr(),
		APIKeyConfigured: cfg.APIKey != "",
	}, deps)

	return srv.Start(ctx)
}
