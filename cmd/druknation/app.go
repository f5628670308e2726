package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/outliers/druknation/internal/answer"
	"github.com/outliers/druknation/internal/config"
	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/db"
	"github.com/outliers/druknation/internal/fetch"
	"github.com/outliers/druknation/internal/llm"
	"github.com/outliers/druknation/internal/pipeline"
)

// app holds the wired components shared by the subcommands.
type app struct {
	store       *corpus.Store
	initializer *pipeline.Initializer
	answers     *answer.Service
	client      llm.Client
	database    *db.DB
}

// sourcesFromConfig maps configuration onto loader sources.
func sourcesFromConfig(c *config.Config) pipeline.Sources {
	opts := fetch.DefaultOptions()
	opts.Timeout = c.FetchTimeout
	return pipeline.Sources{
		DocumentPath:   c.DocumentPath,
		ReferenceURL:   c.ReferenceURL,
		FetchOptions:   opts,
		UseBrowser:     c.UseBrowser,
		BrowserTimeout: c.FetchTimeout,
	}
}

// newApp wires the store, loader, initializer and answer service. withDB
// connects the audit database when one is configured.
func newApp(ctx context.Context, c *config.Config, log *zap.Logger, withDB bool) (*app, error) {
	a := &app{store: corpus.NewStore()}

	var recorder pipeline.Recorder
	if withDB && c.DatabaseURL != "" {
		database, err := connectDB(ctx, c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.database = database
		recorder = database
	}

	if c.APIKey == "" {
		log.Warn("API key not configured; questions will be rejected until one is set",
			zap.Strings("env", []string{"API_KEY", "GEMINI_API_KEY"}))
	} else {
		client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModel(c.Model), c.APIKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create model client: %w", err)
		}
		a.client = client
	}

	loader := pipeline.NewLoader(sourcesFromConfig(c), log)
	a.initializer = pipeline.NewInitializer(loader, a.store, recorder, log)
	a.answers = answer.NewService(a.client, a.store, c.UpstreamTimeout, log)
	return a, nil
}

func connectDB(ctx context.Context, url string) (*db.DB, error) {
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}
	return database, nil
}

// Close releases the model client and database pool.
func (a *app) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
}
