// Package pipeline loads the legal sources and installs them into the corpus.
package pipeline

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/fetch"
	"github.com/outliers/druknation/internal/ingestion"
)

// Sources locates the two legal texts.
type Sources struct {
	DocumentPath   string
	ReferenceURL   string
	FetchOptions   *fetch.Options
	UseBrowser     bool
	BrowserTimeout time.Duration
}

// Documents is the extracted text of both sources.
type Documents struct {
	Primary       string
	Secondary     string
	PrimaryMeta   *ingestion.Metadata
	SecondaryMeta *ingestion.Metadata
}

// Loader fetches and extracts both sources.
type Loader struct {
	sources Sources
	logger  *zap.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(sources Sources, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{sources: sources, logger: logger}
}

// Load fetches both sources concurrently and extracts their text. The first
// failure cancels the other fetch and is returned as an *InitError.
func (l *Loader) Load(ctx context.Context) (*Documents, error) {
	var primary, secondary string

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := l.loadPrimary()
		if err != nil {
			return err
		}
		primary = text
		return nil
	})
	g.Go(func() error {
		text, err := l.loadSecondary(gCtx)
		if err != nil {
			return err
		}
		secondary = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := &Documents{
		Primary:       primary,
		Secondary:     secondary,
		PrimaryMeta:   ingestion.NewMetadata(string(corpus.SourcePrimary), l.sources.DocumentPath, primary),
		SecondaryMeta: ingestion.NewMetadata(string(corpus.SourceSecondary), l.sources.ReferenceURL, secondary),
	}

	l.logger.Info("legal sources loaded",
		zap.Int("penal_code_length", docs.PrimaryMeta.Length),
		zap.Int("wikipedia_length", docs.SecondaryMeta.Length),
	)
	return docs, nil
}

func (l *Loader) loadPrimary() (string, error) {
	raw, err := fetch.File(l.sources.DocumentPath)
	if err != nil {
		return "", &InitError{Source: corpus.SourcePrimary, Stage: StageFetch, Cause: err}
	}

	text, err := ingestion.ExtractPDFText(raw)
	if err != nil {
		return "", &InitError{Source: corpus.SourcePrimary, Stage: StageExtract, Cause: err}
	}

	l.logger.Debug("penal code extracted",
		zap.String("path", l.sources.DocumentPath),
		zap.Int("bytes", len(raw)),
		zap.Int("length", utf8.RuneCountInString(text)),
	)
	return text, nil
}

func (l *Loader) loadSecondary(ctx context.Context) (string, error) {
	var (
		result *fetch.Result
		err    error
	)
	if l.sources.UseBrowser {
		result, err = fetch.WithBrowser(ctx, l.sources.ReferenceURL, l.sources.BrowserTimeout, l.logger)
	} else {
		result, err = fetch.URL(ctx, l.sources.ReferenceURL, l.sources.FetchOptions)
	}
	if err != nil {
		return "", &InitError{Source: corpus.SourceSecondary, Stage: StageFetch, Cause: err}
	}

	text, err := ingestion.ExtractArticleText(result.HTML)
	if err != nil {
		return "", &InitError{Source: corpus.SourceSecondary, Stage: StageExtract, Cause: err}
	}
	if text == "" {
		l.logger.Warn("reference article has no content container",
			zap.String("url", l.sources.ReferenceURL),
			zap.String("selector", ingestion.ArticleContentSelector),
		)
	}

	l.logger.Debug("reference article extracted",
		zap.String("url", l.sources.ReferenceURL),
		zap.Int("status", result.StatusCode),
		zap.Int("length", utf8.RuneCountInString(text)),
	)
	return text, nil
}
