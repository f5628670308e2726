// Package answer answers legal questions against the loaded corpus.
package answer

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/llm"
)

// DefaultTimeout bounds a single upstream model call.
const DefaultTimeout = 60 * time.Second

// Answer is the model reply to one question.
type Answer struct {
	Text          string    `json:"answer"`
	Question      string    `json:"question"`
	Model         string    `json:"model"`
	ContextLength int       `json:"context_length"`
	AnsweredAt    time.Time `json:"timestamp"`
}

// Service forwards questions and the combined corpus to the model.
type Service struct {
	client  llm.Client
	store   *corpus.Store
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a Service. client may be nil when no API key is
// configured; every Ask then fails with *NotInitializedError.
func NewService(client llm.Client, store *corpus.Store, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  client,
		store:   store,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Initialized reports whether an upstream client is configured.
func (s *Service) Initialized() bool {
	return s.client != nil
}

// Model returns the upstream model name, or "" without a client.
func (s *Service) Model() string {
	if s.client == nil {
		return ""
	}
	return s.client.GetModel()
}

// Ask validates the question, checks that a client and a corpus are present,
// and returns the model reply unmodified. The model call is detached from
// ctx cancellation and bounded by the service timeout.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &InvalidInputError{Message: "question is required and must be a non-empty string"}
	}
	if s.client == nil {
		return nil, &NotInitializedError{}
	}

	snap := s.store.Snapshot()
	if !snap.Loaded() {
		return nil, &ContentNotLoadedError{}
	}

	prompt := BuildPrompt(question, snap.Combined)
	model := s.client.GetModel()

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := s.now()
	resp, err := s.client.GenerateContent(callCtx, prompt)
	if err != nil {
		s.logger.Error("upstream model call failed",
			zap.String("model", model),
			zap.Duration("elapsed", s.now().Sub(start)),
			zap.Error(err),
		)
		return nil, &UpstreamError{Model: model, Message: err.Error(), Cause: err}
	}

	s.logger.Debug("question answered",
		zap.String("model", model),
		zap.Int("prompt_length", len(prompt)),
		zap.String("finish_reason", resp.FinishReason),
		zap.Int32("prompt_tokens", resp.PromptTokens),
		zap.Int32("completion_tokens", resp.CompletionTokens),
		zap.Duration("elapsed", s.now().Sub(start)),
	)

	return &Answer{
		Text:          resp.Text,
		Question:      question,
		Model:         model,
		ContextLength: utf8.RuneCountInString(snap.Combined),
		AnsweredAt:    s.now().UTC(),
	}, nil
}
