package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/outliers/druknation/internal/answer"
	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/db"
	"github.com/outliers/druknation/internal/ingestion"
	"github.com/outliers/druknation/internal/pipeline"
	"github.com/outliers/druknation/internal/schemas"
)

const maxIngestionsLimit = 100

// RootResponse represents the response for GET /
type RootResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Initialized bool   `json:"initialized"`
	Timestamp   string `json:"timestamp"`
}

// StatusResponse represents the response for GET /status
type StatusResponse struct {
	Server    ServerStatus    `json:"server"`
	Upstream  UpstreamStatus  `json:"upstream"`
	Documents DocumentsStatus `json:"documents"`
}

// ServerStatus describes the process.
type ServerStatus struct {
	Status        string  `json:"status"`
	Initialized   bool    `json:"initialized"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Timestamp     string  `json:"timestamp"`
}

// UpstreamStatus describes the model client.
type UpstreamStatus struct {
	Initialized bool   `json:"initialized"`
	APIKey      string `json:"api_key"`
	Model       string `json:"model,omitempty"`
}

// DocumentsStatus summarizes the corpus.
type DocumentsStatus struct {
	PenalCodeLoaded    bool       `json:"penal_code_loaded"`
	WikipediaLoaded    bool       `json:"wikipedia_loaded"`
	TotalContextLength int        `json:"total_context_length"`
	LastUpdated        *time.Time `json:"last_updated"`
}

// SourceInfo describes one corpus source for GET /documents
type SourceInfo struct {
	Loaded  bool   `json:"loaded"`
	Length  int    `json:"length"`
	Hash    string `json:"hash,omitempty"`
	Origin  string `json:"origin,omitempty"`
	Preview string `json:"preview"`
}

// CombinedInfo describes the combined corpus text.
type CombinedInfo struct {
	Length      int        `json:"length"`
	LastUpdated *time.Time `json:"last_updated"`
}

// DocumentsResponse represents the response for GET /documents
type DocumentsResponse struct {
	PenalCode SourceInfo   `json:"penal_code"`
	Wikipedia SourceInfo   `json:"wikipedia"`
	Combined  CombinedInfo `json:"combined"`
}

// AskRequest represents the request body for POST /ask
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the response for POST /ask
type AskResponse struct {
	Success bool `json:"success"`
	*answer.Answer
}

// ReloadResponse represents the response for POST /reload
type ReloadResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
}

// IngestionsResponse represents the response for GET /ingestions
type IngestionsResponse struct {
	Success bool              `json:"success"`
	Runs    []db.IngestionRun `json:"runs"`
	Count   int               `json:"count"`
}

// handleRoot returns the health summary.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, RootResponse{
		Status:      "online",
		Service:     ServiceName,
		Version:     Version,
		Initialized: s.initialized(),
		Timestamp:   s.timestamp(),
	})
}

// handleStatus returns server, upstream and corpus details.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	apiKey := "missing"
	if s.apiKeyConfigured {
		apiKey = "configured"
	}

	s.jsonResponse(w, http.StatusOK, StatusResponse{
		Server: ServerStatus{
			Status:        "running",
			Initialized:   s.initialized(),
			UptimeSeconds: s.now().Sub(s.startedAt).Seconds(),
			Timestamp:     s.timestamp(),
		},
		Upstream: UpstreamStatus{
			Initialized: s.answers.Initialized(),
			APIKey:      apiKey,
			Model:       s.answers.Model(),
		},
		Documents: DocumentsStatus{
			PenalCodeLoaded:    snap.Primary != "",
			WikipediaLoaded:    snap.Secondary != "",
			TotalContextLength: utf8.RuneCountInString(snap.Combined),
			LastUpdated:        snap.LastUpdated,
		},
	})
}

// handleDocuments returns per-source lengths, hashes and previews.
func (s *Server) handleDocuments(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	var primaryOrigin, secondaryOrigin string
	if last := s.lastRun(); last != nil && last.Documents != nil {
		if last.Documents.PrimaryMeta != nil {
			primaryOrigin = last.Documents.PrimaryMeta.Origin
		}
		if last.Documents.SecondaryMeta != nil {
			secondaryOrigin = last.Documents.SecondaryMeta.Origin
		}
	}

	s.jsonResponse(w, http.StatusOK, DocumentsResponse{
		PenalCode: sourceInfo(corpus.SourcePrimary, primaryOrigin, snap.Primary),
		Wikipedia: sourceInfo(corpus.SourceSecondary, secondaryOrigin, snap.Secondary),
		Combined: CombinedInfo{
			Length:      utf8.RuneCountInString(snap.Combined),
			LastUpdated: snap.LastUpdated,
		},
	})
}

func sourceInfo(source corpus.Source, origin, text string) SourceInfo {
	info := SourceInfo{
		Loaded:  text != "",
		Origin:  origin,
		Preview: corpus.Preview(text, corpus.DefaultPreviewLength),
	}
	if info.Loaded {
		meta := ingestion.NewMetadata(string(source), origin, text)
		info.Length = meta.Length
		info.Hash = meta.Hash
	}
	return info
}

// handleAsk answers one question against the corpus.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := schemas.Validate(schemas.AskRequest, body); err != nil {
		var schemaErr *schemas.ValidationError
		if !errors.As(err, &schemaErr) {
			s.logger.Error("ask request schema unavailable", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "Internal server error", "")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Question is required and must be a string", "")
		return
	}

	var req AskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Question is required and must be a string", "")
		return
	}

	ans, err := s.answers.Ask(r.Context(), req.Question)
	if err != nil {
		s.askError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, AskResponse{Success: true, Answer: ans})
}

func (s *Server) askError(w http.ResponseWriter, err error) {
	var (
		invalidInput *answer.InvalidInputError
		notInit      *answer.NotInitializedError
		notLoaded    *answer.ContentNotLoadedError
		upstream     *answer.UpstreamError
	)
	status := HTTPStatus(err)
	switch {
	case errors.As(err, &invalidInput):
		s.errorResponse(w, status, "Question is required and must be a string", "")
	case errors.As(err, &notInit):
		s.errorResponse(w, status, "Gemini API not properly initialized", "")
	case errors.As(err, &notLoaded):
		s.errorResponse(w, status, "Legal documents not loaded", "")
	case errors.As(err, &upstream):
		s.errorResponse(w, status, "Failed to process question", upstream.Message)
	default:
		s.logger.Error("error processing question", zap.Error(err))
		s.errorResponse(w, status, "Failed to process question", err.Error())
	}
}

// handleReload re-runs ingestion. The corpus is only replaced on success.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reloader == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Failed to reload documents", "reloading is not configured")
		return
	}

	// A client disconnect must not abandon a half-finished fetch.
	result, err := s.reloader.Initialize(context.WithoutCancel(r.Context()), db.TriggerReload)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to reload documents", err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ReloadResponse{
		Success:   true,
		Message:   "Documents reloaded successfully",
		RunID:     result.RunID.String(),
		Timestamp: s.timestamp(),
	})
}

// handleListIngestions lists recent ingestion runs from the audit store.
func (s *Server) handleListIngestions(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		err := &ErrFeatureDisabled{Feature: "ingestion audit database"}
		s.errorResponse(w, HTTPStatus(err), "Ingestion history unavailable", err.Error())
		return
	}

	limit := db.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxIngestionsLimit {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit",
				"limit must be an integer between 1 and "+strconv.Itoa(maxIngestionsLimit))
			return
		}
		limit = n
	}

	runs, err := s.runs.ListIngestionRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list ingestion runs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list ingestion runs", err.Error())
		return
	}
	if runs == nil {
		runs = []db.IngestionRun{}
	}

	s.jsonResponse(w, http.StatusOK, IngestionsResponse{Success: true, Runs: runs, Count: len(runs)})
}

// handleNotFound answers unknown routes and unsupported methods.
func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusNotFound, map[string]any{
		"success":             false,
		"error":               "Endpoint not found",
		"available_endpoints": s.availableEndpoints(),
	})
}

func (s *Server) availableEndpoints() []string {
	endpoints := []string{
		"GET /",
		"GET /status",
		"GET /documents",
		"POST /ask",
		"POST /reload",
	}
	if s.authHandler.Enabled() {
		endpoints = append(endpoints, "POST /auth/token")
	}
	if s.runs != nil {
		endpoints = append(endpoints, "GET /ingestions")
	}
	return endpoints
}

func (s *Server) initialized() bool {
	return s.lastRun() != nil
}

func (s *Server) lastRun() *pipeline.Result {
	if s.reloader == nil {
		return nil
	}
	return s.reloader.Last()
}
