// Package server provides the HTTP API of the legal question service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/outliers/druknation/internal/answer"
	"github.com/outliers/druknation/internal/config"
	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/db"
	"github.com/outliers/druknation/internal/pipeline"
	"github.com/outliers/druknation/internal/server/middleware"
	"github.com/outliers/druknation/internal/server/ratelimit"
)

const (
	// ServiceName is reported by the health endpoint.
	ServiceName = "Bhutan Law API Server"
	// Version is reported by the health endpoint.
	Version = "1.0.0"

	defaultShutdownTimeout = 30 * time.Second
	maxBodyBytes           = 1 << 20
)

// Reloader runs corpus initialization and remembers the last successful run.
type Reloader interface {
	Initialize(ctx context.Context, trigger string) (*pipeline.Result, error)
	Last() *pipeline.Result
}

// RunLister returns recent ingestion audit records.
type RunLister interface {
	ListIngestionRuns(ctx context.Context, limit int) ([]db.IngestionRun, error)
}

// Config holds server configuration
type Config struct {
	Addr             string
	APIKeyConfigured bool
	ShutdownTimeout  time.Duration
}

// Deps are the collaborators the handlers call. Runs, JWT, Password and
// Limiter are optional.
type Deps struct {
	Store    *corpus.Store
	Answers  *answer.Service
	Reloader Reloader
	Runs     RunLister
	JWT      *JWTService
	Password *config.PasswordConfig
	Limiter  *ratelimit.Limiter
	Logger   *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer       *http.Server
	router           chi.Router
	store            *corpus.Store
	answers          *answer.Service
	reloader         Reloader
	runs             RunLister
	jwtService       *JWTService
	authHandler      *AuthHandler
	rateLimiter      *ratelimit.Limiter
	logger           *zap.Logger
	apiKeyConfigured bool
	shutdownTimeout  time.Duration
	startedAt        time.Time
	now              func() time.Time
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		store:            deps.Store,
		answers:          deps.Answers,
		reloader:         deps.Reloader,
		runs:             deps.Runs,
		jwtService:       deps.JWT,
		rateLimiter:      deps.Limiter,
		logger:           logger,
		apiKeyConfigured: cfg.APIKeyConfigured,
		shutdownTimeout:  cfg.ShutdownTimeout,
		now:              time.Now,
	}
	s.startedAt = s.now()
	s.authHandler = NewAuthHandler(deps.JWT, deps.Password, logger)
	s.router = s.routes()

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // covers the upstream model timeout
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.withLogging)
	r.Use(s.withRecover)
	r.Use(s.withCORS)
	if s.rateLimiter != nil {
		r.Use(ratelimit.Middleware(s.rateLimiter, s.logger))
	}

	r.Get("/", s.handleRoot)
	r.Get("/status", s.handleStatus)
	r.Get("/documents", s.handleDocuments)
	r.Post("/ask", s.handleAsk)
	r.Get("/ingestions", s.handleListIngestions)

	r.Group(func(r chi.Router) {
		if s.jwtService != nil {
			r.Use(middleware.AuthMiddleware(s.jwtService.AsTokenValidator()))
		}
		r.Post("/reload", s.handleReload)
	})
	r.Post("/auth/token", s.authHandler.IssueToken)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)
	return r
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.stopLimiter()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.stopLimiter()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) stopLimiter() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withRecover turns a handler panic into a 500 JSON response.
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
				panic(rvr)
			}
			s.logger.Error("unhandled error",
				zap.Any("panic", rvr),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.ByteString("stack", debug.Stack()),
			)
			s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
				"success":   false,
				"error":     "Internal server error",
				"timestamp": s.timestamp(),
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, s.logger, status, data)
}

// errorResponse writes an error JSON response. details is omitted when empty.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message, details string) {
	writeError(w, s.logger, status, message, details)
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message, details string) {
	body := map[string]any{
		"success": false,
		"error":   message,
	}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, logger, status, body)
}
