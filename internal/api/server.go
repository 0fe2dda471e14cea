package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	handler "github.com/newthinker/fxscout/internal/api/handler/api"
	"github.com/newthinker/fxscout/internal/api/middleware"
	"github.com/newthinker/fxscout/internal/enrich"
	"github.com/newthinker/fxscout/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the fxscout HTTP server
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	handler    http.Handler
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	APIKey      string
	DefaultTop  int
	MetricsPath string
}

// Dependencies are the components the routes are served from. A nil
// Metrics disables /metrics and request metrics.
type Dependencies struct {
	Scanner   handler.Scanner
	Evaluator handler.Evaluator
	Enricher  *enrich.Enricher
	Metrics   *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Scanner == nil || deps.Evaluator == nil || deps.Enricher == nil {
		return nil, fmt.Errorf("api: scanner, evaluator and enricher are required")
	}

	mux := http.NewServeMux()
	s := &Server{
		logger: logger,
		mux:    mux,
	}
	s.setupRoutes(cfg, deps)

	var h http.Handler = mux
	if deps.Metrics != nil {
		h = metrics.HTTPMiddleware(deps.Metrics)(h)
	}
	h = metrics.LoggingMiddleware(logger)(h)
	s.handler = h

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // a full scan waits on rate-limited upstreams
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	auth := middleware.APIKeyAuth(cfg.APIKey)

	signals := handler.NewSignalsHandler(deps.Scanner, cfg.DefaultTop)
	evaluate := handler.NewEvaluateHandler(deps.Evaluator)
	enrichH := handler.NewEnrichHandler(deps.Enricher, s.logger)

	s.mux.Handle("GET /api/v1/signals", auth(http.HandlerFunc(signals.List)))
	s.mux.Handle("POST /api/v1/evaluate", auth(http.HandlerFunc(evaluate.Evaluate)))
	s.mux.Handle("POST /api/v1/enrich", auth(http.HandlerFunc(enrichH.Enrich)))
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
