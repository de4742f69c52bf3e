// Package server provides the read-only HTTP API of the prompt gallery.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/promptgallery/internal/catalog"
	"github.com/hyperjump/promptgallery/internal/config"
	"github.com/hyperjump/promptgallery/internal/ingest"
	"github.com/hyperjump/promptgallery/internal/metrics"
	"github.com/hyperjump/promptgallery/internal/storage"
)

// UsageReporter reports dataset disk usage.
type UsageReporter interface {
	Usage() (storage.Usage, error)
}

// Server is the HTTP server for the gallery API.
type Server struct {
	store  *catalog.Store
	usage  UsageReporter
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	server  *http.Server

	runMu   sync.RWMutex
	lastRun *ingest.Report
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request and search metrics and serves them at /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a server with the given dependencies. usage may be nil.
func NewServer(store *catalog.Store, usage UsageReporter, cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:  store,
		usage:  usage,
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLastRun records the most recent ingestion report for the status endpoint.
func (s *Server) SetLastRun(r *ingest.Report) {
	s.runMu.Lock()
	s.lastRun = r
	s.runMu.Unlock()
}

func (s *Server) lastRunReport() *ingest.Report {
	s.runMu.RLock()
	defer s.runMu.RUnlock()
	return s.lastRun
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Get("/api/v1/cases", s.handleListCases)
	r.Get("/api/v1/cases/{slug}", s.handleGetCase)
	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/facets", s.handleFacets)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/health", s.handleHealth)

	prefix := "/" + strings.Trim(s.config.Output.AssetsURLPrefix, "/")
	assets := http.StripPrefix(prefix, http.FileServer(http.Dir(s.config.Output.AssetsDir)))
	r.Handle(prefix+"/*", assets)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
