// Package metrics provides the Prometheus metrics of the gallery server and ingestion runs.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyperjump/promptgallery/internal/ingest"
	"github.com/hyperjump/promptgallery/internal/models"
)

// Metrics holds every gallery metric and the registry they are registered with.
// All methods are no-ops on a nil *Metrics.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	SearchQueries       *prometheus.CounterVec
	CatalogCases        *prometheus.GaugeVec
	CatalogLoadedAt     prometheus.Gauge
	IngestRuns          *prometheus.CounterVec
	IngestDuration      prometheus.Histogram
	IngestSkippedCases  prometheus.Counter
	IngestDroppedImages prometheus.Counter
	registry            *prometheus.Registry
}

// New creates the metrics and registers them with a fresh registry.
func New() (*Metrics, error) {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.initMetrics()
	if err := m.registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register gallery metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_http_requests_total",
		Help: "Total number of HTTP requests by route pattern, method and status code",
	}, []string{"route", "method", "status"})

	m.HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gallery_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"route"})

	m.SearchQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_search_queries_total",
		Help: "Total number of full-text searches by language and outcome (hit, miss, error)",
	}, []string{"language", "outcome"})

	m.CatalogCases = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gallery_catalog_cases",
		Help: "Number of cases in the loaded catalog by language",
	}, []string{"language"})

	m.CatalogLoadedAt = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gallery_catalog_loaded_time_seconds",
		Help: "Timestamp of the last successful catalog load",
	})

	m.IngestRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_ingest_runs_total",
		Help: "Total number of ingestion runs by result (success, failure)",
	}, []string{"result"})

	m.IngestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gallery_ingest_duration_seconds",
		Help:    "Duration of successful ingestion runs",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	m.IngestSkippedCases = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gallery_ingest_skipped_cases_total",
		Help: "Total number of cases skipped by ingestion",
	})

	m.IngestDroppedImages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gallery_ingest_dropped_images_total",
		Help: "Total number of image references dropped by ingestion",
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Middleware records request counts and latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveSearch records one search outcome.
func (m *Metrics) ObserveSearch(lang models.Language, hits int, err error) {
	if m == nil {
		return
	}
	outcome := "hit"
	switch {
	case err != nil:
		outcome = "error"
	case hits == 0:
		outcome = "miss"
	}
	m.SearchQueries.WithLabelValues(string(lang), outcome).Inc()
}

// ObserveCatalog records the case counts of a freshly loaded catalog.
func (m *Metrics) ObserveCatalog(counts map[models.Language]int) {
	if m == nil {
		return
	}
	for lang, n := range counts {
		m.CatalogCases.WithLabelValues(string(lang)).Set(float64(n))
	}
	m.CatalogLoadedAt.SetToCurrentTime()
}

// ObserveRun records an ingestion run. report may be nil when err is set.
func (m *Metrics) ObserveRun(report *ingest.Report, err error) {
	if m == nil {
		return
	}
	if err != nil || report == nil {
		m.IngestRuns.WithLabelValues("failure").Inc()
		return
	}
	m.IngestRuns.WithLabelValues("success").Inc()
	m.IngestDuration.Observe(report.Duration.Seconds())
	m.IngestSkippedCases.Add(float64(report.TotalSkipped()))
	m.IngestDroppedImages.Add(float64(report.TotalDropped()))
}

// Collect implements the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.HTTPRequests.Collect(ch)
	m.HTTPDuration.Collect(ch)
	m.SearchQueries.Collect(ch)
	m.CatalogCases.Collect(ch)
	ch <- m.CatalogLoadedAt
	m.IngestRuns.Collect(ch)
	ch <- m.IngestDuration
	ch <- m.IngestSkippedCases
	ch <- m.IngestDroppedImages
}

// Describe implements the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.HTTPRequests.Describe(ch)
	m.HTTPDuration.Describe(ch)
	m.SearchQueries.Describe(ch)
	m.CatalogCases.Describe(ch)
	ch <- m.CatalogLoadedAt.Desc()
	m.IngestRuns.Describe(ch)
	ch <- m.IngestDuration.Desc()
	ch <- m.IngestSkippedCases.Desc()
	ch <- m.IngestDroppedImages.Desc()
}
