package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hyperjump/promptgallery/internal/ingest"
	"github.com/hyperjump/promptgallery/internal/models"
)

func newMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := newMetrics(t)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/cases/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, slug := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cases/"+slug, nil))
	}
	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/cases/{slug}", http.MethodGet, "404"))
	if got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
}

func TestObserveSearch(t *testing.T) {
	m := newMetrics(t)
	m.ObserveSearch(models.LanguageEN, 3, nil)
	m.ObserveSearch(models.LanguageEN, 0, nil)
	m.ObserveSearch(models.LanguageZH, 0, errors.New("boom"))

	if v := testutil.ToFloat64(m.SearchQueries.WithLabelValues("en", "hit")); v != 1 {
		t.Errorf("hit = %v", v)
	}
	if v := testutil.ToFloat64(m.SearchQueries.WithLabelValues("en", "miss")); v != 1 {
		t.Errorf("miss = %v", v)
	}
	if v := testutil.ToFloat64(m.SearchQueries.WithLabelValues("zh", "error")); v != 1 {
		t.Errorf("error = %v", v)
	}
}

func TestObserveRunAndCatalog(t *testing.T) {
	m := newMetrics(t)
	report := &ingest.Report{
		Duration: 2 * time.Second,
		Models: []*ingest.ModelReport{{
			Skipped:       []ingest.SkippedCase{{Case: "3"}},
			DroppedImages: []ingest.DroppedImage{{Case: "1"}, {Case: "2"}},
		}},
	}
	m.ObserveRun(report, nil)
	m.ObserveRun(nil, errors.New("missing root"))
	m.ObserveCatalog(map[models.Language]int{models.LanguageEN: 12, models.LanguageZH: 11})

	if v := testutil.ToFloat64(m.IngestRuns.WithLabelValues("success")); v != 1 {
		t.Errorf("success runs = %v", v)
	}
	if v := testutil.ToFloat64(m.IngestRuns.WithLabelValues("failure")); v != 1 {
		t.Errorf("failed runs = %v", v)
	}
	if v := testutil.ToFloat64(m.IngestDroppedImages); v != 2 {
		t.Errorf("dropped = %v", v)
	}
	if v := testutil.ToFloat64(m.CatalogCases.WithLabelValues("zh")); v != 11 {
		t.Errorf("zh cases = %v", v)
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := newMetrics(t)
	m.ObserveSearch(models.LanguageEN, 1, nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `gallery_search_queries_total{language="en",outcome="hit"} 1`) {
		t.Errorf("exposition missing search counter:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSearch(models.LanguageEN, 1, nil)
	m.ObserveRun(nil, nil)
	m.ObserveCatalog(nil)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
