package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/promptgallery/internal/catalog"
	"github.com/hyperjump/promptgallery/internal/keyword"
	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/sitemap"
)

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang, ok := s.language(w, q)
	if !ok {
		return
	}
	offset, err := intParam(q, "offset", 0)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(q, "limit", s.config.Search.PageSize)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if max := s.config.Search.MaxPageSize; max > 0 && limit > max {
		limit = max
	}
	query := models.CaseQuery{
		Language: lang,
		Term:     q.Get("q"),
		Styles:   listParam(q, "style"),
		Themes:   listParam(q, "theme"),
		Offset:   offset,
		Limit:    limit,
	}
	for _, m := range listParam(q, "model") {
		query.Models = append(query.Models, models.Model(m))
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("list cases request", zap.String("language", string(lang)), zap.String("term", query.Term),
		zap.Int("offset", query.Offset), zap.Int("limit", query.Limit))
	s.respondJSON(w, http.StatusOK, catalog.Filter(s.store.Catalog().Cases(lang), query))
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.language(w, r.URL.Query())
	if !ok {
		return
	}
	slug := chi.URLParam(r, "slug")
	c, err := s.store.Catalog().BySlug(lang, slug)
	if errors.Is(err, catalog.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "case not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, catalog.NewDetail(c, lang))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang, ok := s.language(w, q)
	if !ok {
		return
	}
	term := strings.TrimSpace(q.Get("q"))
	if term == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit, err := intParam(q, "limit", s.config.Search.PageSize)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if max := s.config.Search.MaxPageSize; max > 0 && limit > max {
		limit = max
	}
	fuzzy, _ := strconv.ParseBool(q.Get("fuzzy"))
	opts := &keyword.SearchOptions{
		TitleBoost:   s.config.Search.TitleBoost,
		FuzzyEnabled: fuzzy,
		Fuzziness:    s.config.Search.Fuzziness,
	}
	s.logger.Debug("search request", zap.String("query", term), zap.Int("limit", limit), zap.Bool("fuzzy", fuzzy))
	result, err := s.store.Search(r.Context(), lang, term, limit, opts)
	hits := 0
	if result != nil {
		hits = len(result.Hits)
	}
	s.metrics.ObserveSearch(lang, hits, err)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.language(w, r.URL.Query())
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, s.store.Catalog().Facets(lang))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cat := s.store.Catalog()
	cases := map[string]int{}
	for _, lang := range models.Languages() {
		cases[string(lang)] = cat.Len(lang)
	}
	resp := map[string]interface{}{
		"cases":     cases,
		"loaded_at": s.store.LoadedAt(),
	}

	configInfo := map[string]interface{}{
		"data_dir":      s.config.Output.DataDir,
		"assets_dir":    s.config.Output.AssetsDir,
		"page_size":     s.config.Search.PageSize,
		"max_page_size": s.config.Search.MaxPageSize,
		"title_boost":   s.config.Search.TitleBoost,
	}
	resp["config"] = configInfo

	if s.usage != nil {
		usage, err := s.usage.Usage()
		if err != nil {
			s.logger.Warn("status: disk usage failed", zap.Error(err))
		} else {
			resp["disk_usage"] = usage
		}
	}
	if run := s.lastRunReport(); run != nil {
		resp["last_run"] = run
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	site := sitemap.Site{BaseURL: s.config.Site.BaseURL, BlogPosts: s.config.Site.BlogPosts}
	var buf bytes.Buffer
	if err := sitemap.Write(&buf, sitemap.URLs(site, s.store.Catalog())); err != nil {
		s.logger.Error("sitemap failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// language parses the lang query parameter, responding 400 when it is unsupported.
func (s *Server) language(w http.ResponseWriter, q url.Values) (models.Language, bool) {
	lang, err := models.ParseLanguage(q.Get("lang"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return lang, true
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}

// listParam collects repeated and comma-separated values of a query parameter.
func listParam(q url.Values, name string) []string {
	var out []string
	for _, v := range q[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
