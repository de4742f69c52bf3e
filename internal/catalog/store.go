package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/promptgallery/internal/keyword"
	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/storage"
	"github.com/hyperjump/promptgallery/internal/tagging"
)

// SearchHit is a ranked full-text match.
type SearchHit struct {
	models.CaseWithTags
	Score float64 `json:"score"`
}

// SearchResult is the answer to a full-text search.
type SearchResult struct {
	Query      string      `json:"query"`
	Hits       []SearchHit `json:"hits"`
	Suggestion string      `json:"suggestion,omitempty"`
}

const defaultSearchCacheTTL = 5 * time.Minute

// Store serves the current catalog and its search indexes, and swaps both on Reload.
type Store struct {
	source   storage.Storage
	taxonomy tagging.Taxonomy
	logger   *zap.Logger

	cache *gocache.Cache

	mu         sync.RWMutex
	catalog    *Catalog
	indexes    map[models.Language]*keyword.BleveIndex
	suggesters map[models.Language]*keyword.Suggester
	loadedAt   time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTaxonomy replaces the default tag taxonomy.
func WithTaxonomy(t tagging.Taxonomy) StoreOption {
	return func(s *Store) { s.taxonomy = t }
}

// WithSearchCache sets how long search results are cached. Zero disables caching.
func WithSearchCache(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = gocache.New(ttl, 2*ttl)
	}
}

// NewStore creates an empty store reading from source. Call Reload before serving.
func NewStore(source storage.Storage, opts ...StoreOption) *Store {
	s := &Store{
		source:   source,
		taxonomy: tagging.DefaultTaxonomy(),
		logger:   zap.NewNop(),
		catalog:  New(nil),
		cache:    gocache.New(defaultSearchCacheTTL, 2*defaultSearchCacheTTL),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Reload reads the dataset and rebuilds the indexes. On error the previous snapshot stays active.
func (s *Store) Reload(ctx context.Context) error {
	cat, err := Load(ctx, s.source, s.taxonomy, s.logger)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	langs := models.Languages()
	built := make([]*keyword.BleveIndex, len(langs))
	suggest := make([]*keyword.Suggester, len(langs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, lang := range langs {
		eg.Go(func() error {
			idx, err := keyword.NewMemIndex(lang)
			if err != nil {
				return err
			}
			built[i] = idx
			if err := idx.IndexAll(egCtx, cat.Cases(lang)); err != nil {
				return fmt.Errorf("index %s: %w", lang, err)
			}
			sg, err := keyword.NewSuggester(idx, 2)
			if err != nil {
				return fmt.Errorf("suggester %s: %w", lang, err)
			}
			suggest[i] = sg
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, idx := range built {
			if idx != nil {
				_ = idx.Close()
			}
		}
		return err
	}

	indexes := make(map[models.Language]*keyword.BleveIndex, len(langs))
	suggesters := make(map[models.Language]*keyword.Suggester, len(langs))
	for i, lang := range langs {
		indexes[lang], suggesters[lang] = built[i], suggest[i]
	}

	s.mu.Lock()
	old := s.indexes
	s.catalog, s.indexes, s.suggesters, s.loadedAt = cat, indexes, suggesters, time.Now()
	if s.cache != nil {
		s.cache.Flush()
	}
	s.mu.Unlock()
	for _, idx := range old {
		_ = idx.Close()
	}
	s.logger.Info("catalog loaded", zap.Int("cases_en", cat.Len(models.LanguageEN)),
		zap.Int("cases_zh", cat.Len(models.LanguageZH)))
	return nil
}

// Catalog returns the current snapshot.
func (s *Store) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// LoadedAt returns when the current snapshot was loaded; zero before the first Reload.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Search runs a ranked full-text search in lang. When nothing matches, a corrected query
// built from indexed terms is suggested. Results are cached until the next Reload; callers
// must not modify them.
func (s *Store) Search(ctx context.Context, lang models.Language, query string, limit int, opts *keyword.SearchOptions) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat, idx, sg := s.catalog, s.indexes[lang], s.suggesters[lang]

	key := searchCacheKey(lang, query, limit, opts)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(*SearchResult), nil
		}
	}

	result := &SearchResult{Query: query, Hits: []SearchHit{}}
	if idx == nil {
		return result, nil
	}
	hits, err := idx.Search(ctx, query, limit, opts)
	if err != nil {
		return nil, err
	}
	for _, h := range hits {
		if c, ok := cat.ByID(lang, h.ID); ok {
			result.Hits = append(result.Hits, SearchHit{CaseWithTags: c, Score: h.Score})
		}
	}
	if len(result.Hits) == 0 && sg != nil {
		if suggestion, changed := sg.Suggest(query); changed {
			result.Suggestion = suggestion
		}
	}
	if s.cache != nil && idx != nil {
		s.cache.SetDefault(key, result)
	}
	return result, nil
}

func searchCacheKey(lang models.Language, query string, limit int, opts *keyword.SearchOptions) string {
	var o keyword.SearchOptions
	if opts != nil {
		o = *opts
	}
	return fmt.Sprintf("%s|%d|%t|%d|%g|%s", lang, limit, o.FuzzyEnabled, o.Fuzziness, o.TitleBoost, query)
}

// Close releases the search indexes.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idx := range s.indexes {
		_ = idx.Close()
	}
	s.indexes = nil
	s.suggesters = nil
	return nil
}
