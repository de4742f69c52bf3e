package catalog

import (
	"context"
	"testing"

	"github.com/hyperjump/promptgallery/internal/keyword"
	"github.com/hyperjump/promptgallery/internal/models"
)

func TestStore_ReloadAndSearch(t *testing.T) {
	s := NewStore(seedStorage(t))
	defer s.Close()
	ctx := context.Background()

	if s.Catalog().Len(models.LanguageEN) != 0 || !s.LoadedAt().IsZero() {
		t.Fatal("store should start empty")
	}
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Catalog().Len(models.LanguageEN) != 3 {
		t.Fatalf("Len = %d", s.Catalog().Len(models.LanguageEN))
	}

	res, err := s.Search(ctx, models.LanguageEN, "statue", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 1 || res.Hits[0].ID != "gpt4o-8" {
		t.Errorf("hits = %+v", res.Hits)
	}

	res, err = s.Search(ctx, models.LanguageEN, "statu", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 0 || res.Suggestion != "statue" {
		t.Errorf("typo result = %+v, want suggestion \"statue\"", res)
	}

	res, err = s.Search(ctx, models.LanguageEN, "statu", 10, &keyword.SearchOptions{FuzzyEnabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 1 {
		t.Errorf("fuzzy hits = %+v", res.Hits)
	}

	if err := s.Reload(ctx); err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	if res, err := s.Search(ctx, models.LanguageZH, "霓虹", 10, nil); err != nil || len(res.Hits) == 0 {
		t.Errorf("zh search after reload = %+v, %v", res, err)
	}
}

func TestStore_SearchCache(t *testing.T) {
	ctx := context.Background()
	s := NewStore(seedStorage(t))
	defer s.Close()
	if err := s.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	first, err := s.Search(ctx, models.LanguageEN, "statue", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := s.Search(ctx, models.LanguageEN, "statue", 10, nil)
	if first != second {
		t.Error("repeated search should be served from cache")
	}
	other, _ := s.Search(ctx, models.LanguageEN, "statue", 5, nil)
	if other == first {
		t.Error("different limit must not share a cache entry")
	}

	if err := s.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	afterReload, _ := s.Search(ctx, models.LanguageEN, "statue", 10, nil)
	if afterReload == first {
		t.Error("Reload should flush cached results")
	}

	uncached := NewStore(seedStorage(t), WithSearchCache(0))
	defer uncached.Close()
	if err := uncached.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	a, _ := uncached.Search(ctx, models.LanguageEN, "statue", 10, nil)
	b, _ := uncached.Search(ctx, models.LanguageEN, "statue", 10, nil)
	if a == b {
		t.Error("WithSearchCache(0) should disable caching")
	}
}
