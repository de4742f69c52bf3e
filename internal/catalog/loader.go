package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/storage"
	"github.com/hyperjump/promptgallery/internal/tagging"
)

// LoadLanguage reads every model's records for lang in registry order and tags them.
// With a non-nil tagMap, mapped ids take the mapped tags. A model whose file has not been
// generated contributes no records.
func LoadLanguage(ctx context.Context, store storage.Storage, lang models.Language, tagMap tagging.TagMap,
	tax tagging.Taxonomy, logger *zap.Logger) ([]models.CaseWithTags, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var records []models.CaseRecord
	for _, m := range models.Models() {
		recs, err := store.ReadCases(ctx, m, lang)
		if errors.Is(err, storage.ErrNotFound) {
			logger.Warn("case file missing", zap.String("model", string(m)), zap.String("language", string(lang)))
			continue
		}
		if err != nil {
			return nil, err
		}
		for i := range recs {
			recs[i].Model = m
		}
		records = append(records, recs...)
	}
	if tagMap != nil {
		return tagging.ApplyTagMap(records, tagMap, tax), nil
	}
	return tagging.TagAll(records, tax), nil
}

// Load reads both languages. English is tagged from its own text; Chinese records reuse the
// English tags of the same id.
func Load(ctx context.Context, store storage.Storage, tax tagging.Taxonomy, logger *zap.Logger) (*Catalog, error) {
	en, err := LoadLanguage(ctx, store, models.LanguageEN, nil, tax, logger)
	if err != nil {
		return nil, err
	}
	zh, err := LoadLanguage(ctx, store, models.LanguageZH, tagging.BuildTagMap(en), tax, logger)
	if err != nil {
		return nil, err
	}
	return New(map[models.Language][]models.CaseWithTags{
		models.LanguageEN: en,
		models.LanguageZH: zh,
	}), nil
}
