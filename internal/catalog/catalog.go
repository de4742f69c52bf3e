// Package catalog holds the tagged dataset in memory and answers the gallery's read queries.
package catalog

import (
	"errors"
	"sort"

	"github.com/hyperjump/promptgallery/internal/models"
)

// ErrNotFound is returned when no case has the requested slug.
var ErrNotFound = errors.New("case not found")

// Catalog is an immutable snapshot of both languages' tagged cases.
type Catalog struct {
	cases  map[models.Language][]models.CaseWithTags
	bySlug map[models.Language]map[string]int
	byID   map[models.Language]map[string]int
}

// New builds a catalog from tagged cases per language. The slices are not copied.
func New(byLang map[models.Language][]models.CaseWithTags) *Catalog {
	c := &Catalog{
		cases:  make(map[models.Language][]models.CaseWithTags, len(byLang)),
		bySlug: make(map[models.Language]map[string]int, len(byLang)),
		byID:   make(map[models.Language]map[string]int, len(byLang)),
	}
	for lang, cases := range byLang {
		c.cases[lang] = cases
		slugs := make(map[string]int, len(cases))
		ids := make(map[string]int, len(cases))
		for i, cs := range cases {
			if _, dup := slugs[cs.Slug]; !dup {
				slugs[cs.Slug] = i
			}
			if _, dup := ids[cs.ID]; !dup {
				ids[cs.ID] = i
			}
		}
		c.bySlug[lang] = slugs
		c.byID[lang] = ids
	}
	return c
}

// Cases returns the cases of lang in dataset order. Callers must not modify the result.
func (c *Catalog) Cases(lang models.Language) []models.CaseWithTags {
	if cases, ok := c.cases[lang]; ok {
		return cases
	}
	return []models.CaseWithTags{}
}

// Len returns the number of cases in lang.
func (c *Catalog) Len(lang models.Language) int {
	return len(c.cases[lang])
}

// BySlug returns the case of lang with the given slug.
func (c *Catalog) BySlug(lang models.Language, slug string) (models.CaseWithTags, error) {
	i, ok := c.bySlug[lang][slug]
	if !ok {
		return models.CaseWithTags{}, ErrNotFound
	}
	return c.cases[lang][i], nil
}

// ByID returns the case of lang with the given id.
func (c *Catalog) ByID(lang models.Language, id string) (models.CaseWithTags, bool) {
	i, ok := c.byID[lang][id]
	if !ok {
		return models.CaseWithTags{}, false
	}
	return c.cases[lang][i], true
}

// ModelFacet is one selectable model with its case count.
type ModelFacet struct {
	Model models.Model `json:"model"`
	Label string       `json:"label"`
	Count int          `json:"count"`
}

// Facets are the filter values available for one language.
type Facets struct {
	Models []ModelFacet `json:"models"`
	Styles []string     `json:"styles"`
	Themes []string     `json:"themes"`
}

// Facets lists the models in registry order and the style and theme tags that occur, sorted.
func (c *Catalog) Facets(lang models.Language) Facets {
	counts := make(map[models.Model]int)
	styles := make(map[string]struct{})
	themes := make(map[string]struct{})
	for _, cs := range c.cases[lang] {
		counts[cs.Model]++
		for _, s := range cs.StyleTags {
			styles[s] = struct{}{}
		}
		for _, t := range cs.ThemeTags {
			themes[t] = struct{}{}
		}
	}
	f := Facets{Models: []ModelFacet{}, Styles: sortedKeys(styles), Themes: sortedKeys(themes)}
	for _, m := range models.Models() {
		if n := counts[m]; n > 0 {
			f.Models = append(f.Models, ModelFacet{Model: m, Label: models.ModelLabel(m), Count: n})
		}
	}
	return f
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
