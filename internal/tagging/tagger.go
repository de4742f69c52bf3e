package tagging

import (
	"strings"

	"github.com/hyperjump/promptgallery/internal/models"
)

// TagMap maps case ids to the tags computed for them.
type TagMap map[string]models.TagSet

// Tag classifies one record. Matching is plain substring search over the lowercased
// title, prompt, input requirement, prompt note and reference note.
func Tag(record models.CaseRecord, tax Taxonomy) models.CaseWithTags {
	text := searchText(record)
	style := match(text, tax.Style)
	if len(style) == 0 {
		style = append(style, defaultOr(tax.DefaultStyle))
	}
	theme := match(text, tax.Theme)
	if len(theme) == 0 {
		theme = append(theme, defaultOr(tax.DefaultTheme))
	}

	tokens := make([]string, 0, len(style)+len(theme)+2)
	tokens = append(tokens, style...)
	tokens = append(tokens, theme...)
	tokens = append(tokens, string(record.Model), strings.TrimPrefix(record.Author, "@"))

	record.Normalize()
	return models.CaseWithTags{
		CaseRecord: record,
		TagSet: models.TagSet{
			StyleTags: style,
			ThemeTags: theme,
			Keywords:  keywords(tokens),
		},
	}
}

// TagAll classifies records independently, preserving order.
func TagAll(records []models.CaseRecord, tax Taxonomy) []models.CaseWithTags {
	out := make([]models.CaseWithTags, 0, len(records))
	for _, r := range records {
		out = append(out, Tag(r, tax))
	}
	return out
}

// BuildTagMap indexes tagged cases by id.
func BuildTagMap(cases []models.CaseWithTags) TagMap {
	m := make(TagMap, len(cases))
	for _, c := range cases {
		m[c.ID] = c.TagSet
	}
	return m
}

// ApplyTagMap attaches the mapped tags to each record, so a translation carries the
// tags of its English original. Records without an entry are tagged from their own text.
func ApplyTagMap(records []models.CaseRecord, tagMap TagMap, tax Taxonomy) []models.CaseWithTags {
	out := make([]models.CaseWithTags, 0, len(records))
	for _, r := range records {
		set, ok := tagMap[r.ID]
		if !ok {
			out = append(out, Tag(r, tax))
			continue
		}
		r.Normalize()
		out = append(out, models.CaseWithTags{CaseRecord: r, TagSet: set})
	}
	return out
}

func searchText(r models.CaseRecord) string {
	parts := make([]string, 0, 5)
	for _, v := range []string{r.Title, r.Prompt, r.InputRequirement, r.PromptNote, r.ReferenceNote} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.ToLower(strings.Join(parts, " \n"))
}

func match(text string, cats []Category) []string {
	out := make([]string, 0)
	for _, c := range cats {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				out = append(out, c.Tag)
				break
			}
		}
	}
	return out
}

func keywords(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func defaultOr(label string) string {
	if label == "" {
		return DefaultLabel
	}
	return label
}
