package catalog

import (
	"sort"
	"strings"

	"github.com/hyperjump/promptgallery/internal/models"
)

// Filter applies the gallery's filters to cases and returns the requested page.
// Cases are ordered newest first (highest case number), ties keep dataset order.
// Each non-empty filter matches if any selected value matches. The search term matches
// the title, prompt or input requirement as a substring, or is contained in a keyword.
func Filter(cases []models.CaseWithTags, q models.CaseQuery) models.CasePage {
	ordered := make([]models.CaseWithTags, len(cases))
	copy(ordered, cases)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].CaseNumber > ordered[j].CaseNumber })

	term := strings.ToLower(strings.TrimSpace(q.Term))
	matched := make([]models.CaseWithTags, 0, len(ordered))
	for _, c := range ordered {
		if matches(c, q, term) {
			matched = append(matched, c)
		}
	}
	return paginate(matched, q.Offset, q.Limit)
}

func matches(c models.CaseWithTags, q models.CaseQuery, term string) bool {
	if len(q.Models) > 0 && !containsModel(q.Models, c.Model) {
		return false
	}
	if len(q.Styles) > 0 && !anyIn(q.Styles, c.StyleTags) {
		return false
	}
	if len(q.Themes) > 0 && !anyIn(q.Themes, c.ThemeTags) {
		return false
	}
	if term == "" {
		return true
	}
	searchable := strings.ToLower(c.Title + "\n" + c.Prompt + "\n" + c.InputRequirement)
	if strings.Contains(searchable, term) {
		return true
	}
	for _, kw := range c.Keywords {
		if strings.Contains(kw, term) {
			return true
		}
	}
	return false
}

func paginate(items []models.CaseWithTags, offset, limit int) models.CasePage {
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)
	return models.CasePage{
		Items:   items[start:end],
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: end < total,
	}
}

func containsModel(list []models.Model, m models.Model) bool {
	for _, v := range list {
		if v == m {
			return true
		}
	}
	return false
}

func anyIn(selected, tags []string) bool {
	for _, s := range selected {
		for _, t := range tags {
			if s == t {
				return true
			}
		}
	}
	return false
}
