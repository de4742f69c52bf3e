// Package models defines the case records produced by ingestion and served by the gallery.
package models

// ImageEntry is one image attached to a case.
type ImageEntry struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// CaseRecord is one curated prompt example in one language.
// Optional text fields are omitted from JSON when empty; slices always encode as arrays.
type CaseRecord struct {
	ID               string       `json:"id"`
	CaseNumber       int          `json:"caseNumber"`
	Model            Model        `json:"model"`
	Slug             string       `json:"slug"`
	Title            string       `json:"title"`
	Prompt           string       `json:"prompt"`
	InputRequirement string       `json:"inputRequirement"`
	PromptNote       string       `json:"promptNote,omitempty"`
	ReferenceNote    string       `json:"referenceNote,omitempty"`
	Notes            []string     `json:"notes"`
	Author           string       `json:"author"`
	AuthorURL        string       `json:"authorUrl,omitempty"`
	SourceLinks      []string     `json:"sourceLinks"`
	InputImages      []ImageEntry `json:"inputImages"`
	OutputImages     []ImageEntry `json:"outputImages"`
}

// Normalize replaces nil slices with empty ones so the record encodes "[]" instead of "null".
func (r *CaseRecord) Normalize() {
	if r.Notes == nil {
		r.Notes = []string{}
	}
	if r.SourceLinks == nil {
		r.SourceLinks = []string{}
	}
	if r.InputImages == nil {
		r.InputImages = []ImageEntry{}
	}
	if r.OutputImages == nil {
		r.OutputImages = []ImageEntry{}
	}
}

// TagSet is the derived classification of a case.
type TagSet struct {
	StyleTags []string `json:"styleTags"`
	ThemeTags []string `json:"themeTags"`
	Keywords  []string `json:"keywords"`
}

// CaseWithTags is a CaseRecord plus its derived tags. It is never persisted by ingestion.
type CaseWithTags struct {
	CaseRecord
	TagSet
}

// ModelData holds both language variants of one model's records.
type ModelData struct {
	EN []CaseRecord
	ZH []CaseRecord
}
