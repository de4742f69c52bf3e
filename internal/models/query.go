package models

const (
	// DefaultPageSize matches the gallery's infinite-scroll batch.
	DefaultPageSize = 30
	// MaxPageSize caps a single page.
	MaxPageSize = 100
)

// CaseQuery is a filter and pagination request over one language's cases.
// Empty filter slices match everything.
type CaseQuery struct {
	Language Language `json:"language"`
	Term     string   `json:"term,omitempty"`
	Models   []Model  `json:"models,omitempty"`
	Styles   []string `json:"styles,omitempty"`
	Themes   []string `json:"themes,omitempty"`
	Offset   int      `json:"offset,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// Validate normalizes the query: defaults the language and limit, caps the limit, clamps the offset.
func (q *CaseQuery) Validate() error {
	if q.Language == "" {
		q.Language = LanguageEN
	}
	if _, err := ParseLanguage(string(q.Language)); err != nil {
		return err
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return nil
}

// CasePage is one page of filtered cases.
type CasePage struct {
	Items   []CaseWithTags `json:"items"`
	Total   int            `json:"total"`
	Offset  int            `json:"offset"`
	Limit   int            `json:"limit"`
	HasMore bool           `json:"hasMore"`
}
