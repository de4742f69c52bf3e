// Package keyword provides ranked full-text search over gallery cases.
package keyword

import (
	"context"

	"github.com/hyperjump/promptgallery/internal/models"
)

// SearchOptions are optional parameters for a search. Nil means defaults.
type SearchOptions struct {
	// TitleBoost multiplies the score of title matches. Values <= 1 disable the boost.
	TitleBoost float64
	// FuzzyEnabled matches terms within Fuzziness edits, for typo tolerance.
	FuzzyEnabled bool
	// Fuzziness is the maximum edit distance (1 or 2). Defaults to 1.
	Fuzziness int
}

// CaseIndex indexes one language's cases.
type CaseIndex interface {
	Index(ctx context.Context, c models.CaseWithTags) error
	Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]Result, error)
	DocCount() (uint64, error)
	Close() error
}

// Result is a single search hit.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// TermDictionary exposes indexed terms with their document frequencies.
type TermDictionary interface {
	Terms() (map[string]int, error)
}
