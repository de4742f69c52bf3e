package keyword

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Suggester proposes corrected queries from the terms of an index.
type Suggester struct {
	terms       map[string]int
	maxDistance int
}

// NewSuggester snapshots the dictionary. maxDistance <= 0 means 2.
func NewSuggester(dict TermDictionary, maxDistance int) (*Suggester, error) {
	terms, err := dict.Terms()
	if err != nil {
		return nil, err
	}
	if maxDistance <= 0 {
		maxDistance = 2
	}
	return &Suggester{terms: terms, maxDistance: maxDistance}, nil
}

// Suggest returns query with each unknown term replaced by its closest indexed term, and
// whether anything changed. Closer terms win, then more frequent ones, then alphabetical order.
func (s *Suggester) Suggest(query string) (string, bool) {
	terms := ParseQuery(query).Terms
	changed := false
	for i, term := range terms {
		if _, ok := s.terms[term]; ok {
			continue
		}
		if best := s.closest(term); best != "" {
			terms[i] = best
			changed = true
		}
	}
	return strings.Join(terms, " "), changed
}

func (s *Suggester) closest(term string) string {
	type candidate struct {
		term     string
		distance int
		freq     int
	}
	var candidates []candidate
	n := utf8.RuneCountInString(term)
	for t, freq := range s.terms {
		diff := utf8.RuneCountInString(t) - n
		if diff > s.maxDistance || -diff > s.maxDistance {
			continue
		}
		if d := levenshtein(term, t); d <= s.maxDistance {
			candidates = append(candidates, candidate{term: t, distance: d, freq: freq})
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.freq != b.freq {
			return a.freq > b.freq
		}
		return a.term < b.term
	})
	return candidates[0].term
}

// levenshtein is the rune-level edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
