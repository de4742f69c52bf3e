package keyword

import (
	"regexp"
	"strings"
	"unicode"
)

var phraseRegex = regexp.MustCompile(`"([^"]+)"`)

// ParsedQuery is a search query split into plain terms, quoted phrases and excluded terms.
type ParsedQuery struct {
	Terms   []string
	Phrases []string
	Negated []string
}

// Empty reports whether the query has nothing to match.
func (p ParsedQuery) Empty() bool {
	return len(p.Terms) == 0 && len(p.Phrases) == 0
}

// ParseQuery parses "double quoted" phrases and -excluded terms out of query.
// AND and OR are ignored; every remaining term is optional.
func ParseQuery(query string) ParsedQuery {
	var p ParsedQuery
	for _, m := range phraseRegex.FindAllStringSubmatch(query, -1) {
		if phrase := strings.ToLower(strings.TrimSpace(m[1])); phrase != "" {
			p.Phrases = append(p.Phrases, phrase)
		}
	}
	remaining := phraseRegex.ReplaceAllString(query, " ")

	for _, word := range strings.Fields(remaining) {
		if strings.EqualFold(word, "AND") || strings.EqualFold(word, "OR") || strings.EqualFold(word, "NOT") {
			continue
		}
		if strings.HasPrefix(word, "-") {
			if neg := normalizeToken(strings.TrimPrefix(word, "-")); neg != "" {
				p.Negated = append(p.Negated, neg)
			}
			continue
		}
		if term := normalizeToken(word); term != "" {
			p.Terms = append(p.Terms, term)
		}
	}
	return p
}

// normalizeToken lowercases token and trims edge punctuation other than '-' and '_'.
func normalizeToken(token string) string {
	return strings.TrimFunc(strings.ToLower(token), func(r rune) bool {
		return unicode.IsPunct(r) && r != '-' && r != '_'
	})
}
