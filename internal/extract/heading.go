package extract

import (
	"regexp"
	"strings"
)

var (
	// linkRegex matches a Markdown link with an http(s) target.
	linkRegex = regexp.MustCompile(`\[(.+?)\]\((https?:[^)]+)\)`)
	// authorRegex matches an attribution such as "by [@name](https://...)".
	authorRegex = regexp.MustCompile(`(?i)by\s*\[([^\]]+)\]\((https?:[^)]+)\)`)

	fullWidthParens = strings.NewReplacer("（", "(", "）", ")")
)

// Heading holds the fields recovered from a section heading.
type Heading struct {
	Title       string
	SourceLinks []string
	Author      string
	AuthorURL   string
}

// NormalizeHeading replaces full-width parentheses with ASCII ones.
func NormalizeHeading(h string) string {
	return fullWidthParens.Replace(h)
}

// ParseHeading extracts title, links and attribution from a heading.
// The first link's text is the title and its URL the primary source link; later link URLs
// follow in order. Without links the whole trimmed heading is the title.
func ParseHeading(h string) Heading {
	normalized := NormalizeHeading(h)
	var out Heading
	matches := linkRegex.FindAllStringSubmatch(normalized, -1)
	if len(matches) > 0 {
		out.Title = strings.TrimSpace(matches[0][1])
	} else {
		out.Title = strings.TrimSpace(normalized)
	}
	out.SourceLinks = make([]string, 0, len(matches))
	for _, m := range matches {
		out.SourceLinks = append(out.SourceLinks, m[2])
	}
	if m := authorRegex.FindStringSubmatch(normalized); m != nil {
		out.Author = m[1]
		out.AuthorURL = m[2]
	}
	return out
}
