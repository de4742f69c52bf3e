package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/k3a/html2text"
	"golang.org/x/net/html"
)

var noteMarkerRegex = regexp.MustCompile(`(?i)\[!NOTE\]`)

// Document is a parsed HTML rendering of a case body.
type Document struct {
	root *html.Node
}

// ParseDocument parses rendered HTML.
func ParseDocument(rendered string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// Notes returns the text of every blockquote in document order, one entry per blockquote.
// Callout markers such as [!NOTE] are removed and empty notes are dropped.
func (d *Document) Notes() []string {
	notes := make([]string, 0)
	for _, bq := range findAll(d.root, "blockquote") {
		var b strings.Builder
		for c := bq.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&b, c); err != nil {
				continue
			}
		}
		text := normalizeNote(noteMarkerRegex.ReplaceAllString(html2text.HTML2Text(b.String()), ""))
		if text != "" {
			notes = append(notes, text)
		}
	}
	return notes
}

func normalizeNote(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// findAll returns element nodes named tag under n in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// children returns the direct element children of n named tag.
func children(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
