package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperjump/promptgallery/internal/models"
)

// Role is the part an image plays in a case.
type Role int

const (
	RoleNone Role = iota
	RoleInput
	RoleOutput
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	default:
		return "none"
	}
}

// ImageRef is an image found in a case body, with its raw src as written upstream.
type ImageRef struct {
	Src  string
	Role Role
}

// ClassifyHeader maps a table column header to an image role.
func ClassifyHeader(header string) Role {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "input") || strings.Contains(h, "输入"):
		return RoleInput
	case strings.Contains(h, "output") || strings.Contains(h, "result") ||
		strings.Contains(h, "输出") || strings.Contains(h, "结果"):
		return RoleOutput
	default:
		return RoleNone
	}
}

// ClassifyImages walks every table and files each <img> under the role of its column header.
// Images in unclassified columns are ignored. Quote characters are stripped from src values.
func (d *Document) ClassifyImages() (inputs, outputs []ImageRef) {
	inputs, outputs = make([]ImageRef, 0), make([]ImageRef, 0)
	for _, table := range findAll(d.root, "table") {
		header, rows := tableRows(table)
		if header == nil {
			continue
		}
		roles := make([]Role, 0)
		for _, cell := range cells(header, "th", "td") {
			roles = append(roles, ClassifyHeader(textContent(cell)))
		}
		for _, row := range rows {
			for i, cell := range cells(row, "td") {
				if i >= len(roles) || roles[i] == RoleNone {
					continue
				}
				for _, img := range findAll(cell, "img") {
					src := strings.TrimSpace(strings.ReplaceAll(attr(img, "src"), `"`, ""))
					if src == "" {
						continue
					}
					ref := ImageRef{Src: src, Role: roles[i]}
					if roles[i] == RoleInput {
						inputs = append(inputs, ref)
					} else {
						outputs = append(outputs, ref)
					}
				}
			}
		}
	}
	return inputs, outputs
}

// tableRows returns the header row of a table and its remaining data rows.
// The header is the first row of <thead>, or else the first row made only of <th> cells.
func tableRows(table *html.Node) (*html.Node, []*html.Node) {
	var header *html.Node
	var body []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead":
			if rows := children(c, "tr"); len(rows) > 0 && header == nil {
				header = rows[0]
			}
		case "tbody", "tfoot":
			body = append(body, children(c, "tr")...)
		case "tr":
			body = append(body, c)
		}
	}
	if header == nil {
		for i, row := range body {
			if isHeaderRow(row) {
				header = row
				body = append(body[:i:i], body[i+1:]...)
				break
			}
		}
	}
	return header, body
}

func isHeaderRow(row *html.Node) bool {
	return len(cells(row, "th")) > 0 && len(cells(row, "td")) == 0
}

func cells(row *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		for _, t := range tags {
			if c.Data == t {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// DedupeImages drops entries whose src was already seen, keeping the first occurrence.
func DedupeImages(entries []models.ImageEntry) []models.ImageEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]models.ImageEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Src]; ok {
			continue
		}
		seen[e.Src] = struct{}{}
		out = append(out, e)
	}
	return out
}
