// Package sitemap emits the site's sitemap.xml from the static pages, blog posts and cases.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/promptgallery/internal/models"
)

const (
	namespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	changeFreq = "weekly"
	priority   = "0.7"
)

var staticPages = []string{"", "/blog", "/faq", "/terms", "/privacy", "/contact"}

// CaseLister provides the cases of a language in dataset order.
type CaseLister interface {
	Cases(lang models.Language) []models.CaseWithTags
}

// Site describes what the sitemap covers.
type Site struct {
	BaseURL   string
	BlogPosts map[string][]string // language code -> post slugs
}

// URLs lists every page: per language, static pages, then blog posts, then cases.
// English comes first and is rooted at "/"; other languages live under "/<lang>".
func URLs(site Site, cases CaseLister) []string {
	base := strings.TrimSuffix(site.BaseURL, "/")
	var urls []string
	for _, lang := range models.Languages() {
		prefix := LanguagePrefix(lang)
		for _, page := range staticPages {
			p := prefix + page
			if p == "" {
				p = "/"
			}
			urls = append(urls, base+p)
		}
		for _, slug := range site.BlogPosts[string(lang)] {
			urls = append(urls, base+prefix+"/blog/"+slug)
		}
		for _, c := range cases.Cases(lang) {
			urls = append(urls, base+prefix+"/cases/"+c.Slug)
		}
	}
	return urls
}

// LanguagePrefix is the path prefix of lang's pages: "" for English, "/zh" for Chinese.
func LanguagePrefix(lang models.Language) string {
	if lang == models.LanguageEN {
		return ""
	}
	return "/" + string(lang)
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Write renders urls as a sitemap document.
func Write(w io.Writer, urls []string) error {
	set := urlSet{XMLNS: namespace, URLs: make([]entry, 0, len(urls))}
	for _, loc := range urls {
		set.URLs = append(set.URLs, entry{Loc: loc, ChangeFreq: changeFreq, Priority: priority})
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sitemap: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteFile writes the sitemap to path, creating parent directories.
func WriteFile(path string, urls []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create sitemap directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sitemap: %w", err)
	}
	if err := Write(f, urls); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
