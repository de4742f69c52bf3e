package sitemap

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/promptgallery/internal/models"
)

type fakeCases map[models.Language][]string

func (f fakeCases) Cases(lang models.Language) []models.CaseWithTags {
	out := []models.CaseWithTags{}
	for _, slug := range f[lang] {
		out = append(out, models.CaseWithTags{CaseRecord: models.CaseRecord{Slug: slug}})
	}
	return out
}

func TestURLs(t *testing.T) {
	site := Site{
		BaseURL:   "https://ai-image-prompt.com/",
		BlogPosts: map[string][]string{"en": {"post-a"}, "zh": {"post-b"}},
	}
	cases := fakeCases{
		models.LanguageEN: {"gpt-4o-case-7"},
		models.LanguageZH: {"gpt-4o-case-7"},
	}
	got := URLs(site, cases)
	b := "https://ai-image-prompt.com"
	want := []string{
		b + "/", b + "/blog", b + "/faq", b + "/terms", b + "/privacy", b + "/contact",
		b + "/blog/post-a",
		b + "/cases/gpt-4o-case-7",
		b + "/zh", b + "/zh/blog", b + "/zh/faq", b + "/zh/terms", b + "/zh/privacy", b + "/zh/contact",
		b + "/zh/blog/post-b",
		b + "/zh/cases/gpt-4o-case-7",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("URLs =\n%v\nwant\n%v", got, want)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []string{"https://example.com/", "https://example.com/a?b=1&c=2"}); err != nil {
		t.Fatal(err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://example.com/</loc>
    <changefreq>weekly</changefreq>
    <priority>0.7</priority>
  </url>
  <url>
    <loc>https://example.com/a?b=1&amp;c=2</loc>
    <changefreq>weekly</changefreq>
    <priority>0.7</priority>
  </url>
</urlset>
`
	if buf.String() != want {
		t.Errorf("Write =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public", "sitemap.xml")
	if err := WriteFile(path, []string{"https://example.com/"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<loc>https://example.com/</loc>") {
		t.Errorf("sitemap = %s", data)
	}
}
