package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/promptgallery/internal/config"
	"github.com/hyperjump/promptgallery/internal/models"
)

const sectionMarker = "## 🖼️"

// fence lets fixtures spell ``` as ''' inside raw strings.
func fence(s string) string { return strings.ReplaceAll(s, "'''", "```") }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

type fixture struct {
	dir      string
	gptRoot  string
	nanoRoot string
	opts     Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:      dir,
		gptRoot:  filepath.Join(dir, "gpt"),
		nanoRoot: filepath.Join(dir, "nano"),
	}
	f.opts = Options{
		Sources: config.SourcesConfig{
			GPT4o: config.YAMLSourceConfig{Root: f.gptRoot, CasesDir: "cases"},
			NanoBanana: config.ReadmeSourceConfig{
				Root:          f.nanoRoot,
				ReadmeEN:      "README_en.md",
				ReadmeZH:      "README.md",
				SectionMarker: sectionMarker,
			},
		},
		Output: config.OutputConfig{
			DataDir:         filepath.Join(dir, "out", "data"),
			AssetsDir:       filepath.Join(dir, "out", "assets"),
			AssetsURLPrefix: "/assets",
		},
	}

	writeFile(t, filepath.Join(f.gptRoot, "cases", "7", "case.yml"), fence(`title: 霓虹小巷
title_en: Neon Alley
author: "@neo"
author_link: https://x.com/neo
source_links:
  - url: https://x.com/neo/status/7
prompt_en: |
  **Prompt:**
  '''
  A neon-lit alley at night
  '''
reference_note_en: |
  Upload a street
  photo.
`))
	writeFile(t, filepath.Join(f.gptRoot, "cases", "7", "hero.png"), "\x89PNG-hero")
	writeFile(t, filepath.Join(f.gptRoot, "cases", "7", "notes.txt"), "not an image")

	writeFile(t, filepath.Join(f.nanoRoot, "README_en.md"), fence(`# Awesome Nano Banana

### Case 99: Listed before the gallery marker

`+sectionMarker+` Examples

### Case 1: [Figurine](https://x.com/s/1) (by [@neo](https://x.com/neo))

<table>
<tr><th>Input</th><th>Output</th></tr>
<tr><td><img src="images/case1/in.png"></td><td><img src="images/case1/out.png"><img src="images/case1/gone.png"></td></tr>
</table>

**Input:** Upload a portrait.

**Prompt:**

'''
Turn the subject into a figurine
'''

> Works best with natural light.
`))
	writeFile(t, filepath.Join(f.nanoRoot, "README.md"), fence(sectionMarker+` 例子

### 例 1：[手办](https://x.com/s/1)（by [@neo](https://x.com/neo)）

<table>
<tr><th>输入</th><th>输出</th></tr>
<tr><td><img src="images/case1/in.png"></td><td><img src="images/case1/out.png"></td></tr>
</table>

**输入：** 上传一张人像。

**提示词：**

'''
把主体变成手办
'''
`))
	writeFile(t, filepath.Join(f.nanoRoot, "images", "case1", "in.png"), "in-bytes")
	writeFile(t, filepath.Join(f.nanoRoot, "images", "case1", "out.png"), "out-bytes")
	return f
}

func (f *fixture) readCases(t *testing.T, name string) []models.CaseRecord {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.opts.Output.DataDir, name))
	if err != nil {
		t.Fatal(err)
	}
	var records []models.CaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatal(err)
	}
	return records
}

func TestRun_gpt4oCase(t *testing.T) {
	f := newFixture(t)
	report, err := New(f.opts).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Written || report.RunID == "" {
		t.Errorf("report = %+v", report)
	}

	en := f.readCases(t, "gpt-4o.en.json")
	if len(en) != 1 {
		t.Fatalf("len(en) = %d, want 1", len(en))
	}
	r := en[0]
	if r.ID != "gpt4o-7" || r.Slug != "gpt-4o-case-7" || r.CaseNumber != 7 || r.Model != models.ModelGPT4o {
		t.Errorf("identity = %s %s %d %s", r.ID, r.Slug, r.CaseNumber, r.Model)
	}
	if r.Title != "Neon Alley" || r.Prompt != "A neon-lit alley at night" {
		t.Errorf("title/prompt = %q / %q", r.Title, r.Prompt)
	}
	wantOut := []models.ImageEntry{{Src: "/assets/gpt-4o/7/hero.png", Alt: "AI image prompt – Neon Alley output image"}}
	if !reflect.DeepEqual(r.OutputImages, wantOut) {
		t.Errorf("OutputImages = %+v", r.OutputImages)
	}
	if len(r.InputImages) != 0 || len(r.Notes) != 0 {
		t.Errorf("expected no input images or notes, got %+v %+v", r.InputImages, r.Notes)
	}
	if r.InputRequirement != "Upload a street photo." || r.ReferenceNote != "Upload a street photo." {
		t.Errorf("reference = %q / %q", r.InputRequirement, r.ReferenceNote)
	}
	if r.Author != "@neo" || r.AuthorURL != "https://x.com/neo" {
		t.Errorf("author = %q %q", r.Author, r.AuthorURL)
	}
	if !reflect.DeepEqual(r.SourceLinks, []string{"https://x.com/neo/status/7"}) {
		t.Errorf("SourceLinks = %v", r.SourceLinks)
	}

	zh := f.readCases(t, "gpt-4o.zh.json")
	if len(zh) != 1 || zh[0].ID != r.ID || zh[0].Slug != r.Slug || zh[0].CaseNumber != r.CaseNumber {
		t.Fatalf("zh identity differs: %+v", zh)
	}
	if zh[0].Title != "霓虹小巷" || zh[0].Prompt != "A neon-lit alley at night" {
		t.Errorf("zh title/prompt = %q / %q", zh[0].Title, zh[0].Prompt)
	}
	if !reflect.DeepEqual(zh[0].OutputImages, wantOut) {
		t.Errorf("zh OutputImages = %+v", zh[0].OutputImages)
	}

	copied, err := os.ReadFile(filepath.Join(f.opts.Output.AssetsDir, "gpt-4o", "7", "hero.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(copied) != "\x89PNG-hero" {
		t.Errorf("asset bytes = %q", copied)
	}
	if _, err := os.Stat(filepath.Join(f.opts.Output.AssetsDir, "gpt-4o", "7", "notes.txt")); !os.IsNotExist(err) {
		t.Errorf("non-image file should not be copied, stat err = %v", err)
	}
}

func TestRun_nanoReadme(t *testing.T) {
	f := newFixture(t)
	report, err := New(f.opts).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	en := f.readCases(t, "nano-banana.en.json")
	if len(en) != 1 {
		t.Fatalf("len(en) = %d, want 1 (sections before the marker are ignored)", len(en))
	}
	r := en[0]
	if r.ID != "nano-1" || r.Slug != "nano-banana-case-1" || r.Title != "Figurine" {
		t.Errorf("identity = %s %s %q", r.ID, r.Slug, r.Title)
	}
	if r.Author != "@neo" || r.AuthorURL != "https://x.com/neo" {
		t.Errorf("author = %q %q", r.Author, r.AuthorURL)
	}
	if !reflect.DeepEqual(r.SourceLinks, []string{"https://x.com/s/1", "https://x.com/neo"}) {
		t.Errorf("SourceLinks = %v", r.SourceLinks)
	}
	if r.InputRequirement != "Upload a portrait." || r.Prompt != "Turn the subject into a figurine" {
		t.Errorf("input/prompt = %q / %q", r.InputRequirement, r.Prompt)
	}
	if !reflect.DeepEqual(r.Notes, []string{"Works best with natural light."}) {
		t.Errorf("Notes = %q", r.Notes)
	}
	wantIn := []models.ImageEntry{{Src: "/assets/nano-banana/case1/in.png", Alt: "AI image prompt – Figurine input reference"}}
	wantOut := []models.ImageEntry{{Src: "/assets/nano-banana/case1/out.png", Alt: "AI image prompt – Figurine output image"}}
	if !reflect.DeepEqual(r.InputImages, wantIn) || !reflect.DeepEqual(r.OutputImages, wantOut) {
		t.Errorf("images = %+v / %+v", r.InputImages, r.OutputImages)
	}

	zh := f.readCases(t, "nano-banana.zh.json")
	if len(zh) != 1 || zh[0].ID != "nano-1" || zh[0].Title != "手办" {
		t.Fatalf("zh = %+v", zh)
	}
	if zh[0].InputRequirement != "上传一张人像。" || zh[0].Prompt != "把主体变成手办" {
		t.Errorf("zh input/prompt = %q / %q", zh[0].InputRequirement, zh[0].Prompt)
	}
	if !reflect.DeepEqual(zh[0].InputImages, wantIn) {
		t.Errorf("zh alt text should use the English title, got %+v", zh[0].InputImages)
	}

	mr := report.Model(models.ModelNanoBanana)
	if mr == nil {
		t.Fatal("missing nano report")
	}
	if len(mr.DroppedImages) != 1 || !strings.HasSuffix(mr.DroppedImages[0].Src, "gone.png") {
		t.Errorf("DroppedImages = %+v, want gone.png", mr.DroppedImages)
	}
	if report.TotalDropped() != 1 {
		t.Errorf("TotalDropped = %d", report.TotalDropped())
	}
	for _, name := range []string{"in.png", "out.png"} {
		if _, err := os.Stat(filepath.Join(f.opts.Output.AssetsDir, "nano-banana", "case1", name)); err != nil {
			t.Errorf("asset %s not copied: %v", name, err)
		}
	}
}

func TestRun_deterministic(t *testing.T) {
	f := newFixture(t)
	if _, err := New(f.opts).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := map[string][]byte{}
	for _, name := range []string{"gpt-4o.en.json", "gpt-4o.zh.json", "nano-banana.en.json", "nano-banana.zh.json"} {
		data, err := os.ReadFile(filepath.Join(f.opts.Output.DataDir, name))
		if err != nil {
			t.Fatal(err)
		}
		first[name] = data
	}
	if _, err := New(f.opts).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for name, want := range first {
		got, err := os.ReadFile(filepath.Join(f.opts.Output.DataDir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s differs between runs", name)
		}
	}
}

func TestRun_missingSourceRoot(t *testing.T) {
	f := newFixture(t)
	f.opts.Sources.GPT4o.Root = filepath.Join(f.dir, "does-not-exist")
	_, err := New(f.opts).Run(context.Background())
	if !errors.Is(err, ErrSourceRootMissing) {
		t.Fatalf("err = %v, want ErrSourceRootMissing", err)
	}
	if _, err := os.Stat(f.opts.Output.DataDir); !os.IsNotExist(err) {
		t.Errorf("data dir should not exist after a fatal run, stat err = %v", err)
	}
}

func TestRun_missingReadme(t *testing.T) {
	f := newFixture(t)
	f.opts.Sources.NanoBanana.ReadmeZH = "README_missing.md"
	_, err := New(f.opts).Run(context.Background())
	if !errors.Is(err, ErrSourceRootMissing) {
		t.Fatalf("err = %v, want ErrSourceRootMissing", err)
	}
	if _, err := os.Stat(filepath.Join(f.opts.Output.DataDir, "gpt-4o.en.json")); !os.IsNotExist(err) {
		t.Errorf("no case file should be written when a later model fails, stat err = %v", err)
	}
}

func TestRun_malformedDescriptor(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.gptRoot, "cases", "8", "case.yml"), "title: \"unterminated\nprompt: [\n")
	_, err := New(f.opts).Run(context.Background())
	if !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("err = %v, want ErrMalformedSource", err)
	}
	if _, err := os.Stat(f.opts.Output.DataDir); !os.IsNotExist(err) {
		t.Errorf("data dir should not exist, stat err = %v", err)
	}
}

func TestBuild_numericOrderAndSkips(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"10", "2", "9"} {
		writeFile(t, filepath.Join(f.gptRoot, "cases", n, "case.yml"), "title_en: Case "+n+"\n")
	}
	if err := os.MkdirAll(filepath.Join(f.gptRoot, "cases", "3"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(f.gptRoot, "cases", "drafts"), 0755); err != nil {
		t.Fatal(err)
	}

	result, err := New(f.opts).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for _, r := range result.Data[models.ModelGPT4o].EN {
		got = append(got, r.CaseNumber)
	}
	if want := []int{2, 7, 9, 10}; !reflect.DeepEqual(got, want) {
		t.Errorf("case order = %v, want %v", got, want)
	}
	mr := result.Report.Model(models.ModelGPT4o)
	if len(mr.Skipped) != 1 || mr.Skipped[0].Case != "3" {
		t.Errorf("Skipped = %+v, want case 3", mr.Skipped)
	}
	if _, err := os.Stat(f.opts.Output.DataDir); !os.IsNotExist(err) {
		t.Errorf("Build must not write, stat err = %v", err)
	}
}

func TestBuild_duplicateCaseLastWins(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.nanoRoot, "README_en.md"), fence(sectionMarker+`

### Case 4: First version

**Prompt:**
'''
old
'''

### Case 4: Second version

**Prompt:**
'''
new
'''
`))
	result, err := New(f.opts).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	en := result.Data[models.ModelNanoBanana].EN
	if len(en) != 1 || en[0].Title != "Second version" || en[0].Prompt != "new" {
		t.Errorf("en = %+v", en)
	}
	mr := result.Report.Model(models.ModelNanoBanana)
	if !reflect.DeepEqual(mr.DuplicateCases, []string{"en:4"}) {
		t.Errorf("DuplicateCases = %v", mr.DuplicateCases)
	}
}

func TestBuild_untitledHeadingDoesNotMergeIntoPreviousCase(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.nanoRoot, "README_en.md"), fence(sectionMarker+`

### Case 1: [Figurine](https://x.com/s/1)

<table>
<tr><th>Output</th></tr>
<tr><td><img src="images/case1/out.png"></td></tr>
</table>

### Case 2:

<table>
<tr><th>Output</th></tr>
<tr><td><img src="images/case1/in.png"></td></tr>
</table>

**Prompt:**
'''
case two prompt
'''
`))
	result, err := New(f.opts).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	en := result.Data[models.ModelNanoBanana].EN
	if len(en) != 1 || en[0].ID != "nano-1" {
		t.Fatalf("en = %+v, want only nano-1", en)
	}
	if en[0].Prompt != "" {
		t.Errorf("case 1 took the next case's prompt: %q", en[0].Prompt)
	}
	want := []models.ImageEntry{{Src: "/assets/nano-banana/case1/out.png", Alt: "AI image prompt – Figurine output image"}}
	if !reflect.DeepEqual(en[0].OutputImages, want) {
		t.Errorf("OutputImages = %+v", en[0].OutputImages)
	}
	mr := result.Report.Model(models.ModelNanoBanana)
	if len(mr.Skipped) != 1 || mr.Skipped[0].Case != "2" {
		t.Errorf("Skipped = %+v, want case 2", mr.Skipped)
	}
}

func TestBuild_nanoLanguagesShareAttribution(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.nanoRoot, "README.md"), fence(sectionMarker+` 例子

### 例 1：[手办](https://x.com/s/1)（作者 [@neo](https://x.com/neo)）

<table>
<tr><th>输出</th></tr>
<tr><td><img src="images/case1/out.png"></td></tr>
</table>

**提示词：**

'''
把主体变成手办
'''
`))
	result, err := New(f.opts).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	data := result.Data[models.ModelNanoBanana]
	if len(data.EN) != 1 || len(data.ZH) != 1 {
		t.Fatalf("en/zh = %d/%d records", len(data.EN), len(data.ZH))
	}
	en, zh := data.EN[0], data.ZH[0]
	if zh.Title != "手办" || zh.Prompt != "把主体变成手办" {
		t.Errorf("zh title/prompt = %q / %q", zh.Title, zh.Prompt)
	}
	if zh.Author != en.Author || zh.AuthorURL != en.AuthorURL {
		t.Errorf("author en=%q %q zh=%q %q", en.Author, en.AuthorURL, zh.Author, zh.AuthorURL)
	}
	if !reflect.DeepEqual(zh.SourceLinks, en.SourceLinks) {
		t.Errorf("SourceLinks en=%v zh=%v", en.SourceLinks, zh.SourceLinks)
	}
	if !reflect.DeepEqual(zh.InputImages, en.InputImages) || !reflect.DeepEqual(zh.OutputImages, en.OutputImages) {
		t.Errorf("images en=%+v/%+v zh=%+v/%+v", en.InputImages, en.OutputImages, zh.InputImages, zh.OutputImages)
	}
}

func TestBuild_dedupesImagesAcrossMarkup(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.nanoRoot, "README_en.md"), fence(sectionMarker+`

### Case 1: Figurine

<table>
<tr><th>Input</th><th>Output</th></tr>
<tr>
<td><img src="images/case1/in.png"><br><a href="https://x.com/s/1"><img width="300" alt="ref" src="images/case1/in.png"/></a></td>
<td><p><img src="images/case1/out.png"></p><img src="images/case1/out.png" height="200"></td>
</tr>
</table>
`))
	result, err := New(f.opts).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	en := result.Data[models.ModelNanoBanana].EN
	if len(en) != 1 {
		t.Fatalf("en = %+v", en)
	}
	if len(en[0].InputImages) != 1 || en[0].InputImages[0].Src != "/assets/nano-banana/case1/in.png" {
		t.Errorf("InputImages = %+v, want one in.png", en[0].InputImages)
	}
	if len(en[0].OutputImages) != 1 || en[0].OutputImages[0].Src != "/assets/nano-banana/case1/out.png" {
		t.Errorf("OutputImages = %+v, want one out.png", en[0].OutputImages)
	}
}

func TestBuild_uniqueSlugsPerModelAndLanguage(t *testing.T) {
	f := newFixture(t)
	for _, n := range []string{"1", "2", "12"} {
		writeFile(t, filepath.Join(f.gptRoot, "cases", n, "case.yml"), "title: 案例"+n+"\ntitle_en: Case "+n+"\n")
	}
	result, err := New(f.opts).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for model, data := range result.Data {
		for lang, records := range map[models.Language][]models.CaseRecord{models.LanguageEN: data.EN, models.LanguageZH: data.ZH} {
			slugs := make(map[string]bool)
			ids := make(map[string]bool)
			for _, r := range records {
				if slugs[r.Slug] || ids[r.ID] {
					t.Errorf("%s/%s: duplicate slug %q or id %q", model, lang, r.Slug, r.ID)
				}
				slugs[r.Slug] = true
				ids[r.ID] = true
			}
		}
	}
	if n := len(result.Data[models.ModelGPT4o].EN); n != 4 {
		t.Errorf("gpt-4o en records = %d, want 4", n)
	}
}

func TestBuild_unreadableReadmeIsFatal(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.nanoRoot, "README_en.md"),
		sectionMarker+"\n\n### Case 1: Figurine\n"+strings.Repeat("x", 17*1024*1024)+"\n")
	_, err := New(f.opts).Build(context.Background())
	if !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("err = %v, want ErrMalformedSource", err)
	}
}
