package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func mkdirAll(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverCaseDirs_numericOrder(t *testing.T) {
	root := t.TempDir()
	mkdirAll(t,
		filepath.Join(root, "2"),
		filepath.Join(root, "10"),
		filepath.Join(root, "1"),
		filepath.Join(root, "drafts"),
		filepath.Join(root, "3a"),
	)
	writeFile(t, filepath.Join(root, "4"), "a file, not a directory")

	dirs, err := DiscoverCaseDirs(root)
	if err != nil {
		t.Fatalf("DiscoverCaseDirs: %v", err)
	}
	var names []string
	for _, d := range dirs {
		names = append(names, d.Name)
	}
	if want := []string{"1", "2", "10"}; !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
	if dirs[2].Number != 10 || dirs[2].Path != filepath.Join(root, "10") {
		t.Errorf("unexpected case dir: %+v", dirs[2])
	}
}

func TestDiscoverCaseDirs_missingRoot(t *testing.T) {
	if _, err := DiscoverCaseDirs(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestListImages_filtersByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "case.yml", "notes.txt", "c.webp", "d.gif", "e.jpeg", "f.svg"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	mkdirAll(t, filepath.Join(dir, "sub.png"))

	got, err := ListImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.jpg", "b.PNG", "c.webp", "d.gif", "e.jpeg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListImages = %v, want %v", got, want)
	}
}

func TestReadDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DescriptorFile), `
title: 霓虹小巷
title_en: Neon Alley
author: "@neo"
author_link: https://x.com/neo
source_links:
  - url: https://x.com/neo/status/1
  - note: no url here
  - url: https://x.com/neo/status/2
prompt_en: A neon-lit alley at night
reference_note: 123
`)
	d, err := ReadDescriptor(dir)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if d.TitleEN != "Neon Alley" || d.Title != "霓虹小巷" {
		t.Errorf("titles = %q / %q", d.TitleEN, d.Title)
	}
	if want := []string{"https://x.com/neo/status/1", "https://x.com/neo/status/2"}; !reflect.DeepEqual([]string(d.SourceLinks), want) {
		t.Errorf("source links = %v, want %v", d.SourceLinks, want)
	}
	if d.ReferenceNote != "123" {
		t.Errorf("numeric scalar should decode as text, got %q", d.ReferenceNote)
	}
	if First(d.PromptEN, d.Prompt) != "A neon-lit alley at night" {
		t.Errorf("prompt = %q", First(d.PromptEN, d.Prompt))
	}
}

func TestReadDescriptor_toleratesUnexpectedShapes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DescriptorFile), `
title: [not, a, string]
author: ~
source_links: "https://example.com"
`)
	d, err := ReadDescriptor(dir)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if d.Title != "" || d.Author != "" || len(d.SourceLinks) != 0 {
		t.Errorf("unexpected values: %+v", d)
	}
}

func TestReadDescriptor_missing(t *testing.T) {
	_, err := ReadDescriptor(t.TempDir())
	if !errors.Is(err, ErrNoDescriptor) {
		t.Fatalf("err = %v, want ErrNoDescriptor", err)
	}
}

func TestReadDescriptor_malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DescriptorFile), "title: \"unterminated\nprompt: [")
	_, err := ReadDescriptor(dir)
	if err == nil || errors.Is(err, ErrNoDescriptor) {
		t.Fatalf("err = %v, want parse error", err)
	}
}
