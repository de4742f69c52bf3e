package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Descriptor is the decoded case.yml. Every field is optional.
type Descriptor struct {
	Title           LooseString `yaml:"title"`
	TitleEN         LooseString `yaml:"title_en"`
	Author          LooseString `yaml:"author"`
	AuthorLink      LooseString `yaml:"author_link"`
	SourceLinks     SourceLinks `yaml:"source_links"`
	Prompt          LooseString `yaml:"prompt"`
	PromptEN        LooseString `yaml:"prompt_en"`
	PromptNote      LooseString `yaml:"prompt_note"`
	PromptNoteEN    LooseString `yaml:"prompt_note_en"`
	ReferenceNote   LooseString `yaml:"reference_note"`
	ReferenceNoteEN LooseString `yaml:"reference_note_en"`
}

// LooseString decodes any non-null scalar as its literal text and ignores
// sequences and mappings, so an unexpected shape never fails the whole file.
type LooseString string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *LooseString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag != "!!null" {
		*s = LooseString(node.Value)
	}
	return nil
}

// String returns the decoded text.
func (s LooseString) String() string {
	return string(s)
}

// SourceLinks is the source_links list. Entries without a url are dropped.
type SourceLinks []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *SourceLinks) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	var links []string
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		var entry struct {
			URL LooseString `yaml:"url"`
		}
		if err := item.Decode(&entry); err != nil {
			continue
		}
		if entry.URL != "" {
			links = append(links, entry.URL.String())
		}
	}
	*l = links
	return nil
}

// First returns the first non-empty value, or "".
func First(values ...LooseString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// ReadDescriptor loads dir/case.yml. A missing file yields ErrNoDescriptor;
// a file that is not valid YAML yields a wrapped parse error.
func ReadDescriptor(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, DescriptorFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoDescriptor
		}
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &d, nil
}
