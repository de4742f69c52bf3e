// Package extract recovers structured case fields from a section heading and its Markdown body.
package extract

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Fields are the values recovered from one case section. Missing values are empty, never errors.
type Fields struct {
	Heading
	InputRequirement string
	Prompt           string
	PromptNote       string
	ReferenceNote    string
	Notes            []string
	InputImages      []ImageRef
	OutputImages     []ImageRef
}

// Extractor turns raw case sections into Fields.
type Extractor struct {
	markdown goldmark.Markdown
}

// NewExtractor returns an Extractor whose Markdown renderer keeps embedded HTML
// (upstream READMEs carry raw <table> markup) and renders soft line breaks as <br>.
func NewExtractor() *Extractor {
	return &Extractor{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe(), gmhtml.WithHardWraps()),
		),
	}
}

// Render converts a Markdown body to HTML.
func (e *Extractor) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := e.markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Extract parses heading and body with the given language labels.
// It only fails when the body cannot be rendered or parsed as HTML at all.
func (e *Extractor) Extract(heading, body string, labels LabelSet) (*Fields, error) {
	rendered, err := e.Render(body)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(rendered)
	if err != nil {
		return nil, err
	}
	inputs, outputs := doc.ClassifyImages()
	return &Fields{
		Heading:          ParseHeading(heading),
		InputRequirement: TextAfterLabel(body, labels.Input),
		Prompt:           CodeBlockAfterLabel(body, labels.Prompt),
		PromptNote:       TextAfterLabel(body, labels.PromptNote),
		ReferenceNote:    TextAfterLabel(body, labels.Reference),
		Notes:            doc.Notes(),
		InputImages:      inputs,
		OutputImages:     outputs,
	}, nil
}
