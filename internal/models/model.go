package models

import (
	"fmt"
	"strconv"
)

// Model identifies a generation model family.
type Model string

const (
	ModelGPT4o      Model = "gpt-4o"
	ModelNanoBanana Model = "nano-banana"
)

type modelInfo struct {
	label    string
	idPrefix string
}

var modelRegistry = map[Model]modelInfo{
	ModelGPT4o:      {label: "GPT-4o", idPrefix: "gpt4o"},
	ModelNanoBanana: {label: "Nano Banana", idPrefix: "nano"},
}

// Models returns the registered model families in dataset order.
func Models() []Model {
	return []Model{ModelGPT4o, ModelNanoBanana}
}

// ModelLabel returns the display name for m, or m itself when unknown.
func ModelLabel(m Model) string {
	if info, ok := modelRegistry[m]; ok {
		return info.label
	}
	return string(m)
}

// CaseID returns the language-independent record id, e.g. "gpt4o-7".
// key is the case identifier as it appears upstream (folder name or case number).
func CaseID(m Model, key string) string {
	prefix := string(m)
	if info, ok := modelRegistry[m]; ok {
		prefix = info.idPrefix
	}
	return fmt.Sprintf("%s-%s", prefix, key)
}

// CaseSlug returns the URL slug, e.g. "gpt-4o-case-7". Canonical URLs depend on it.
func CaseSlug(m Model, key string) string {
	return fmt.Sprintf("%s-case-%s", m, key)
}

// CaseKey formats a numeric case number as a case key.
func CaseKey(n int) string {
	return strconv.Itoa(n)
}
