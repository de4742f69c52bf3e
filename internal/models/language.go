package models

import (
	"fmt"
	"strings"
)

// Language is a supported content language.
type Language string

const (
	LanguageEN Language = "en"
	LanguageZH Language = "zh"
)

// Languages returns the supported languages, English first. English is the tagging source of truth.
func Languages() []Language {
	return []Language{LanguageEN, LanguageZH}
}

// ParseLanguage parses s case-insensitively. Empty input yields English.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en":
		return LanguageEN, nil
	case "zh":
		return LanguageZH, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}
