package catalog

import (
	"strings"
	"unicode"
)

// PromptPrefix is prepended to prompts shown for copying.
const PromptPrefix = "AI image prompt："

var knownPrefixes = []string{strings.ToLower(PromptPrefix), "ai image prompt:"}

// EnsurePromptPrefix prepends PromptPrefix after any leading whitespace unless the value
// already starts with it (ASCII or full-width colon, any case).
func EnsurePromptPrefix(value string) string {
	if value == "" {
		return PromptPrefix
	}
	trimmed := strings.TrimLeftFunc(value, unicode.IsSpace)
	leading := value[:len(value)-len(trimmed)]
	lower := strings.ToLower(trimmed)
	for _, p := range knownPrefixes {
		if strings.HasPrefix(lower, p) {
			return value
		}
	}
	return leading + PromptPrefix + trimmed
}
