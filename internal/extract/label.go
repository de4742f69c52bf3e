package extract

import (
	"regexp"
	"strings"
)

var (
	blankLineRegex  = regexp.MustCompile(`\n\s*\n`)
	codeBlockRegex  = regexp.MustCompile("(?s)```.*?```")
	openFenceRegex  = regexp.MustCompile("^```[a-zA-Z0-9_-]*\n?")
	closeFenceRegex = regexp.MustCompile("```$")
)

// labelRegex matches a bolded label such as "**Input:**", "**Input**:" or "**提示词**：".
func labelRegex(labels []string) *regexp.Regexp {
	if len(labels) == 0 {
		return nil
	}
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return regexp.MustCompile(`(?i)\*\*\s*(?:` + strings.Join(quoted, "|") + `)[:：]?\s*\*\*[:：]?`)
}

// afterLabel returns the text following the first label match, and whether a label matched.
func afterLabel(body string, labels []string) (string, bool) {
	re := labelRegex(labels)
	if re == nil {
		return "", false
	}
	loc := re.FindStringIndex(body)
	if loc == nil {
		return "", false
	}
	return body[loc[1]:], true
}

// TextAfterLabel returns the trimmed text after the first matching label up to the next blank line.
func TextAfterLabel(body string, labels []string) string {
	after, ok := afterLabel(strings.ReplaceAll(body, "\r\n", "\n"), labels)
	if !ok {
		return ""
	}
	if loc := blankLineRegex.FindStringIndex(after); loc != nil {
		after = after[:loc[0]]
	}
	return strings.TrimSpace(after)
}

// CodeBlockAfterLabel returns the contents of the first fenced code block after the first
// matching label, with the fences and the opening language tag removed.
func CodeBlockAfterLabel(body string, labels []string) string {
	after, ok := afterLabel(strings.ReplaceAll(body, "\r\n", "\n"), labels)
	if !ok {
		return ""
	}
	block := codeBlockRegex.FindString(after)
	if block == "" {
		return ""
	}
	return stripFences(block)
}

func stripFences(block string) string {
	block = openFenceRegex.ReplaceAllString(block, "")
	block = closeFenceRegex.ReplaceAllString(block, "")
	return strings.TrimSpace(block)
}

// ResolvePrompt reads a prompt stored as free text. A fenced block under a prompt label wins,
// then a value that is itself one fenced block, then the trimmed text.
func ResolvePrompt(raw string, labels []string) string {
	if p := CodeBlockAfterLabel(raw, labels); p != "" {
		return p
	}
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if len(trimmed) >= 6 && strings.HasPrefix(trimmed, "```") && strings.HasSuffix(trimmed, "```") {
		return stripFences(trimmed)
	}
	return trimmed
}
