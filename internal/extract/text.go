package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeText folds multi-line text into one line with single spaces.
func NormalizeText(value string) string {
	if value == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(value, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(strings.Join(lines, " "), " "))
}

// BuildAlt synthesizes alt text from the English title, the image role and its 0-based index.
func BuildAlt(titleEN string, role Role, index int) string {
	suffix := "output image"
	if role == RoleInput {
		suffix = "input reference"
	}
	indexSuffix := ""
	if index > 0 {
		indexSuffix = fmt.Sprintf(" %d", index+1)
	}
	return strings.TrimSpace(fmt.Sprintf("AI image prompt – %s%s %s", titleEN, indexSuffix, suffix))
}
