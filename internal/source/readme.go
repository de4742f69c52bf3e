package source

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// HeadingRegex matches a case section heading such as "### Case 12: Title" or "### 例 12：标题".
// The title may be empty; such a heading still ends the previous section.
var HeadingRegex = regexp.MustCompile(`^###\s+(?:Case|Example|例)\s*(\d+)\s*[:：]\s*(.*?)\s*$`)

// Section is one case section of a README.
type Section struct {
	Number  int
	Heading string // heading text after "N:"
	Body    string // lines after the heading up to the next heading or end of document
	Line    int    // 1-based line of the heading in the scanned content
}

// ReadReadme reads a README as UTF-8 text. Invalid sequences are replaced.
func ReadReadme(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read readme: %w", err)
	}
	if !utf8.Valid(data) {
		data = []byte(strings.ToValidUTF8(string(data), "�"))
	}
	return string(data), nil
}

// SplitSections scans content line by line and returns its case sections in document order.
// When marker is non-empty and occurs in content, scanning starts at its first occurrence.
// Text before the first heading is discarded; text after the last heading belongs to it.
func SplitSections(content, marker string) ([]Section, error) {
	if marker != "" {
		if i := strings.Index(content, marker); i >= 0 {
			content = content[i:]
		}
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var (
		sections []Section
		current  *Section
		body     []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.Join(body, "\n")
		sections = append(sections, *current)
		current = nil
		body = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if m := HeadingRegex.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				flush()
				current = &Section{Number: n, Heading: m[2], Line: lineNo}
				continue
			}
		}
		if current != nil {
			body = append(body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan readme at line %d: %w", lineNo+1, err)
	}
	flush()
	return sections, nil
}
