package pipeline

import (
	"bufio"
	"regexp"
	"strings"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Preprocess normalizes line endings to \n. Everything else, blank lines
// inside code blocks included, reaches goldmark as written.
func Preprocess(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// FirstHeading returns the text of the first ATX level-1 heading in
// Markdown content, ignoring fenced code blocks. Returns "" when none.
func FirstHeading(content string) string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	inFence := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || len(line)-len(trimmed) > 3 {
			continue
		}
		if trimmed == "#" {
			continue
		}
		if title, ok := strings.CutPrefix(trimmed, "# "); ok {
			title = strings.TrimSpace(strings.TrimRight(title, "#"))
			return title
		}
	}
	return ""
}
