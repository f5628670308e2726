package ingestion

import (
	"regexp"
	"strings"
)

var (
	inlineSpaceRe  = regexp.MustCompile(`[ \t\f\v]+`)
	excessBlanksRe = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted text while preserving line structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// Normalize line endings (CRLF to LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	result := strings.Join(lines, "\n")

	// At most one blank line between paragraphs
	result = excessBlanksRe.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine collapses runs of horizontal whitespace and trims the line.
func cleanLine(line string) string {
	return strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
}
