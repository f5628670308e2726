package corpus

// DefaultPreviewLength is the number of characters shown by document previews.
const DefaultPreviewLength = 200

// Ellipsis marks a truncated preview.
const Ellipsis = "..."

// Preview returns the first n characters of text followed by an ellipsis.
// Texts of at most n characters are returned whole, without the ellipsis.
func Preview(text string, n int) string {
	if n < 0 {
		n = 0
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + Ellipsis
}
