package extract

import (
	"html"
	"strings"
	"unicode"
)

// CleanText decodes HTML entities and normalizes whitespace while keeping
// paragraph breaks: runs of spaces and tabs collapse to one space, runs of
// blank lines collapse to one newline.
func CleanText(text string) string {
	text = html.UnescapeString(text)

	var sb strings.Builder
	spacePending := false
	newlinePending := false
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			newlinePending = sb.Len() > 0
			spacePending = false
		case unicode.IsSpace(r):
			if !newlinePending {
				spacePending = sb.Len() > 0
			}
		default:
			if newlinePending {
				sb.WriteByte('\n')
				newlinePending = false
				spacePending = false
			} else if spacePending {
				sb.WriteByte(' ')
				spacePending = false
			}
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// CollapseSpace reduces all whitespace, including newlines, to single spaces.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the first n runes of text, collapsed to single-space
// whitespace. Used for the derived case summary.
func Excerpt(text string, n int) string {
	text = CollapseSpace(text)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
