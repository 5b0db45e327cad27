package parse

import (
	"fmt"
	"regexp"
	"time"
)

// Judgment headers carry dates in a handful of house styles. Layouts are
// tried in order; the first date-shaped substring in document order wins.
var dateLayouts = []string{
	"2 January, 2006",
	"2 January 2006",
	"January 2, 2006",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

var (
	dateCandidateRe = regexp.MustCompile(
		`(\d{1,2}(?:st|nd|rd|th)?\s+[A-Z][a-z]+,?\s+\d{4})|` +
			`([A-Z][a-z]+\s+\d{1,2},?\s+\d{4})|` +
			`(\d{4}-\d{2}-\d{2})|` +
			`(\d{2}/\d{2}/\d{4})|` +
			`(\d{4}/\d{2}/\d{2})|` +
			`(\d{2}-\d{2}-\d{4})`)
	ordinalRe  = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)`)
	bareYearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// ParseDate finds the decision date in text and returns it as YYYY-MM-DD.
// When only a year can be recovered the mid-year fallback YYYY-06-30 is
// used so range queries still place the case in the right year. Returns ""
// when nothing date-like is present.
func ParseDate(text string) string {
	for _, raw := range dateCandidateRe.FindAllString(text, -1) {
		cleaned := ordinalRe.ReplaceAllString(raw, "$1")
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	if year := bareYearRe.FindString(text); year != "" {
		return fmt.Sprintf("%s-06-30", year)
	}
	return ""
}
