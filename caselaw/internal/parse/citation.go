// Package parse turns fetched judgment documents into case records:
// citation grammar, decision dates, coram panels, and body text.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
)

// Citation is a parsed neutral citation, e.g. "[2023] GHASC 45".
type Citation struct {
	Year   int
	Court  string
	Number int
}

var citationRe = regexp.MustCompile(`\[(\d{4})\]\s+([A-Z]{2,8})\s+(\d+)`)

// ParseCitation extracts the first neutral citation from text. The court
// code is matched generically; callers filter on the code they acquire.
func ParseCitation(text string) (Citation, error) {
	m := citationRe.FindStringSubmatch(text)
	if m == nil {
		return Citation{}, fmt.Errorf("parse: no neutral citation in text")
	}
	year, _ := strconv.Atoi(m[1])
	num, _ := strconv.Atoi(m[3])
	return Citation{Year: year, Court: m[2], Number: num}, nil
}

// String renders the canonical bracketed form.
func (c Citation) String() string {
	return fmt.Sprintf("[%d] %s %d", c.Year, c.Court, c.Number)
}

// CaseID derives the stable identifier, e.g. "GHASC/2023/45". The ID is the
// primary key of the corpus and never changes once assigned.
func (c Citation) CaseID() string {
	return fmt.Sprintf("%s/%d/%d", c.Court, c.Year, c.Number)
}
