package parse

import (
	"regexp"
	"strings"
)

var (
	coramRe = regexp.MustCompile(`(?i)coram\s*:?\s*(.+)`)
	// Honorific suffixes as printed in Ghanaian judgments.
	honorificRe = regexp.MustCompile(`(?i)\b(JSC|JA|C\.?J\.?|J)\.?\s*$`)
	parenRe     = regexp.MustCompile(`\([^)]*\)`)
	judgeSepRe  = regexp.MustCompile(`\s*(?:,|;|\band\b|&)\s*`)
)

// ParseJudges extracts the coram panel from text. Names come back in panel
// order, normalized to title-case name plus upper-case honorific, e.g.
// "DOTSE JSC (PRESIDING)" becomes "Dotse JSC".
func ParseJudges(text string) []string {
	m := coramRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	// The match runs to the end of the coram line.
	line := m[1]

	var judges []string
	seen := map[string]bool{}
	for _, part := range judgeSepRe.Split(line, -1) {
		if name := NormalizeJudge(part); name != "" && !seen[name] {
			seen[name] = true
			judges = append(judges, name)
		}
	}
	return judges
}

// NormalizeJudge canonicalizes one panel member: parenthesised annotations
// such as "(PRESIDING)" are dropped, the surname is title-cased and the
// honorific upper-cased. Fragments without an honorific are rejected, which
// filters list headers and trailing prose off the coram line.
func NormalizeJudge(raw string) string {
	s := strings.TrimSpace(parenRe.ReplaceAllString(raw, " "))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	m := honorificRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	honorific := strings.ToUpper(strings.TrimSuffix(m[1], "."))
	if honorific == "CJ" || honorific == "C.J" {
		honorific = "C.J"
	}
	name := strings.TrimSpace(s[:len(s)-len(m[0])])
	if name == "" {
		return ""
	}
	return titleCase(name) + " " + honorific
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		// Particles in compound surnames stay lower-case only when they are
		// not the leading word.
		if i > 0 && (w == "de" || w == "van" || w == "von") {
			continue
		}
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

func upperFirst(w string) string {
	if w == "" {
		return w
	}
	// Hyphenated surnames capitalize each segment.
	if i := strings.IndexByte(w, '-'); i > 0 && i < len(w)-1 {
		return upperFirst(w[:i]) + "-" + upperFirst(w[i+1:])
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
