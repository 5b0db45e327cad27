// Package taxonomy holds the controlled vocabulary for Ghanaian case law:
// legal-issue keyword patterns, statute references, and cross-citation
// grammars. The tables are data; extraction walks them, it never special-cases
// individual entries.
package taxonomy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Issue is a controlled-vocabulary tag for an area of law.
type Issue struct {
	ID      string
	Name    string
	Pattern *regexp.Regexp
}

// Issues is the fixed legal-issue vocabulary. Matching is case-insensitive
// over the judgment body.
var Issues = []Issue{
	{ID: "constitutional", Name: "Constitutional Law", Pattern: regexp.MustCompile(`(?i)\bconstitution(al)?\b|\bfundamental (human )?rights?\b`)},
	{ID: "contract", Name: "Contract Law", Pattern: regexp.MustCompile(`(?i)\bcontract(ual)?\b|\bbreach of (an )?agreement\b|\boffer and acceptance\b`)},
	{ID: "property", Name: "Property Law", Pattern: regexp.MustCompile(`(?i)\bproperty\b|\bland\b|\btitle to land\b|\breal estate\b`)},
	{ID: "succession", Name: "Succession Law", Pattern: regexp.MustCompile(`(?i)\bsuccession\b|\binheritance\b|\bintestate\b|\bwill\b|\bestate of\b`)},
	{ID: "labour", Name: "Labour Law", Pattern: regexp.MustCompile(`(?i)\blabou?r\b|\bemployment\b|\bunfair (dismissal|termination)\b`)},
	{ID: "family", Name: "Family Law", Pattern: regexp.MustCompile(`(?i)\bmarriage\b|\bdivorce\b|\bcustody\b|\bmatrimonial\b`)},
	{ID: "criminal", Name: "Criminal Law", Pattern: regexp.MustCompile(`(?i)\bcriminal\b|\boffen[cs]e\b|\bconviction\b|\bprosecut(ion|or)\b`)},
	{ID: "administrative", Name: "Administrative Law", Pattern: regexp.MustCompile(`(?i)\badministrative\b|\bjudicial review\b|\bcertiorari\b|\bmandamus\b`)},
	{ID: "commercial", Name: "Commercial Law", Pattern: regexp.MustCompile(`(?i)\bcommercial\b|\bcompany\b|\bshareholders?\b|\btrade\b`)},
	{ID: "tort", Name: "Tort Law", Pattern: regexp.MustCompile(`(?i)\btort\b|\bnegligence\b|\bdamages\b|\bliab(le|ility)\b`)},
	{ID: "evidence", Name: "Evidence", Pattern: regexp.MustCompile(`(?i)\bevidence act\b|\bburden of proof\b|\badmissib(le|ility)\b`)},
	{ID: "banking", Name: "Banking Law", Pattern: regexp.MustCompile(`(?i)\bbank(ing)?\b|\bloan\b|\bmortgage\b|\bguarantee\b`)},
	{ID: "tax", Name: "Tax Law", Pattern: regexp.MustCompile(`(?i)\btax(ation)?\b|\bcustoms\b|\bexcise\b`)},
	{ID: "mining", Name: "Mining Law", Pattern: regexp.MustCompile(`(?i)\bminerals?\b|\bmining\b|\bconcession\b`)},
	{ID: "procedure", Name: "Civil Procedure", Pattern: regexp.MustCompile(`(?i)\bcivil procedure\b|\bstatement of claim\b|\binterlocutory\b|\bstay of (execution|proceedings)\b`)},
}

// KnownStatutes are frequently cited Ghanaian enactments, matched verbatim
// (case-insensitive) in addition to the Act-number grammar below.
var KnownStatutes = []string{
	"1992 Constitution",
	"Evidence Act 1961",
	"Criminal Code",
	"Criminal Procedure Code",
	"Civil Procedure Code",
	"Administration of Estates Act",
	"Property Rights Act",
	"Labour Act",
	"Minerals and Mining Act",
	"Contracts Act",
	"Sale of Goods Act",
	"Companies Act",
	"Courts Act",
	"Intestate Succession Law",
	"Wills Act",
}

// actNumberRe matches bare Act references: "Act 29", "Act 992".
var actNumberRe = regexp.MustCompile(`(?i)\bAct\s+(\d{1,4})\b`)

// MatchIssues returns the sorted set of issue IDs whose pattern appears in text.
func MatchIssues(text string) []string {
	set := make(map[string]struct{})
	for _, issue := range Issues {
		if issue.Pattern.MatchString(text) {
			set[issue.ID] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// MatchStatutes returns the sorted set of statute references found in text:
// Act-number citations plus any KnownStatutes mentioned by name.
func MatchStatutes(text string) []string {
	set := make(map[string]struct{})
	for _, m := range actNumberRe.FindAllStringSubmatch(text, -1) {
		// "Evidence Act 1961" carries a year, not an act number, after "Act".
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1900 && n <= 2099 {
			continue
		}
		set["Act "+m[1]] = struct{}{}
	}
	lower := strings.ToLower(text)
	for _, statute := range KnownStatutes {
		if strings.Contains(lower, strings.ToLower(statute)) {
			set[statute] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// neutralCiteRe matches neutral citations of any LII court: [2019] GHACA 3.
var neutralCiteRe = regexp.MustCompile(`\[(\d{4})\]\s+([A-Z]{2,8})\s+(\d+)`)

// reportedCiteRe matches reported-series citations: (2010) SCGLR 705,
// [1992-93] GBR 1024.
var reportedCiteRe = regexp.MustCompile(`[(\[]\d{4}(?:-\d{2,4})?[)\]]\s+(?:\d+\s+)?[A-Z]{2,8}\s+\d+`)

// MatchCitations returns the sorted set of case citations found in text,
// excluding self, which is the document's own neutral citation.
func MatchCitations(text, self string) []string {
	set := make(map[string]struct{})
	for _, m := range neutralCiteRe.FindAllStringSubmatch(text, -1) {
		cite := "[" + m[1] + "] " + m[2] + " " + m[3]
		if cite != self {
			set[cite] = struct{}{}
		}
	}
	for _, cite := range reportedCiteRe.FindAllString(text, -1) {
		cite = strings.Join(strings.Fields(cite), " ")
		if normalizeBrackets(cite) != self {
			set[cite] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// normalizeBrackets maps "(2019) GHASC 41" onto "[2019] GHASC 41" so the
// self-citation exclusion works across both bracket styles.
func normalizeBrackets(cite string) string {
	cite = strings.ReplaceAll(cite, "(", "[")
	return strings.ReplaceAll(cite, ")", "]")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
