package parse

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCitation(t *testing.T) {
	tests := []struct {
		in   string
		want Citation
		ok   bool
	}{
		{"[2023] GHASC 45", Citation{2023, "GHASC", 45}, true},
		{"decided in [2010] GHASC 3 by the court", Citation{2010, "GHASC", 3}, true},
		{"[2019] GHACA 12", Citation{2019, "GHACA", 12}, true},
		{"no citation here", Citation{}, false},
		{"[20] GHASC 1", Citation{}, false},
	}
	for _, tt := range tests {
		got, err := ParseCitation(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseCitation(%q) = %+v, %v", tt.in, got, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseCitation(%q) succeeded with %+v", tt.in, got)
		}
	}
}

// WHAT: citation string and case ID round-trip.
func TestCitationDerivation(t *testing.T) {
	c := Citation{Year: 2023, Court: "GHASC", Number: 45}
	if c.String() != "[2023] GHASC 45" {
		t.Errorf("String() = %q", c.String())
	}
	if c.CaseID() != "GHASC/2023/45" {
		t.Errorf("CaseID() = %q", c.CaseID())
	}
	back, err := ParseCitation(c.String())
	if err != nil || back != c {
		t.Errorf("round-trip = %+v, %v", back, err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"delivered on 15th July, 2023 in Accra", "2023-07-15"},
		{"dated 3rd March 2021", "2021-03-03"},
		{"July 15, 2023", "2023-07-15"},
		{"judgment of 2019-11-02", "2019-11-02"},
		{"on 02/01/2006 the court", "2006-01-02"},
		{"filed 2021/03/09", "2021-03-09"},
		{"ruling of 08-11-2017", "2017-11-08"},
		// Year-only fallback lands mid-year.
		{"sometime in 2015 the matter arose", "2015-06-30"},
		{"no dates at all", ""},
		// First date-shaped substring in document order wins.
		{"on 1st May, 2020 affirming 2nd June, 2018", "2020-05-01"},
		// Date-shaped noise (out-of-range day/month fields) is skipped, not
		// just the first few candidates.
		{strings.Repeat("99/99/2023 ", 12) + "delivered 15th July, 2023", "2023-07-15"},
	}
	for _, tt := range tests {
		if got := ParseDate(tt.in); got != tt.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseJudges(t *testing.T) {
	text := "CORAM: DOTSE JSC (PRESIDING), PWAMANG JSC, AMEGATCHER JSC, " +
		"OWUSU (MS.) JSC and ANIN YEBOAH C.J\n\nThe appellant appealed."
	want := []string{"Dotse JSC", "Pwamang JSC", "Amegatcher JSC", "Owusu JSC", "Anin Yeboah C.J"}
	got := ParseJudges(text)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseJudges = %v, want %v", got, want)
	}
}

func TestParseJudgesAbsent(t *testing.T) {
	if got := ParseJudges("A judgment with no panel line."); got != nil {
		t.Errorf("ParseJudges = %v, want nil", got)
	}
}

func TestNormalizeJudge(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"DOTSE JSC (PRESIDING)", "Dotse JSC"},
		{"anin yeboah C.J.", "Anin Yeboah C.J"},
		{"KULENDI JSC", "Kulendi JSC"},
		{"ASARE-BOTWE JA", "Asare-Botwe JA"},
		{"the parties", ""}, // no honorific
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeJudge(tt.in); got != tt.want {
			t.Errorf("NormalizeJudge(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

const judgmentPage = `<!DOCTYPE html>
<html><head><title>Republic v. Mensah ([2023] GHASC 45) - GhanaLII</title></head>
<body>
<nav><a href="/">Home</a> <a href="/judgments">Judgments</a></nav>
<div class="judgment-body">
<h1>REPUBLIC v. MENSAH</h1>
<p>IN THE SUPERIOR COURT OF JUDICATURE, IN THE SUPREME COURT, ACCRA</p>
<p>CORAM: DOTSE JSC (PRESIDING), PWAMANG JSC, AMEGATCHER JSC</p>
<p>[2023] GHASC 45</p>
<p>Judgment delivered on 15th July, 2023.</p>
<p>The appellant was convicted under the Criminal Offences Act, Act 29, and
appealed against both conviction and sentence. Counsel relied on the 1992
Constitution and cited Tuffuor v. Attorney-General as well as [2019] GHASC 41
in support. The court reviewed the evidence led at trial, the breach of
contract alleged in the civil limb, and the principles governing appellate
interference with findings of fact. Having considered the record and the
submissions of both parties at length, and having found no merit whatsoever
in any of the grounds canvassed, the appeal is hereby dismissed.</p>
</div>
<footer>Copyright GhanaLII</footer>
</body></html>`

// WHAT: end-to-end extraction from a realistic judgment page.
func TestParserParse(t *testing.T) {
	p := NewParser("GHASC", "Supreme Court of Ghana")
	rec, err := p.Parse([]byte(judgmentPage), "https://ghalii.org/gh/judgment/ghasc/2023/45")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.CaseID != "GHASC/2023/45" {
		t.Errorf("CaseID = %q", rec.CaseID)
	}
	if rec.NeutralCitation != "[2023] GHASC 45" {
		t.Errorf("NeutralCitation = %q", rec.NeutralCitation)
	}
	if rec.CaseName != "Republic v. Mensah" {
		t.Errorf("CaseName = %q", rec.CaseName)
	}
	if rec.DateDecided != "2023-07-15" {
		t.Errorf("DateDecided = %q", rec.DateDecided)
	}
	if len(rec.Judges) != 3 || rec.Judges[0] != "Dotse JSC" {
		t.Errorf("Judges = %v", rec.Judges)
	}
	if rec.Disposition != "Appeal dismissed" {
		t.Errorf("Disposition = %q", rec.Disposition)
	}
	if !strings.Contains(rec.FullText, "appeal is hereby dismissed") {
		t.Errorf("FullText missing body: %q", rec.FullText)
	}
	if strings.Contains(rec.FullText, "Copyright GhanaLII") {
		t.Error("FullText contains footer boilerplate")
	}
	if rec.Summary == "" || len(rec.Summary) > 203 {
		t.Errorf("Summary length = %d", len(rec.Summary))
	}
	hasStatute := func(want string) bool {
		for _, s := range rec.ReferencedStatutes {
			if s == want {
				return true
			}
		}
		return false
	}
	if !hasStatute("Act 29") || !hasStatute("1992 Constitution") {
		t.Errorf("ReferencedStatutes = %v", rec.ReferencedStatutes)
	}
	for _, c := range rec.CitedCases {
		if c == "[2023] GHASC 45" {
			t.Error("self-citation not excluded")
		}
	}
}

// WHAT: non-judgment pages are classified, not errored.
func TestParserNotJudgment(t *testing.T) {
	p := NewParser("GHASC", "Supreme Court of Ghana")
	page := `<html><head><title>Judgments by year - GhanaLII</title></head>
<body><div class="judgment-body"><p>Browse the archive of decisions by selecting
a year from the list below. Each year groups the decisions delivered during
that calendar year, ordered by decision number for easy reference.</p></div></body></html>`
	if _, err := p.Parse([]byte(page), "https://ghalii.org/judgments"); err != ErrNotJudgment {
		t.Errorf("err = %v, want ErrNotJudgment", err)
	}
}

// WHAT: a citation for another court is not this court's judgment.
func TestParserWrongCourt(t *testing.T) {
	p := NewParser("GHASC", "Supreme Court of Ghana")
	page := strings.ReplaceAll(judgmentPage, "GHASC", "GHACA")
	if _, err := p.Parse([]byte(page), "https://ghalii.org/x"); err != ErrNotJudgment {
		t.Errorf("err = %v, want ErrNotJudgment", err)
	}
}

func TestParseDisposition(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"In the result, the appeal is hereby dismissed.", "Appeal dismissed"},
		{"Accordingly the appeal is allowed in part.", "Appeal allowed in part"},
		{"The application is granted.", "Application granted"},
		{"The court took the matter under advisement.", ""},
	}
	for _, tt := range tests {
		if got := parseDisposition(tt.in); got != tt.want {
			t.Errorf("parseDisposition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
