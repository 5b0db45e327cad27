package parse

import (
	"errors"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/hazyhaar/ghalex/caselaw/internal/store"
	"github.com/hazyhaar/ghalex/extract"
	"github.com/hazyhaar/ghalex/taxonomy"
)

// ErrNotJudgment marks a fetched page that is not a judgment document (an
// index page, a notice, a page with no citation). It is not a parse failure.
var ErrNotJudgment = errors.New("parse: document is not a judgment")

// Parser extracts case records from fetched judgment pages.
type Parser struct {
	court      string
	courtCode  string
	selectors  []string
	minBodyLen int
	sanitizer  *bluemonday.Policy
	md         *converter.Converter
}

// Option configures a Parser.
type Option func(*Parser)

// WithSelectors overrides the CSS selectors tried for the judgment body.
func WithSelectors(selectors ...string) Option {
	return func(p *Parser) { p.selectors = selectors }
}

// NewParser builds a parser for one court. courtCode is the citation code
// ("GHASC"); court is the display name stored on every record.
func NewParser(courtCode, court string, opts ...Option) *Parser {
	p := &Parser{
		court:     court,
		courtCode: courtCode,
		selectors: []string{
			".judgment-body", ".document-content", "#judgment", ".akn-judgment",
		},
		minBodyLen: 200,
		sanitizer:  bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	titleSuffixRe   = regexp.MustCompile(`\s*[|\-–]\s*(GhanaLII|Ghana Legal Information Institute).*$`)
	titleCitationRe = regexp.MustCompile(`\s*\(?\[\d{4}\][^)]*\)?\s*$`)
)

// Dispositions are matched in order; more specific phrasing first.
var dispositionPatterns = []struct {
	re    *regexp.Regexp
	value string
}{
	{regexp.MustCompile(`(?i)appeal\s+(?:is\s+(?:hereby\s+)?)?allowed\s+in\s+part`), "Appeal allowed in part"},
	{regexp.MustCompile(`(?i)appeal\s+is\s+(?:hereby\s+)?dismissed`), "Appeal dismissed"},
	{regexp.MustCompile(`(?i)appeal\s+(?:is\s+(?:hereby\s+)?)?allowed`), "Appeal allowed"},
	{regexp.MustCompile(`(?i)appeal\s+dismissed`), "Appeal dismissed"},
	{regexp.MustCompile(`(?i)application\s+is\s+(?:hereby\s+)?granted`), "Application granted"},
	{regexp.MustCompile(`(?i)application\s+is\s+(?:hereby\s+)?(?:refused|dismissed)`), "Application refused"},
	{regexp.MustCompile(`(?i)action\s+is\s+(?:hereby\s+)?dismissed`), "Action dismissed"},
	{regexp.MustCompile(`(?i)judgment\s+(?:is\s+)?(?:hereby\s+)?set\s+aside`), "Judgment set aside"},
	{regexp.MustCompile(`(?i)conviction\s+(?:is\s+)?(?:hereby\s+)?quashed`), "Conviction quashed"},
}

// Parse extracts a full case record from an HTML judgment page. A page
// without a neutral citation for the parser's court returns ErrNotJudgment.
func (p *Parser) Parse(body []byte, sourceURL string) (*store.CaseRecord, error) {
	doc, err := extract.Parse(body)
	if err != nil {
		return nil, err
	}

	fullText := p.bodyText(doc, sourceURL)
	caseName := p.caseName(doc, fullText)

	cite, err := ParseCitation(fullText)
	if err != nil || cite.Court != p.courtCode {
		// Headers sometimes carry the citation only in the page title.
		cite, err = ParseCitation(extract.Title(doc))
		if err != nil || cite.Court != p.courtCode {
			return nil, ErrNotJudgment
		}
	}

	rec := &store.CaseRecord{
		CaseID:          cite.CaseID(),
		CaseName:        caseName,
		NeutralCitation: cite.String(),
		DateDecided:     ParseDate(fullText),
		Court:           p.court,
		Disposition:     parseDisposition(fullText),
		FullText:        fullText,
		Summary:         extract.Excerpt(fullText, 200),
		Judges:          ParseJudges(fullText),
		SourceURL:       sourceURL,

		LegalIssues:        taxonomy.MatchIssues(fullText),
		ReferencedStatutes: taxonomy.MatchStatutes(fullText),
		CitedCases:         taxonomy.MatchCitations(fullText, cite.String()),
	}
	return rec, nil
}

// ParsePDF extracts a record from a PDF-only judgment.
func (p *Parser) ParsePDF(data []byte, sourceURL string) (*store.CaseRecord, error) {
	text, err := ExtractPDFText(data)
	if err != nil {
		return nil, err
	}
	text = extract.CleanText(text)

	cite, err := ParseCitation(text)
	if err != nil || cite.Court != p.courtCode {
		return nil, ErrNotJudgment
	}

	// The case name on a PDF is the first non-trivial line before the
	// citation.
	caseName := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 10 && !citationRe.MatchString(line) {
			caseName = line
			break
		}
	}

	return &store.CaseRecord{
		CaseID:          cite.CaseID(),
		CaseName:        caseName,
		NeutralCitation: cite.String(),
		DateDecided:     ParseDate(text),
		Court:           p.court,
		Disposition:     parseDisposition(text),
		FullText:        text,
		Summary:         extract.Excerpt(text, 200),
		Judges:          ParseJudges(text),
		SourceURL:       sourceURL,

		LegalIssues:        taxonomy.MatchIssues(text),
		ReferencedStatutes: taxonomy.MatchStatutes(text),
		CitedCases:         taxonomy.MatchCitations(text, cite.String()),
	}, nil
}

// bodyText locates the judgment body and renders it to clean plain text.
// The sanitized body goes through the markdown converter first, which keeps
// paragraph structure; if conversion fails the raw text walk is the
// fallback.
func (p *Parser) bodyText(doc *html.Node, sourceURL string) string {
	node := extract.MainContent(doc, p.selectors, p.minBodyLen)
	if node == nil {
		return ""
	}
	rendered := p.sanitizer.Sanitize(extract.Render(node))
	md, err := p.md.ConvertString(rendered, converter.WithDomain(sourceURL))
	if err == nil && len(md) >= p.minBodyLen {
		return extract.CleanText(stripMarkdown(md))
	}
	return extract.CleanText(extract.CollectText(node))
}

func (p *Parser) caseName(doc *html.Node, fullText string) string {
	name := extract.Title(doc)
	if name == "" {
		name = extract.FirstHeading(doc)
	}
	name = titleSuffixRe.ReplaceAllString(name, "")
	name = titleCitationRe.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	// Last resort: first line of the body.
	for _, line := range strings.Split(fullText, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return extract.Excerpt(line, 120)
		}
	}
	return ""
}

func parseDisposition(text string) string {
	for _, p := range dispositionPatterns {
		if p.re.MatchString(text) {
			return p.value
		}
	}
	return ""
}

var (
	markdownMarkRe   = regexp.MustCompile(`(?m)^#{1,6}\s+|[*_]{1,3}([^*_\n]+)[*_]{1,3}|^\s*[-*+]\s+|\[([^\]]*)\]\([^)]*\)`)
	markdownEscapeRe = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+.!>~|-])")
)

// stripMarkdown removes markdown syntax so field extraction sees prose. The
// converter escapes punctuation that citations depend on ("\[2023\]"), so
// escapes are unwound too.
func stripMarkdown(md string) string {
	md = markdownMarkRe.ReplaceAllStringFunc(md, func(m string) string {
		sub := markdownMarkRe.FindStringSubmatch(m)
		if sub[1] != "" {
			return sub[1]
		}
		if sub[2] != "" {
			return sub[2]
		}
		return ""
	})
	return markdownEscapeRe.ReplaceAllString(md, "$1")
}
