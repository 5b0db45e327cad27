// Package extract provides generic HTML content extraction helpers used by
// the judgment parser: document parsing, a small CSS selector subset, visible
// text collection, and main-content location with landmark and text-density
// fallbacks.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse parses an HTML document.
func Parse(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

// Title returns the <title> text, or "" if absent.
func Title(doc *html.Node) string {
	if doc.Type == html.ElementNode && doc.DataAtom == atom.Title {
		if doc.FirstChild != nil {
			return strings.TrimSpace(doc.FirstChild.Data)
		}
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if t := Title(c); t != "" {
			return t
		}
	}
	return ""
}

// FirstHeading returns the text of the first h1 (falling back to h2), or "".
func FirstHeading(doc *html.Node) string {
	for _, tag := range []atom.Atom{atom.H1, atom.H2} {
		if nodes := allByTag(doc, tag); len(nodes) > 0 {
			if text := CollectText(nodes[0]); text != "" {
				return text
			}
		}
	}
	return ""
}

// QueryAll returns all nodes matching a simple CSS selector. Supported:
//
//	tag, .class, #id, tag.class, tag#id, tag[attr], tag[attr=val],
//	and descendant combinations separated by spaces.
func QueryAll(doc *html.Node, selector string) []*html.Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}

	matches := matchSimple(doc, parts[0])
	for i := 1; i < len(parts); i++ {
		var next []*html.Node
		for _, parent := range matches {
			next = append(next, matchSimple(parent, parts[i])...)
		}
		matches = next
	}
	return matches
}

// MainContent locates the judgment body. It tries the supplied selectors in
// order, then semantic landmarks (<main>, <article>), then the densest text
// block in <body>. Returns nil when the document holds no usable content.
func MainContent(doc *html.Node, selectors []string, minLen int) *html.Node {
	for _, sel := range selectors {
		for _, n := range QueryAll(doc, sel) {
			if len(CollectText(n)) >= minLen {
				return n
			}
		}
	}

	for _, tag := range []atom.Atom{atom.Main, atom.Article} {
		for _, n := range allByTag(doc, tag) {
			if isBoilerplate(n) {
				continue
			}
			if len(CollectText(n)) >= minLen {
				return n
			}
		}
	}

	return densestBlock(doc, minLen)
}

// CollectText extracts visible text from a subtree, skipping script/style,
// hidden nodes, and page boilerplate (nav, header, footer).
func CollectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Nav, atom.Footer, atom.Header:
				return
			}
			if hasHiddenStyle(n) {
				return
			}
			// Block elements become paragraph breaks in the collected text.
			switch n.DataAtom {
			case atom.P, atom.Div, atom.Br, atom.Tr, atom.Li:
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Render renders a node subtree back to HTML. Returns "" on failure.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// densestBlock returns the <div> or <td> subtree with the most visible text,
// ignoring boilerplate containers. Judgment pages on older LII layouts carry
// the full text in one unmarked table cell.
func densestBlock(doc *html.Node, minLen int) *html.Node {
	var best *html.Node
	bestLen := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Nav, atom.Footer, atom.Header:
				return
			}
			if isBoilerplate(n) || hasHiddenStyle(n) {
				return
			}
			if n.DataAtom == atom.Div || n.DataAtom == atom.Td {
				// Only consider leaf-ish containers: no div/td children of their own
				// with comparable text, so the match stays tight around the content.
				if l := len(CollectText(n)); l >= minLen && l > bestLen && !hasDenseChild(n, l) {
					best = n
					bestLen = l
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return best
}

// hasDenseChild reports whether a div/td child holds most of parentLen's text.
func hasDenseChild(n *html.Node, parentLen int) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Div || c.DataAtom == atom.Td) {
			if len(CollectText(c))*10 >= parentLen*9 {
				return true
			}
		}
	}
	return false
}

var boilerplateClassRe = regexp.MustCompile(`(?i)\b(nav|menu|sidebar|footer|header|banner|breadcrumbs?|share|social|cookie|advert)\b`)

// isBoilerplate reports whether a node looks like page chrome rather than content.
func isBoilerplate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "class" || a.Key == "id" || a.Key == "role" {
			if boilerplateClassRe.MatchString(a.Val) {
				return true
			}
		}
	}
	return false
}

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
}

func hasHiddenStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "style" {
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

func allByTag(root *html.Node, tag atom.Atom) []*html.Node {
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == tag {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

// matchSimple finds all nodes under root matching one selector part.
func matchSimple(root *html.Node, sel string) []*html.Node {
	m := parseSimpleSelector(sel)
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if matchesSelector(n, m) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

type simpleSelector struct {
	tag     string
	id      string
	class   string
	attrKey string
	attrVal string
}

func parseSimpleSelector(sel string) simpleSelector {
	var s simpleSelector

	if idx := strings.IndexByte(sel, '['); idx >= 0 {
		attrPart := strings.TrimRight(sel[idx+1:], "]")
		sel = sel[:idx]
		if eqIdx := strings.IndexByte(attrPart, '='); eqIdx >= 0 {
			s.attrKey = attrPart[:eqIdx]
			s.attrVal = strings.Trim(attrPart[eqIdx+1:], `"'`)
		} else {
			s.attrKey = attrPart
		}
	}

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}

	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}

	s.tag = sel
	return s
}

func matchesSelector(n *html.Node, s simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && n.Data != s.tag {
		return false
	}
	if s.id != "" && attrValue(n, "id") != s.id {
		return false
	}
	if s.class != "" {
		found := false
		for _, c := range strings.Fields(attrValue(n, "class")) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.attrKey != "" {
		val, ok := lookupAttr(n, s.attrKey)
		if !ok {
			return false
		}
		if s.attrVal != "" && val != s.attrVal {
			return false
		}
	}
	return true
}

func attrValue(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
