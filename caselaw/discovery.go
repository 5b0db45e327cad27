package caselaw

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/ghalex/extract"
)

// listPagePath is the court's judgment listing endpoint, filtered per year
// with the ?year= query parameter.
const listPagePath = "/judgment/court/supreme_court"

// Discover walks the per-year listing pages and collects judgment URLs.
// Listing pages that fail to fetch are logged and skipped; discovery returns
// whatever it found so a partially reachable archive still yields a run.
func (s *Service) Discover(ctx context.Context) ([]Candidate, error) {
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("caselaw: base url: %w", err)
	}

	seen := map[string]bool{}
	var candidates []Candidate
	for year := s.cfg.YearStart; year <= s.cfg.YearEnd; year++ {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		listURL := fmt.Sprintf("%s%s?year=%d", s.cfg.BaseURL, listPagePath, year)
		if !s.robots.Allowed(listPagePath) {
			return nil, ErrPolicyDenied
		}

		res, err := s.fetcher.Fetch(ctx, listURL)
		if err != nil {
			s.logger.WarnContext(ctx, "listing page failed",
				"year", year, "url", listURL, "error", err)
			s.report.noteListFailure(listURL, err)
			continue
		}
		s.logScrapedURL(listURL)

		links, err := judgmentLinks(res.Body, base)
		if err != nil {
			s.logger.WarnContext(ctx, "listing page unparseable",
				"year", year, "url", listURL, "error", err)
			continue
		}
		for _, link := range links {
			if seen[link] {
				continue
			}
			seen[link] = true
			candidates = append(candidates, Candidate{URL: link, Year: year, State: StateDiscovered})
		}
		s.logger.InfoContext(ctx, "year discovered",
			"year", year, "links", len(links), "total", len(candidates))
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Year != candidates[j].Year {
			return candidates[i].Year < candidates[j].Year
		}
		return candidates[i].URL < candidates[j].URL
	})
	return candidates, nil
}

// judgmentLinks extracts judgment document URLs from a listing page,
// resolved against base. Only same-host judgment document paths qualify.
func judgmentLinks(body []byte, base *url.URL) ([]string, error) {
	doc, err := extract.Parse(body)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href := attr(n, "href"); href != "" {
				if resolved := resolveJudgmentLink(href, base); resolved != "" && !seen[resolved] {
					seen[resolved] = true
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func resolveJudgmentLink(href string, base *url.URL) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	if u.Host != base.Host {
		return ""
	}
	// Documents live under /judgment/ or the Akoma Ntoso /akn/gh/judgment/
	// tree; the /judgment/court/ subtree is listing pages, not documents.
	if !strings.HasPrefix(u.Path, "/judgment/") && !strings.HasPrefix(u.Path, "/akn/gh/judgment/") {
		return ""
	}
	if strings.HasPrefix(u.Path, "/judgment/court/") {
		return ""
	}
	u.Fragment = ""
	u.RawQuery = ""
	return u.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
