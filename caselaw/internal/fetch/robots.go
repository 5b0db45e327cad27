package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// Robots holds a parsed robots.txt for one host. A missing or unreadable
// robots file permits everything, matching crawler convention.
type Robots struct {
	group *robotstxt.Group
}

// ProbeRobots fetches and parses robots.txt for the host of baseURL. The
// probe itself is a plain GET outside the rate gate; it runs once per
// campaign.
func ProbeRobots(ctx context.Context, client *http.Client, baseURL, userAgent string) (*Robots, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: robots base url: %w", err)
	}
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: robots request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		// Unreachable robots.txt does not block the campaign.
		return &Robots{}, nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &Robots{}, nil
	}
	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, data)
	if err != nil {
		return &Robots{}, nil
	}
	return &Robots{group: robots.FindGroup(userAgent)}, nil
}

// Allowed reports whether the campaign may fetch path.
func (r *Robots) Allowed(path string) bool {
	if r == nil || r.group == nil {
		return true
	}
	return r.group.Test(path)
}
