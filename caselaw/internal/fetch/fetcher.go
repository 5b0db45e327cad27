// Package fetch implements polite HTTP retrieval for acquisition campaigns:
// a shared rate gate, bounded retries with exponential backoff, and a
// robots.txt probe.
package fetch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrPermanent marks a fetch outcome that retrying cannot change: the
// document is gone or the request is malformed. Callers record it and move
// on to the next candidate.
var ErrPermanent = errors.New("fetch: permanent failure")

// Result contains the outcome of a successful fetch.
type Result struct {
	Body        []byte
	StatusCode  int
	Hash        string // SHA-256 of body
	ContentType string
	Duration    time.Duration
	Attempts    int
}

// Config configures the fetcher.
type Config struct {
	Timeout    time.Duration // HTTP timeout. Default: 30s.
	MaxBytes   int64         // Max response body size. Default: 10MB.
	MaxRetries int           // Retries after the first attempt. Default: 3.
	// Backoff is the initial wait before the first retry, doubled each
	// attempt. Default: 2s.
	Backoff time.Duration
	// UserAgent sent with requests.
	UserAgent string
	// AllowedHosts restricts fetches to these hostnames. Empty allows any
	// public host; private and loopback addresses are always refused.
	AllowedHosts []string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024 // 10MB
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "ghalex-bot/1.0 (+https://github.com/hazyhaar/ghalex)"
	}
}

// Fetcher performs rate-limited HTTP requests with bounded retries.
type Fetcher struct {
	client *http.Client
	config Config
	gate   *Gate
	logger *slog.Logger
}

// New creates a Fetcher. The gate may be shared across fetchers so the
// campaign as a whole honors the per-host request interval.
func New(cfg Config, gate *Gate, logger *slog.Logger) *Fetcher {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	allowed := cfg.AllowedHosts
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				if err := checkURL(req.URL, allowed); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		config: cfg,
		gate:   gate,
		logger: logger,
	}
}

// Fetch retrieves a URL, waiting on the rate gate before every attempt.
// Transient failures (timeouts, 429, 5xx) are retried up to MaxRetries with
// exponential backoff; 4xx other than 429 returns ErrPermanent at once.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", ErrPermanent, err)
	}
	if err := checkURL(u, f.config.AllowedHosts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPermanent, err)
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if f.gate != nil {
			if err := f.gate.Wait(ctx); err != nil {
				return nil, err
			}
		}

		res, err := f.do(ctx, rawURL)
		if err == nil {
			res.Duration = time.Since(start)
			res.Attempts = attempt + 1
			return res, nil
		}
		lastErr = err

		if errors.Is(err, ErrPermanent) || ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt < f.config.MaxRetries {
			wait := f.config.Backoff * (1 << uint(attempt))
			f.logger.WarnContext(ctx, "retrying fetch",
				"url", rawURL,
				"attempt", attempt+1,
				"max_retries", f.config.MaxRetries,
				"backoff_ms", wait.Milliseconds(),
				"error", err)
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(wait):
			}
		}
	}
	return nil, lastErr
}

func (f *Fetcher) do(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %v", ErrPermanent, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to read
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	default:
		// Anything else in 3xx/4xx that survived redirects is permanent; a
		// 404 judgment will not appear on retry.
		return nil, fmt.Errorf("%w: http %d", ErrPermanent, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	h := sha256.Sum256(body)
	return &Result{
		Body:        body,
		StatusCode:  resp.StatusCode,
		Hash:        fmt.Sprintf("%x", h),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// checkURL refuses non-HTTP schemes, out-of-scope hosts, and addresses that
// resolve into private space.
func checkURL(u *url.URL, allowedHosts []string) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q not allowed", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("empty host")
	}
	if len(allowedHosts) > 0 {
		ok := false
		for _, h := range allowedHosts {
			if strings.EqualFold(h, host) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("host %q not in campaign scope", host)
		}
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && (ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified()) {
		return fmt.Errorf("address %s not allowed", ip)
	}
	return nil
}
