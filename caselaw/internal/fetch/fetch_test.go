package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func testFetcher(t *testing.T, srv *httptest.Server, cfg Config) *Fetcher {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	cfg.AllowedHosts = []string{u.Hostname()}
	if cfg.Backoff == 0 {
		cfg.Backoff = time.Millisecond
	}
	return New(cfg, NewGate(0), nil)
}

// WHAT: a plain 200 fetch returns body, hash, and attempt count.
func TestFetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("no User-Agent sent")
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>judgment</html>"))
	}))
	defer srv.Close()

	f := testFetcher(t, srv, Config{})
	res, err := f.Fetch(context.Background(), srv.URL+"/j/1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(res.Body) != "<html>judgment</html>" {
		t.Errorf("body = %q", res.Body)
	}
	if res.Hash == "" || res.Attempts != 1 {
		t.Errorf("hash = %q attempts = %d", res.Hash, res.Attempts)
	}
	if res.ContentType != "text/html" {
		t.Errorf("content type = %q", res.ContentType)
	}
}

// WHAT: transient 5xx responses are retried until success.
func TestFetchRetriesTransient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := testFetcher(t, srv, Config{MaxRetries: 3})
	res, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
}

// WHAT: exhausted retries surface the last transient error.
func TestFetchRetryExhaustion(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := testFetcher(t, srv, Config{MaxRetries: 2})
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if errors.Is(err, ErrPermanent) {
		t.Errorf("429 classified permanent: %v", err)
	}
	// Initial attempt plus two retries.
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

// WHAT: 404 is permanent and never retried.
func TestFetch404NoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := testFetcher(t, srv, Config{MaxRetries: 3})
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrPermanent) {
		t.Fatalf("err = %v, want ErrPermanent", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 404)", n)
	}
}

// WHAT: out-of-scope hosts are refused before any request goes out.
func TestFetchScopeRefusal(t *testing.T) {
	f := New(Config{AllowedHosts: []string{"ghalii.org"}}, NewGate(0), nil)
	_, err := f.Fetch(context.Background(), "https://example.com/x")
	if !errors.Is(err, ErrPermanent) {
		t.Fatalf("err = %v, want ErrPermanent", err)
	}
}

// WHAT: the gate spaces consecutive fetches by the configured interval.
func TestGateSpacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()
	u, _ := url.Parse(srv.URL)

	interval := 50 * time.Millisecond
	f := New(Config{AllowedHosts: []string{u.Hostname()}}, NewGate(interval), nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	// First slot is immediate; two more waits follow.
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Errorf("3 fetches took %v, want >= %v", elapsed, 2*interval)
	}
}

// WHAT: cancellation interrupts the gate wait.
func TestGateCancel(t *testing.T) {
	g := NewGate(time.Hour)
	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := g.Wait(ctx); err == nil {
		t.Fatal("Wait returned before the hour slot with no error")
	}
}

// WHAT: robots directives gate paths for our agent.
func TestRobots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("User-agent: *\nDisallow: /admin/\n"))
	}))
	defer srv.Close()

	r, err := ProbeRobots(context.Background(), srv.Client(), srv.URL, "ghalex-bot/1.0")
	if err != nil {
		t.Fatalf("ProbeRobots: %v", err)
	}
	if !r.Allowed("/gh/judgment/ghasc/2023/45") {
		t.Error("judgment path disallowed")
	}
	if r.Allowed("/admin/login") {
		t.Error("admin path allowed")
	}
}

// WHAT: a host without robots.txt permits everything.
func TestRobotsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	r, err := ProbeRobots(context.Background(), srv.Client(), srv.URL, "ghalex-bot/1.0")
	if err != nil {
		t.Fatalf("ProbeRobots: %v", err)
	}
	if !r.Allowed("/anything") {
		t.Error("404 robots.txt should allow all")
	}
}
