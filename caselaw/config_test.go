package caselaw

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WHAT: defaults fill every field of an empty config.
func TestConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "https://ghalii.org" || cfg.CourtCode != "GHASC" {
		t.Errorf("source defaults: %+v", cfg)
	}
	if cfg.YearStart != 2000 || cfg.YearEnd != 2024 {
		t.Errorf("year range: %d-%d", cfg.YearStart, cfg.YearEnd)
	}
	if cfg.RequestDelay.Duration() != 5*time.Second {
		t.Errorf("RequestDelay = %v", cfg.RequestDelay.Duration())
	}
	if cfg.Quality.Threshold != 60 {
		t.Errorf("threshold = %d", cfg.Quality.Threshold)
	}
	if len(cfg.Fetch.AllowedHosts) != 1 || cfg.Fetch.AllowedHosts[0] != "ghalii.org" {
		t.Errorf("AllowedHosts = %v", cfg.Fetch.AllowedHosts)
	}
}

// WHAT: YAML values override defaults; the rest stay filled.
func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
base_url: https://ghalii.org
year_start: 2010
year_end: 2012
request_delay: 2s
data_dir: /tmp/ghalex-test
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.YearStart != 2010 || cfg.YearEnd != 2012 {
		t.Errorf("years = %d-%d", cfg.YearStart, cfg.YearEnd)
	}
	if cfg.RequestDelay.Duration() != 2*time.Second {
		t.Errorf("RequestDelay = %v", cfg.RequestDelay.Duration())
	}
	if cfg.ProgressEvery != 10 {
		t.Errorf("ProgressEvery default lost: %d", cfg.ProgressEvery)
	}
}

// WHAT: an inverted year range is rejected.
func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("year_start: 2020\nyear_end: 2001\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("inverted year range accepted")
	}
}

// WHAT: link extraction from a listing page keeps only same-host judgment
// documents.
func TestJudgmentLinks(t *testing.T) {
	base, _ := url.Parse("https://ghalii.org")
	page := []byte(`<html><body>
<a href="/judgment/ghasc/2023/45">Republic v. Mensah</a>
<a href="/judgment/ghasc/2023/45">duplicate</a>
<a href="https://ghalii.org/judgment/ghasc/2023/46#top">Second</a>
<a href="https://example.com/judgment/ghasc/2023/47">off-host</a>
<a href="/judgment/court/supreme_court?year=2023">listing itself</a>
<a href="/akn/gh/judgment/ghasc/2023/48/eng@2023-07-15">akoma ntoso</a>
<a href="/about">about</a>
</body></html>`)

	links, err := judgmentLinks(page, base)
	if err != nil {
		t.Fatalf("judgmentLinks: %v", err)
	}
	want := []string{
		"https://ghalii.org/judgment/ghasc/2023/45",
		"https://ghalii.org/judgment/ghasc/2023/46",
		"https://ghalii.org/akn/gh/judgment/ghasc/2023/48/eng@2023-07-15",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}
