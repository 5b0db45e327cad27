package caselaw

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/ghalex/caselaw/internal/fetch"
	"github.com/hazyhaar/ghalex/caselaw/internal/quality"
)

// Duration wraps time.Duration for YAML unmarshaling of values like "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config configures an acquisition service.
type Config struct {
	// Source settings
	BaseURL   string `yaml:"base_url"`   // e.g. https://ghalii.org
	CourtCode string `yaml:"court_code"` // citation code, e.g. GHASC
	Court     string `yaml:"court"`      // display name stored on records
	YearStart int    `yaml:"year_start"`
	YearEnd   int    `yaml:"year_end"`

	// Fetch settings
	Fetch fetch.Config `yaml:"fetch"`
	// RequestDelay is the minimum interval between requests to the source.
	RequestDelay Duration `yaml:"request_delay"`

	// Quality gate
	Quality quality.Config `yaml:"quality"`

	// DataDir is the root for the database, snapshot, reports, and logs.
	DataDir string `yaml:"data_dir"`

	// ProgressEvery logs campaign progress after this many candidates.
	ProgressEvery int `yaml:"progress_every"`

	// TestModeLimit caps discovered candidates when running in test mode.
	TestModeLimit int `yaml:"test_mode_limit"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://ghalii.org"
	}
	if c.CourtCode == "" {
		c.CourtCode = "GHASC"
	}
	if c.Court == "" {
		c.Court = "Supreme Court of Ghana"
	}
	if c.YearStart == 0 {
		c.YearStart = 2000
	}
	if c.YearEnd == 0 {
		c.YearEnd = 2024
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = Duration(5 * time.Second)
	}
	if c.Quality.Weights == nil {
		c.Quality = quality.DefaultConfig()
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = 10
	}
	if c.TestModeLimit <= 0 {
		c.TestModeLimit = 10
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "ghalex-bot/1.0 (+https://github.com/hazyhaar/ghalex)"
	}
	if len(c.Fetch.AllowedHosts) == 0 {
		if u, err := url.Parse(c.BaseURL); err == nil && u.Hostname() != "" {
			c.Fetch.AllowedHosts = []string{u.Hostname()}
		}
	}
}

func (c *Config) validate() error {
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("caselaw: base_url: %w", err)
	}
	if c.YearEnd < c.YearStart {
		return fmt.Errorf("caselaw: year_end %d before year_start %d", c.YearEnd, c.YearStart)
	}
	return nil
}

// LoadConfig reads a YAML config file and applies defaults. An empty path
// returns the default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("caselaw: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("caselaw: parse config: %w", err)
		}
	}
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
