// Package quality scores extracted case records against a weighted set of
// checks. The scorer is pure: it looks only at the record and the duplicate
// status handed to it, never at the store or the network.
package quality

import (
	"fmt"
	"regexp"
	"time"

	"github.com/hazyhaar/ghalex/caselaw/internal/store"
)

// CheckID names one scored validation check. The IDs are persisted in
// validation_failures, so they are part of the stored data format.
type CheckID string

const (
	CheckTextLength     CheckID = "text_length"
	CheckCitationFormat CheckID = "citation_format"
	CheckJudgeCount     CheckID = "judge_count"
	CheckDateValid      CheckID = "date_valid"
	CheckNoDuplicates   CheckID = "no_duplicates"
	CheckCompleteness   CheckID = "completeness"
)

// Config carries check weights and thresholds. Weights must sum to 100 so a
// score reads directly as a percentage.
type Config struct {
	Weights       map[CheckID]int `yaml:"weights"`
	Threshold     int             `yaml:"threshold"`
	MinTextLength int             `yaml:"min_text_length"`
	MinJudges     int             `yaml:"min_judges"`
	DateMin       string          `yaml:"date_min"` // inclusive, YYYY-MM-DD
	DateMax       string          `yaml:"date_max"` // inclusive, YYYY-MM-DD
}

// DefaultConfig returns the production weighting.
func DefaultConfig() Config {
	return Config{
		Weights: map[CheckID]int{
			CheckTextLength:     20,
			CheckCitationFormat: 20,
			CheckJudgeCount:     15,
			CheckDateValid:      15,
			CheckNoDuplicates:   15,
			CheckCompleteness:   15,
		},
		Threshold:     60,
		MinTextLength: 500,
		MinJudges:     3,
		DateMin:       "2000-01-01",
		DateMax:       "2024-12-31",
	}
}

// Scorer evaluates records under a fixed configuration.
type Scorer struct {
	cfg        Config
	citationRe *regexp.Regexp
	dateMin    time.Time
	dateMax    time.Time
}

// NewScorer validates the configuration and returns a Scorer for the given
// court code. Weights that do not sum to 100 are a configuration error, not
// a runtime surprise.
func NewScorer(courtCode string, cfg Config) (*Scorer, error) {
	if courtCode == "" {
		return nil, fmt.Errorf("quality: empty court code")
	}
	sum := 0
	for _, w := range cfg.Weights {
		if w < 0 {
			return nil, fmt.Errorf("quality: negative weight")
		}
		sum += w
	}
	if sum != 100 {
		return nil, fmt.Errorf("quality: weights sum to %d, want 100", sum)
	}
	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		return nil, fmt.Errorf("quality: threshold %d out of range", cfg.Threshold)
	}
	lo, err := time.Parse("2006-01-02", cfg.DateMin)
	if err != nil {
		return nil, fmt.Errorf("quality: date_min: %w", err)
	}
	hi, err := time.Parse("2006-01-02", cfg.DateMax)
	if err != nil {
		return nil, fmt.Errorf("quality: date_max: %w", err)
	}
	if hi.Before(lo) {
		return nil, fmt.Errorf("quality: date_max before date_min")
	}
	citationRe := regexp.MustCompile(
		`^\[(\d{4})\]\s+` + regexp.QuoteMeta(courtCode) + `\s+\d+$`)
	return &Scorer{cfg: cfg, citationRe: citationRe, dateMin: lo, dateMax: hi}, nil
}

// Score evaluates one record and returns the weighted score (0..100) plus
// the IDs of every failing check, in a fixed order. The same record and
// duplicate status always produce the same result.
func (s *Scorer) Score(rec *store.CaseRecord, dup store.DupStatus) (int, []CheckID) {
	score := 0
	var failed []CheckID
	add := func(id CheckID, pass bool) {
		if pass {
			score += s.cfg.Weights[id]
		} else {
			failed = append(failed, id)
		}
	}

	add(CheckTextLength, len(rec.FullText) >= s.cfg.MinTextLength)
	add(CheckCitationFormat, s.citationRe.MatchString(rec.NeutralCitation))
	add(CheckJudgeCount, len(rec.Judges) >= s.cfg.MinJudges)
	add(CheckDateValid, s.dateInRange(rec.DateDecided))
	// An identical fingerprint is a re-run over an unchanged source and
	// passes; only a conflicting duplicate fails.
	add(CheckNoDuplicates, dup != store.DupConflict)
	add(CheckCompleteness, rec.CaseID != "" && rec.CaseName != "" &&
		rec.DateDecided != "" && len(rec.Judges) > 0 &&
		rec.FullText != "" && rec.SourceURL != "")

	return score, failed
}

// Accept reports whether a score clears the configured threshold.
func (s *Scorer) Accept(score int) bool {
	return score >= s.cfg.Threshold
}

// Threshold exposes the configured acceptance threshold for reporting.
func (s *Scorer) Threshold() int { return s.cfg.Threshold }

func (s *Scorer) dateInRange(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	return !t.Before(s.dateMin) && !t.After(s.dateMax)
}
