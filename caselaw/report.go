package caselaw

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hazyhaar/ghalex/caselaw/internal/store"
)

// CampaignReport summarises one acquisition run. A dated copy is written
// under DataDir/reports at the end of every campaign.
type CampaignReport struct {
	Mode       string `json:"mode"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`

	Discovered int `json:"discovered"`
	Stored     int `json:"stored"`
	Skipped    int `json:"skipped"`
	Rejected   int `json:"rejected"`
	Failed     int `json:"failed"`

	ListFailures []ListFailure `json:"list_failures,omitempty"`

	// Corpus-wide aggregates after the run.
	Stats *store.AggregateStats `json:"stats,omitempty"`
}

// ListFailure records one listing page that could not be fetched.
type ListFailure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

type reportState struct {
	mu     sync.Mutex
	report CampaignReport
}

func (r *reportState) noteListFailure(url string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.ListFailures = append(r.report.ListFailures, ListFailure{URL: url, Error: err.Error()})
}

func (r *reportState) note(state CandidateState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch state {
	case StateStored:
		r.report.Stored++
	case StateSkipped:
		r.report.Skipped++
	case StatePermanentlyFailed:
		r.report.Failed++
	}
}

func (r *reportState) noteReject() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Rejected++
}

// writeArtifacts persists the dated report and stats documents.
func (s *Service) writeArtifacts(ctx context.Context, rep *CampaignReport) error {
	day := time.Now().UTC().Format("2006-01-02")
	dir := filepath.Join(s.cfg.DataDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("caselaw: reports dir: %w", err)
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("caselaw: report stats: %w", err)
	}
	rep.Stats = stats

	if err := writeJSON(filepath.Join(dir, "report_"+day+".json"), rep); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "stats_"+day+".json"), stats)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("caselaw: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("caselaw: write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// logScrapedURL appends one line to the append-only URL log. Failures are
// deliberately quiet: losing a log line must never stop a campaign.
func (s *Service) logScrapedURL(url string) {
	s.appendLine("scraped_urls.log", fmt.Sprintf("%s - %s",
		time.Now().UTC().Format(time.RFC3339), url))
}

// logError appends one line to the append-only error log.
func (s *Service) logError(url, kind, detail string) {
	s.appendLine("errors.log", fmt.Sprintf("%s - %s - %s - %s",
		time.Now().UTC().Format(time.RFC3339), kind, url, detail))
}

func (s *Service) appendLine(name, line string) {
	dir := filepath.Join(s.cfg.DataDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}
