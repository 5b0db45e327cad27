// Package caselaw acquires court judgments from a legal information
// institute: discovery over per-year listing pages, polite rate-limited
// fetching, field extraction, weighted quality validation, and dual
// persistence (relational store plus JSON snapshot).
package caselaw

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hazyhaar/ghalex/caselaw/internal/fetch"
	"github.com/hazyhaar/ghalex/caselaw/internal/parse"
	"github.com/hazyhaar/ghalex/caselaw/internal/quality"
	"github.com/hazyhaar/ghalex/caselaw/internal/store"
)

// Mode selects the campaign scope.
type Mode int

const (
	// ModeFull processes every discovered candidate.
	ModeFull Mode = iota
	// ModeTest caps discovery at the configured test limit; used to verify
	// the pipeline against a live source without a full crawl.
	ModeTest
)

func (m Mode) String() string {
	if m == ModeTest {
		return "test"
	}
	return "full"
}

// Service runs acquisition campaigns and serves the stored corpus.
type Service struct {
	cfg     *Config
	logger  *slog.Logger
	store   *store.Store
	fetcher *fetch.Fetcher
	parser  *parse.Parser
	scorer  *quality.Scorer
	robots  *fetch.Robots
	report  *reportState
	running atomic.Bool
}

// New creates a Service over an open database. The schema is applied if
// missing.
func New(cfg *Config, db *sql.DB, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := store.ApplySchema(db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	scorer, err := quality.NewScorer(cfg.CourtCode, cfg.Quality)
	if err != nil {
		return nil, err
	}

	gate := fetch.NewGate(cfg.RequestDelay.Duration())
	return &Service{
		cfg:     cfg,
		logger:  logger,
		store:   store.NewStore(db),
		fetcher: fetch.New(cfg.Fetch, gate, logger),
		parser:  parse.NewParser(cfg.CourtCode, cfg.Court),
		scorer:  scorer,
		report:  &reportState{},
	}, nil
}

// Store exposes the underlying query store for the read API.
func (s *Service) Store() *store.Store { return s.store }

// SnapshotPath is where RunCampaign writes the JSON export.
func (s *Service) SnapshotPath() string {
	return filepath.Join(s.cfg.DataDir, "cases.json")
}

// RunCampaign executes one acquisition run: discover, process, export.
// Candidates are processed sequentially; the shared rate gate paces every
// request. Individual candidate failures never abort the campaign, only
// context cancellation does.
func (s *Service) RunCampaign(ctx context.Context, mode Mode) (*CampaignReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrCampaignRunning
	}
	defer s.running.Store(false)

	s.report = &reportState{}
	s.report.report.Mode = mode.String()
	s.report.report.StartedAt = time.Now().UTC().Format(time.RFC3339)

	robots, err := fetch.ProbeRobots(ctx, &http.Client{Timeout: 15 * time.Second},
		s.cfg.BaseURL, s.cfg.Fetch.UserAgent)
	if err != nil {
		return nil, err
	}
	s.robots = robots
	if !robots.Allowed(listPagePath) {
		return nil, ErrPolicyDenied
	}

	s.logger.InfoContext(ctx, "campaign started",
		"mode", mode.String(),
		"court", s.cfg.CourtCode,
		"years", fmt.Sprintf("%d-%d", s.cfg.YearStart, s.cfg.YearEnd))

	candidates, err := s.Discover(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	if mode == ModeTest && len(candidates) > s.cfg.TestModeLimit {
		candidates = candidates[:s.cfg.TestModeLimit]
	}
	s.report.report.Discovered = len(candidates)
	s.logger.InfoContext(ctx, "discovery complete", "candidates", len(candidates))

	for i := range candidates {
		if ctx.Err() != nil {
			break
		}
		state := s.processCandidate(ctx, &candidates[i])
		s.report.note(state)
		if (i+1)%s.cfg.ProgressEvery == 0 {
			s.logger.InfoContext(ctx, "campaign progress",
				"processed", i+1,
				"total", len(candidates),
				"stored", s.report.report.Stored,
				"skipped", s.report.report.Skipped,
				"failed", s.report.report.Failed)
		}
	}

	// An interrupted run still exports what it stored and reports what it
	// attempted, so the export runs on a fresh context when ctx is done.
	runErr := ctx.Err()
	exportCtx := ctx
	if runErr != nil {
		var cancel context.CancelFunc
		exportCtx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
	}
	if err := s.store.WriteSnapshot(exportCtx, s.SnapshotPath()); err != nil {
		return nil, err
	}
	s.report.report.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	rep := s.report.report
	if err := s.writeArtifacts(exportCtx, &rep); err != nil {
		return nil, err
	}
	s.logger.InfoContext(exportCtx, "campaign finished",
		"discovered", rep.Discovered,
		"stored", rep.Stored,
		"skipped", rep.Skipped,
		"rejected", rep.Rejected,
		"failed", rep.Failed,
		"interrupted", runErr != nil)
	return &rep, runErr
}

// processCandidate walks one candidate through the acquisition states and
// returns its terminal state.
func (s *Service) processCandidate(ctx context.Context, cand *Candidate) CandidateState {
	cand.State = StateFetching
	res, err := s.fetcher.Fetch(ctx, cand.URL)
	if err != nil {
		s.recordFetch(ctx, cand.URL, 0, "error", err.Error(), 0)
		s.logError(cand.URL, "FETCH_FAILED", err.Error())
		cand.State = StatePermanentlyFailed
		return cand.State
	}
	s.recordFetch(ctx, cand.URL, res.StatusCode, "ok", "", res.Duration)
	s.logScrapedURL(cand.URL)

	cand.State = StateParsing
	var rec *store.CaseRecord
	if isPDF(res.ContentType, cand.URL) {
		rec, err = s.parser.ParsePDF(res.Body, cand.URL)
	} else {
		rec, err = s.parser.Parse(res.Body, cand.URL)
	}
	if err != nil {
		if errors.Is(err, parse.ErrNotJudgment) {
			s.logger.DebugContext(ctx, "not a judgment", "url", cand.URL)
		} else {
			s.logError(cand.URL, "PARSE_FAILED", err.Error())
		}
		cand.State = StateSkipped
		return cand.State
	}

	cand.State = StateValidating
	dup, err := s.store.DupCheck(ctx, rec.CaseID, rec.NeutralCitation, rec.Fingerprint())
	if err != nil {
		s.logError(cand.URL, "STORE_ERROR", err.Error())
		cand.State = StatePermanentlyFailed
		return cand.State
	}

	score, failed := s.scorer.Score(rec, dup)
	rec.DataQualityScore = score
	rec.ValidationFailures = checkIDs(failed)

	if !s.scorer.Accept(score) {
		failures, _ := json.Marshal(rec.ValidationFailures)
		if err := s.store.InsertReject(ctx, &store.RejectEntry{
			CaseID:    rec.CaseID,
			SourceURL: cand.URL,
			Score:     score,
			Failures:  string(failures),
		}); err != nil {
			s.logError(cand.URL, "STORE_ERROR", err.Error())
		}
		s.logError(cand.URL, "VALIDATION_FAILED",
			fmt.Sprintf("score %d below threshold %d: %v", score, s.scorer.Threshold(), rec.ValidationFailures))
		s.report.noteReject()
		cand.State = StateSkipped
		return cand.State
	}

	if err := s.store.Upsert(ctx, rec); err != nil {
		s.logError(cand.URL, "STORAGE_ERROR", err.Error())
		cand.State = StatePermanentlyFailed
		return cand.State
	}
	s.logger.InfoContext(ctx, "case stored",
		"case_id", rec.CaseID,
		"citation", rec.NeutralCitation,
		"score", score,
		"duplicate", dup.String())
	cand.State = StateStored
	return cand.State
}

func (s *Service) recordFetch(ctx context.Context, url string, code int, status, detail string, d time.Duration) {
	entry := &store.FetchLogEntry{
		URL:        url,
		Status:     status,
		StatusCode: code,
		Error:      detail,
		DurationMs: d.Milliseconds(),
	}
	if err := s.store.InsertFetchLog(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "fetch log insert failed", "url", url, "error", err)
	}
}

func isPDF(contentType, url string) bool {
	return strings.Contains(contentType, "application/pdf") ||
		strings.HasSuffix(strings.ToLower(url), ".pdf")
}

func checkIDs(failed []quality.CheckID) []string {
	if len(failed) == 0 {
		return nil
	}
	out := make([]string, len(failed))
	for i, id := range failed {
		out[i] = string(id)
	}
	return out
}
