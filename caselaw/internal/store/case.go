package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Exists reports whether a case with the given ID is already stored.
func (s *Store) Exists(ctx context.Context, caseID string) (bool, error) {
	var one int
	err := s.DB.QueryRowContext(ctx,
		`SELECT 1 FROM cases WHERE case_id = ?`, caseID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DupCheck probes the identity of an incoming record before persistence.
// A stored record sharing the case_id or neutral citation with an equal
// content fingerprint is an idempotent re-run (DupIdentical); with a
// different fingerprint it is a collision (DupConflict).
func (s *Store) DupCheck(ctx context.Context, caseID, citation, fingerprint string) (DupStatus, error) {
	var stored string
	err := s.DB.QueryRowContext(ctx,
		`SELECT content_hash FROM cases WHERE case_id = ? OR neutral_citation = ? LIMIT 1`,
		caseID, citation).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return DupNone, nil
	}
	if err != nil {
		return DupNone, err
	}
	if stored == fingerprint {
		return DupIdentical, nil
	}
	return DupConflict, nil
}

// Upsert inserts or updates a case record and its child collections in one
// transaction, keyed by case_id. Re-running acquisition over an unchanged
// source produces an update, never a second row.
func (s *Store) Upsert(ctx context.Context, rec *CaseRecord) error {
	if rec.CaseID == "" {
		return fmt.Errorf("store: upsert without case_id")
	}
	if rec.LastUpdated == "" {
		rec.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	}

	failures, err := json.Marshal(emptySlice(rec.ValidationFailures))
	if err != nil {
		return fmt.Errorf("store: marshal failures: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cases (case_id, case_name, neutral_citation, date_decided,
			court, disposition, summary, full_text, source_url, content_hash,
			data_quality_score, validation_failures, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(case_id) DO UPDATE SET
			case_name           = excluded.case_name,
			neutral_citation    = excluded.neutral_citation,
			date_decided        = excluded.date_decided,
			court               = excluded.court,
			disposition         = excluded.disposition,
			summary             = excluded.summary,
			full_text           = excluded.full_text,
			source_url          = excluded.source_url,
			content_hash        = excluded.content_hash,
			data_quality_score  = excluded.data_quality_score,
			validation_failures = excluded.validation_failures,
			last_updated        = excluded.last_updated`,
		rec.CaseID, rec.CaseName, rec.NeutralCitation, rec.DateDecided,
		rec.Court, rec.Disposition, rec.Summary, rec.FullText, rec.SourceURL,
		rec.Fingerprint(), rec.DataQualityScore, string(failures), rec.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("store: upsert case: %w", err)
	}

	// Child collections are replaced wholesale; they are small and the
	// delete/insert keeps the upsert idempotent.
	for _, table := range []string{"judges", "legal_issues", "statutes", "cited_cases"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE case_id = ?`, table), rec.CaseID); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}
	for i, judge := range rec.Judges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO judges (case_id, position, judge_name) VALUES (?, ?, ?)`,
			rec.CaseID, i, judge); err != nil {
			return fmt.Errorf("store: insert judge: %w", err)
		}
	}
	if err := insertTags(ctx, tx, "legal_issues", "issue", rec.CaseID, rec.LegalIssues); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, "statutes", "statute", rec.CaseID, rec.ReferencedStatutes); err != nil {
		return err
	}
	if err := insertTags(ctx, tx, "cited_cases", "cited_case", rec.CaseID, rec.CitedCases); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

func insertTags(ctx context.Context, tx *sql.Tx, table, column, caseID string, values []string) error {
	for _, v := range values {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT OR IGNORE INTO %s (case_id, %s) VALUES (?, ?)`, table, column),
			caseID, v); err != nil {
			return fmt.Errorf("store: insert %s: %w", table, err)
		}
	}
	return nil
}

// Get retrieves one case with all child collections, or nil if absent.
func (s *Store) Get(ctx context.Context, caseID string) (*CaseRecord, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT case_id, case_name, neutral_citation, date_decided, court,
			disposition, summary, full_text, source_url, data_quality_score,
			validation_failures, last_updated
		FROM cases WHERE case_id = ?`, caseID)

	rec, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadChildren(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// All returns every stored case, newest decision first, children included.
func (s *Store) All(ctx context.Context) ([]*CaseRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT case_id, case_name, neutral_citation, date_decided, court,
			disposition, summary, full_text, source_url, data_quality_score,
			validation_failures, last_updated
		FROM cases ORDER BY date_decided DESC, case_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*CaseRecord
	for rows.Next() {
		rec, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := s.loadChildren(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*CaseRecord, error) {
	var rec CaseRecord
	var failures string
	err := row.Scan(&rec.CaseID, &rec.CaseName, &rec.NeutralCitation,
		&rec.DateDecided, &rec.Court, &rec.Disposition, &rec.Summary,
		&rec.FullText, &rec.SourceURL, &rec.DataQualityScore,
		&failures, &rec.LastUpdated)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(failures), &rec.ValidationFailures); err != nil {
		rec.ValidationFailures = nil
	}
	return &rec, nil
}

func (s *Store) loadChildren(ctx context.Context, rec *CaseRecord) error {
	var err error
	rec.Judges, err = s.column(ctx,
		`SELECT judge_name FROM judges WHERE case_id = ? ORDER BY position`, rec.CaseID)
	if err != nil {
		return err
	}
	rec.LegalIssues, err = s.column(ctx,
		`SELECT issue FROM legal_issues WHERE case_id = ? ORDER BY issue`, rec.CaseID)
	if err != nil {
		return err
	}
	rec.ReferencedStatutes, err = s.column(ctx,
		`SELECT statute FROM statutes WHERE case_id = ? ORDER BY statute`, rec.CaseID)
	if err != nil {
		return err
	}
	rec.CitedCases, err = s.column(ctx,
		`SELECT cited_case FROM cited_cases WHERE case_id = ? ORDER BY cited_case`, rec.CaseID)
	return err
}

func (s *Store) column(ctx context.Context, query, caseID string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
