package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertFetchLog records one fetch attempt outcome. Every attempt gets a
// row, including retries, so the log reconstructs campaign behaviour.
func (s *Store) InsertFetchLog(ctx context.Context, entry *FetchLogEntry) error {
	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("store: fetch log id: %w", err)
		}
		entry.ID = id.String()
	}
	if entry.FetchedAt == "" {
		entry.FetchedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO fetch_log (id, url, status, status_code, error, duration_ms, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.URL, entry.Status, entry.StatusCode,
		entry.Error, entry.DurationMs, entry.FetchedAt)
	if err != nil {
		return fmt.Errorf("store: insert fetch log: %w", err)
	}
	return nil
}

// InsertReject keeps an audit row for a record that failed validation.
// Rejected material is never promoted into the cases table.
func (s *Store) InsertReject(ctx context.Context, entry *RejectEntry) error {
	if entry.RejectedAt == "" {
		entry.RejectedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if entry.Failures == "" {
		entry.Failures = "[]"
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO rejects (case_id, source_url, score, failures, rejected_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.CaseID, entry.SourceURL, entry.Score, entry.Failures, entry.RejectedAt)
	if err != nil {
		return fmt.Errorf("store: insert reject: %w", err)
	}
	return nil
}
