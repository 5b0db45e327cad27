package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SnapshotVersion is stamped into every exported snapshot document.
const SnapshotVersion = "1.0"

// Snapshot is the portable JSON image of the corpus. It is regenerated
// wholly from the relational store; the database remains the source of
// truth and the snapshot is never read back.
type Snapshot struct {
	Metadata SnapshotMetadata `json:"metadata"`
	Cases    []*CaseRecord    `json:"cases"`
	Indexes  SnapshotIndexes  `json:"indexes"`
}

type SnapshotMetadata struct {
	TotalCases         int     `json:"total_cases"`
	LastUpdated        string  `json:"last_updated"`
	Coverage           string  `json:"coverage"`
	DataQualityAverage float64 `json:"data_quality_average"`
	Version            string  `json:"version"`
}

// SnapshotIndexes map lookup keys to case IDs, each list in insertion
// order of the date-sorted case listing.
type SnapshotIndexes struct {
	ByYear       map[string][]string `json:"by_year"`
	ByJudge      map[string][]string `json:"by_judge"`
	ByStatute    map[string][]string `json:"by_statute"`
	ByLegalIssue map[string][]string `json:"by_legal_issue"`
}

// BuildSnapshot assembles the snapshot document from the store.
func (s *Store) BuildSnapshot(ctx context.Context) (*Snapshot, error) {
	cases, err := s.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: snapshot cases: %w", err)
	}
	// Oldest first makes the exported document stable across runs.
	sort.Slice(cases, func(i, j int) bool {
		if cases[i].DateDecided != cases[j].DateDecided {
			return cases[i].DateDecided < cases[j].DateDecided
		}
		return cases[i].CaseID < cases[j].CaseID
	})

	snap := &Snapshot{
		Cases: cases,
		Indexes: SnapshotIndexes{
			ByYear:       map[string][]string{},
			ByJudge:      map[string][]string{},
			ByStatute:    map[string][]string{},
			ByLegalIssue: map[string][]string{},
		},
	}
	var qualitySum int
	for _, c := range cases {
		qualitySum += c.DataQualityScore
		if year := c.Year(); year != "" {
			snap.Indexes.ByYear[year] = append(snap.Indexes.ByYear[year], c.CaseID)
		}
		for _, j := range c.Judges {
			snap.Indexes.ByJudge[j] = append(snap.Indexes.ByJudge[j], c.CaseID)
		}
		for _, st := range c.ReferencedStatutes {
			snap.Indexes.ByStatute[st] = append(snap.Indexes.ByStatute[st], c.CaseID)
		}
		for _, issue := range c.LegalIssues {
			snap.Indexes.ByLegalIssue[issue] = append(snap.Indexes.ByLegalIssue[issue], c.CaseID)
		}
	}

	first, last, err := s.CoverageRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: snapshot coverage: %w", err)
	}
	coverage := ""
	if first != "" {
		coverage = first + " to " + last
	}
	avg := 0.0
	if len(cases) > 0 {
		avg = float64(qualitySum) / float64(len(cases))
	}
	snap.Metadata = SnapshotMetadata{
		TotalCases:         len(cases),
		LastUpdated:        time.Now().UTC().Format(time.RFC3339),
		Coverage:           coverage,
		DataQualityAverage: avg,
		Version:            SnapshotVersion,
	}
	return snap, nil
}

// WriteSnapshot exports the corpus to path atomically (temp file plus
// rename), so a crash mid-write never leaves a truncated document.
func (s *Store) WriteSnapshot(ctx context.Context, path string) error {
	snap, err := s.BuildSnapshot(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("store: snapshot temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: snapshot write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: snapshot close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: snapshot rename: %w", err)
	}
	return nil
}
