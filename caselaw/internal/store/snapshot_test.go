package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WHAT: builds a snapshot over two cases and checks every index.
// WHY: downstream consumers navigate the corpus through the indexes; a
// missing key silently hides a case from them.
func TestBuildSnapshot(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := sampleCase()
	b := sampleCase()
	b.CaseID = "GHASC/2021/7"
	b.NeutralCitation = "[2021] GHASC 7"
	b.DateDecided = "2021-03-02"
	b.Judges = []string{"Dotse JSC"}
	b.LegalIssues = []string{"contract"}
	b.ReferencedStatutes = []string{"1992 Constitution"}
	for _, rec := range []*CaseRecord{a, b} {
		if err := s.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	snap, err := s.BuildSnapshot(ctx)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if snap.Metadata.TotalCases != 2 {
		t.Errorf("TotalCases = %d, want 2", snap.Metadata.TotalCases)
	}
	if snap.Metadata.Coverage != "2021-03-02 to 2023-07-15" {
		t.Errorf("Coverage = %q", snap.Metadata.Coverage)
	}
	if snap.Metadata.Version != SnapshotVersion {
		t.Errorf("Version = %q", snap.Metadata.Version)
	}
	// Oldest decision first for a stable document.
	if snap.Cases[0].CaseID != "GHASC/2021/7" {
		t.Errorf("case order: first = %s", snap.Cases[0].CaseID)
	}

	if ids := snap.Indexes.ByYear["2023"]; len(ids) != 1 || ids[0] != "GHASC/2023/45" {
		t.Errorf("by_year[2023] = %v", ids)
	}
	if ids := snap.Indexes.ByJudge["Dotse JSC"]; len(ids) != 2 {
		t.Errorf("by_judge[Dotse JSC] = %v, want both cases", ids)
	}
	if ids := snap.Indexes.ByStatute["1992 Constitution"]; len(ids) != 1 || ids[0] != "GHASC/2021/7" {
		t.Errorf("by_statute = %v", ids)
	}
	if ids := snap.Indexes.ByLegalIssue["criminal"]; len(ids) != 1 || ids[0] != "GHASC/2023/45" {
		t.Errorf("by_legal_issue = %v", ids)
	}
}

// WHAT: WriteSnapshot produces a parseable document at the target path.
// WHY: the export is atomic (temp plus rename); the final file must be the
// complete document.
func TestWriteSnapshot(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if err := s.Upsert(ctx, sampleCase()); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "cases.json")
	if err := s.WriteSnapshot(ctx, path); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if len(snap.Cases) != 1 || snap.Cases[0].CaseID != "GHASC/2023/45" {
		t.Errorf("snapshot cases = %+v", snap.Cases)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot in %s, found %d entries", filepath.Dir(path), len(entries))
	}
}

// WHAT: snapshot of an empty store.
func TestSnapshotEmpty(t *testing.T) {
	s := testStore(t)
	snap, err := s.BuildSnapshot(context.Background())
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if snap.Metadata.TotalCases != 0 || snap.Metadata.Coverage != "" {
		t.Errorf("metadata = %+v", snap.Metadata)
	}
	if snap.Metadata.DataQualityAverage != 0 {
		t.Errorf("average = %v", snap.Metadata.DataQualityAverage)
	}
}
