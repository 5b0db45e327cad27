package caselaw

import "github.com/hazyhaar/ghalex/caselaw/internal/store"

// Re-exported storage types so API consumers do not import internal
// packages.
type (
	CaseRecord     = store.CaseRecord
	AggregateStats = store.AggregateStats
	Snapshot       = store.Snapshot
)

// CandidateState tracks one discovered judgment URL through the campaign.
type CandidateState int

const (
	StateDiscovered CandidateState = iota
	StateFetching
	StateParsing
	StateValidating
	StateStored
	StateSkipped
	StatePermanentlyFailed
)

func (s CandidateState) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateFetching:
		return "fetching"
	case StateParsing:
		return "parsing"
	case StateValidating:
		return "validating"
	case StateStored:
		return "stored"
	case StateSkipped:
		return "skipped"
	case StatePermanentlyFailed:
		return "permanently_failed"
	}
	return "unknown"
}

// Candidate is one judgment URL queued for acquisition.
type Candidate struct {
	URL   string
	Year  int
	State CandidateState
}
