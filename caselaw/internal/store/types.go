package store

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// CaseRecord is the unit of extraction and storage: one decided case.
type CaseRecord struct {
	CaseID          string `json:"case_id"`
	CaseName        string `json:"case_name"`
	NeutralCitation string `json:"neutral_citation"`
	DateDecided     string `json:"date_decided"` // ISO YYYY-MM-DD, "" if unparsed
	Court           string `json:"court"`
	Disposition     string `json:"disposition"`
	Summary         string `json:"summary"`
	FullText        string `json:"full_text"`

	Judges             []string `json:"judges"`
	LegalIssues        []string `json:"legal_issues"`
	ReferencedStatutes []string `json:"referenced_statutes"`
	CitedCases         []string `json:"cited_cases"`

	SourceURL   string `json:"source_url"`
	LastUpdated string `json:"last_updated"` // RFC3339 UTC of last persist

	DataQualityScore   int      `json:"data_quality_score"`
	ValidationFailures []string `json:"validation_failures"`
}

// Fingerprint is a content hash over the fields that define "the same
// record": name, citation, date, and body. Two extractions with equal
// fingerprints are an idempotent re-run, not an identity collision.
func (r *CaseRecord) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{r.CaseName, r.NeutralCitation, r.DateDecided, r.FullText} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Year returns the four-digit year of DateDecided, or "" when the date is empty.
func (r *CaseRecord) Year() string {
	if i := strings.IndexByte(r.DateDecided, '-'); i == 4 {
		return r.DateDecided[:4]
	}
	if len(r.DateDecided) == 4 {
		return r.DateDecided
	}
	return ""
}

// DupStatus classifies the outcome of an identity probe before persistence.
type DupStatus int

const (
	// DupNone means no stored record shares this case_id or citation.
	DupNone DupStatus = iota
	// DupIdentical means a stored record shares the identity and the content
	// fingerprint: a re-run over an unchanged source document.
	DupIdentical
	// DupConflict means a stored record shares the identity but carries
	// different content.
	DupConflict
)

func (d DupStatus) String() string {
	switch d {
	case DupNone:
		return "none"
	case DupIdentical:
		return "identical"
	case DupConflict:
		return "conflict"
	}
	return "unknown"
}

// FetchLogEntry is one row of the append-only fetch audit trail.
type FetchLogEntry struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Status     string `json:"status"` // ok | error | not_found | retrying
	StatusCode int    `json:"status_code"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	FetchedAt  string `json:"fetched_at"`
}

// RejectEntry records a below-threshold record for audit; rejects never enter
// the cases table.
type RejectEntry struct {
	CaseID     string `json:"case_id"`
	SourceURL  string `json:"source_url"`
	Score      int    `json:"score"`
	Failures   string `json:"failures"` // JSON array of check IDs
	RejectedAt string `json:"rejected_at"`
}

// AggregateStats summarises the query store for reporting and the read API.
type AggregateStats struct {
	TotalCases     int            `json:"total_cases"`
	AverageQuality float64        `json:"average_quality"`
	CasesByYear    map[string]int `json:"cases_by_year"`
	TopJudges      map[string]int `json:"top_judges"`
	LastUpdated    string         `json:"last_updated"`
}
