package store

import "database/sql"

// Schema is the relational source of truth. The JSON snapshot is always
// regenerated from these tables, never written independently.
const Schema = `
CREATE TABLE IF NOT EXISTS cases (
    case_id             TEXT PRIMARY KEY,
    case_name           TEXT NOT NULL,
    neutral_citation    TEXT NOT NULL,
    date_decided        TEXT NOT NULL DEFAULT '',
    court               TEXT NOT NULL,
    disposition         TEXT NOT NULL DEFAULT '',
    summary             TEXT NOT NULL DEFAULT '',
    full_text           TEXT NOT NULL,
    source_url          TEXT NOT NULL,
    content_hash        TEXT NOT NULL,
    data_quality_score  INTEGER NOT NULL DEFAULT 0,
    validation_failures TEXT NOT NULL DEFAULT '[]',
    last_updated        TEXT NOT NULL,
    created_at          TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_cases_date     ON cases(date_decided);
CREATE INDEX IF NOT EXISTS idx_cases_citation ON cases(neutral_citation);

CREATE TABLE IF NOT EXISTS judges (
    case_id    TEXT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    judge_name TEXT NOT NULL,
    PRIMARY KEY (case_id, position)
);
CREATE INDEX IF NOT EXISTS idx_judges_name ON judges(judge_name);

CREATE TABLE IF NOT EXISTS legal_issues (
    case_id TEXT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    issue   TEXT NOT NULL,
    PRIMARY KEY (case_id, issue)
);
CREATE INDEX IF NOT EXISTS idx_issues_issue ON legal_issues(issue);

CREATE TABLE IF NOT EXISTS statutes (
    case_id TEXT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    statute TEXT NOT NULL,
    PRIMARY KEY (case_id, statute)
);
CREATE INDEX IF NOT EXISTS idx_statutes_statute ON statutes(statute);

CREATE TABLE IF NOT EXISTS cited_cases (
    case_id    TEXT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    cited_case TEXT NOT NULL,
    PRIMARY KEY (case_id, cited_case)
);

CREATE TABLE IF NOT EXISTS fetch_log (
    id          TEXT PRIMARY KEY,
    url         TEXT NOT NULL,
    status      TEXT NOT NULL,
    status_code INTEGER NOT NULL DEFAULT 0,
    error       TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL DEFAULT 0,
    fetched_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetch_log_url ON fetch_log(url, fetched_at DESC);

CREATE TABLE IF NOT EXISTS rejects (
    case_id     TEXT NOT NULL DEFAULT '',
    source_url  TEXT NOT NULL,
    score       INTEGER NOT NULL,
    failures    TEXT NOT NULL DEFAULT '[]',
    rejected_at TEXT NOT NULL
);
`

// ApplySchema creates all tables and indexes.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
