package store

import (
	"context"
	"database/sql"
	"errors"
)

// Stats computes campaign-level aggregates over the stored corpus.
func (s *Store) Stats(ctx context.Context) (*AggregateStats, error) {
	stats := &AggregateStats{
		CasesByYear: map[string]int{},
		TopJudges:   map[string]int{},
	}

	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(data_quality_score), 0), COALESCE(MAX(last_updated), '')
		 FROM cases`).Scan(&stats.TotalCases, &stats.AverageQuality, &stats.LastUpdated)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT substr(date_decided, 1, 4) AS year, COUNT(*)
		FROM cases WHERE date_decided != ''
		GROUP BY year ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var year string
		var n int
		if err := rows.Scan(&year, &n); err != nil {
			return nil, err
		}
		stats.CasesByYear[year] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	judgeRows, err := s.DB.QueryContext(ctx, `
		SELECT judge_name, COUNT(*) AS n
		FROM judges GROUP BY judge_name
		ORDER BY n DESC, judge_name LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer judgeRows.Close()
	for judgeRows.Next() {
		var name string
		var n int
		if err := judgeRows.Scan(&name, &n); err != nil {
			return nil, err
		}
		stats.TopJudges[name] = n
	}
	return stats, judgeRows.Err()
}

// CoverageRange reports the earliest and latest decision dates stored.
func (s *Store) CoverageRange(ctx context.Context) (first, last string, err error) {
	var lo, hi sql.NullString
	err = s.DB.QueryRowContext(ctx,
		`SELECT MIN(date_decided), MAX(date_decided) FROM cases WHERE date_decided != ''`).
		Scan(&lo, &hi)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return lo.String, hi.String, nil
}
