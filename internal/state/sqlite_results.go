package state

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

const resultColumns = `run_id, name, count, time, status, recorded_at`

// RecordResults stores the outcome of every check in a run.
func (s *SQLiteStore) RecordResults(runID string, results []StoredResult) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO check_results (` + resultColumns + `) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, r := range results {
		recordedAt := r.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = now
		}
		if _, err := stmt.Exec(runID, r.Name, r.Count, r.Time, r.Status.String(), recordedAt.UTC()); err != nil {
			return fmt.Errorf("failed to record result for %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetResultsForRun retrieves the results of a run ordered by check name.
func (s *SQLiteStore) GetResultsForRun(runID string) ([]StoredResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	return s.queryResults(
		`SELECT `+resultColumns+` FROM check_results WHERE run_id = ? ORDER BY name`,
		runID,
	)
}

// GetCheckHistory retrieves the most recent results of one check, newest first.
func (s *SQLiteStore) GetCheckHistory(name string, limit int) ([]StoredResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}
	return s.queryResults(
		`SELECT `+resultColumns+` FROM check_results WHERE name = ? ORDER BY recorded_at DESC, rowid DESC LIMIT ?`,
		name, limit,
	)
}

func (s *SQLiteStore) queryResults(query string, args ...any) ([]StoredResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []StoredResult
	for rows.Next() {
		var r StoredResult
		var status string
		if err := rows.Scan(&r.RunID, &r.Name, &r.Count, &r.Time, &status, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		parsed, ok := core.ParseStatus(status)
		if !ok {
			parsed = core.StatusPending
		}
		r.Status = parsed
		results = append(results, r)
	}
	return results, rows.Err()
}
