package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/vertextoedge/bulkfetch/internal/domain"
	"github.com/vertextoedge/bulkfetch/internal/port"
)

// RecordStart inserts a downloading row for the spec and returns its id
func (s *Store) RecordStart(runID string, spec domain.DownloadSpec) (int64, error) {
	query := `
		INSERT INTO transfers (
			run_id, url, destination, state, started_at
		) VALUES (?, ?, ?, 'downloading', datetime('now'))
	`

	result, err := s.db.Exec(query, runID, spec.URL, spec.Destination)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// RecordOutcome finalizes the row with the task's terminal state
func (s *Store) RecordOutcome(id int64, outcome domain.TaskOutcome) error {
	query := `
		UPDATE transfers
		SET state = ?,
			bytes = ?,
			error = ?,
			finished_at = datetime('now'),
			updated_at = datetime('now')
		WHERE id = ?
	`

	var errText sql.NullString
	if outcome.Err != nil {
		errText = sql.NullString{String: outcome.Err.Error(), Valid: true}
	}

	result, err := s.db.Exec(query, string(outcome.State), outcome.Bytes, errText, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("transfer %d: no such row", id)
	}

	return nil
}

// ReconcileStale marks rows that a previous process left in the
// downloading state as interrupted. Called once at startup, before the
// current run writes anything; currentRunID guards against ever touching
// live rows.
func (s *Store) ReconcileStale(currentRunID string) (int64, error) {
	query := `
		UPDATE transfers
		SET state = 'interrupted',
			error = 'process terminated',
			finished_at = datetime('now'),
			updated_at = datetime('now')
		WHERE state = 'downloading' AND run_id != ?
	`

	result, err := s.db.Exec(query, currentRunID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// ListRun returns all entries of a run ordered by insertion
func (s *Store) ListRun(runID string) ([]port.JournalEntry, error) {
	query := `
		SELECT id, run_id, url, destination, state, bytes, error,
			   started_at, finished_at
		FROM transfers
		WHERE run_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []port.JournalEntry
	for rows.Next() {
		var entry port.JournalEntry
		var errText sql.NullString
		var startedAt, finishedAt sql.NullTime

		err := rows.Scan(
			&entry.ID, &entry.RunID, &entry.URL, &entry.Destination,
			&entry.State, &entry.Bytes, &errText, &startedAt, &finishedAt,
		)
		if err != nil {
			return nil, err
		}

		if errText.Valid {
			entry.Error = errText.String
		}
		if startedAt.Valid {
			entry.StartedAt = &startedAt.Time
		}
		if finishedAt.Valid {
			entry.FinishedAt = &finishedAt.Time
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
