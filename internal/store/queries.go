package store

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

// RecordRun inserts a completed batch with its per-target results and
// returns the new run ID. Results are stored in submission order.
func (s *Store) RecordRun(startedAt, finishedAt time.Time, results []pkgmgr.UpdateResult) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, finished_at, target_count) VALUES (?, ?, ?)`,
		startedAt.Format(time.RFC3339),
		finishedAt.Format(time.RFC3339),
		len(results),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for i, r := range results {
		_, err := tx.Exec(
			`INSERT INTO run_results (run_id, position, app_name, manager, status, message)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, r.AppName, string(r.Manager), string(r.Status), r.Message,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert result for %s: %w", r.AppName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first, with their results
// in submission order.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, target_count
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.TargetCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for _, run := range runs {
		if run.Results, err = s.runResults(run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// runResults fetches the results for one run in submission order.
func (s *Store) runResults(runID int64) ([]pkgmgr.UpdateResult, error) {
	rows, err := s.db.Query(
		`SELECT app_name, manager, status, message
		 FROM run_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []pkgmgr.UpdateResult
	for rows.Next() {
		var r pkgmgr.UpdateResult
		var manager, status string
		if err := rows.Scan(&r.AppName, &manager, &status, &r.Message); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Manager = pkgmgr.Manager(manager)
		r.Status = pkgmgr.Status(status)
		results = append(results, r)
	}
	return results, rows.Err()
}
