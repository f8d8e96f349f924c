package db

import (
	"fmt"
)

// Run represents a row in the runs table.
type Run struct {
	ID        string
	Request   string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// RunEvent represents a row in the run_events table.
type RunEvent struct {
	ID        int
	RunID     string
	Event     string
	Phase     string
	Attempt   int
	Detail    string
	Timestamp string
}

// CreateRun inserts a run record.
func (d *DB) CreateRun(id string, request string) error {
	_, err := d.conn.Exec(
		`INSERT INTO runs (id, request) VALUES (?, ?)`,
		id, request,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// UpdateRunStatus sets a run's status.
func (d *DB) UpdateRunStatus(id string, status string) error {
	_, err := d.conn.Exec(
		`UPDATE runs SET status = ?, updated_at = datetime('now') WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

// LogRunEvent inserts a run event.
func (d *DB) LogRunEvent(runID string, event string, phase string, attempt int, detail string) error {
	_, err := d.conn.Exec(
		`INSERT INTO run_events (run_id, event, phase, attempt, detail) VALUES (?, ?, ?, ?, ?)`,
		runID, event, phase, attempt, detail,
	)
	if err != nil {
		return fmt.Errorf("log run event: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(
		`SELECT id, request, status, created_at, updated_at FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Request, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListRunEvents returns the events of one run in insertion order.
func (d *DB) ListRunEvents(runID string, limit int) ([]RunEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.conn.Query(
		`SELECT id, run_id, event, phase, attempt, detail, timestamp
		 FROM run_events WHERE run_id = ? ORDER BY id ASC LIMIT ?`,
		runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list run events: %w", err)
	}
	defer rows.Close()

	var events []RunEvent
	for rows.Next() {
		var e RunEvent
		if err := rows.Scan(&e.ID, &e.RunID, &e.Event, &e.Phase, &e.Attempt, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
