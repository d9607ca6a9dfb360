package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Session outcomes.
const (
	OutcomeCompleted   = "completed"
	OutcomeInterrupted = "interrupted"
	OutcomeExtended    = "extended"
	OutcomeAbandoned   = "abandoned"
)

// ValidOutcome reports whether s is one of the four session outcomes.
func ValidOutcome(s string) bool {
	switch s {
	case OutcomeCompleted, OutcomeInterrupted, OutcomeExtended, OutcomeAbandoned:
		return true
	}
	return false
}

// Session is one focus session row. A nil EndTime means the session is
// still running.
type Session struct {
	ID              int64
	StartTime       time.Time
	EndTime         *time.Time
	PlannedDuration int
	ActualDuration  int
	TaskName        string
	EnergyBefore    int // 0 = not reported
	EnergyAfter     int
	Outcome         string
	Notes           string
}

// Stats summarizes ended sessions since a point in time.
type Stats struct {
	TotalSessions   int
	AvgDuration     float64
	CompletionRate  float64 // percent
	AvgEnergyChange float64
}

// StartSession opens a new session starting at `start`. It refuses to start
// while another session is active; both the transactional check and a
// partial unique index guard the one-active-session invariant.
func (db *DB) StartSession(taskName string, plannedMinutes int, energyBefore int, start time.Time) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRow("SELECT id FROM focus_sessions WHERE end_time IS NULL LIMIT 1").Scan(&existing)
	if err == nil {
		return 0, fmt.Errorf("%w (id %d)", ErrSessionActive, existing)
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking active session: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO focus_sessions (start_time, planned_duration, task_name, energy_before)
		 VALUES (?, ?, ?, ?)`,
		start.UTC().Format(time.RFC3339), plannedMinutes, taskName, nullableInt(energyBefore),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing session: %w", err)
	}
	return id, nil
}

// EndSession closes the session, recording the outcome and the actual
// duration measured against `end`.
func (db *DB) EndSession(id int64, outcome string, energyAfter int, notes string, end time.Time) error {
	if !ValidOutcome(outcome) {
		return fmt.Errorf("invalid outcome %q (want completed, interrupted, extended, or abandoned)", outcome)
	}

	var startStr string
	err := db.QueryRow("SELECT start_time FROM focus_sessions WHERE id = ?", id).Scan(&startStr)
	if err == sql.ErrNoRows {
		return fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return fmt.Errorf("parsing session start time: %w", err)
	}
	actual := int(end.Sub(start).Minutes())

	_, err = db.Exec(
		`UPDATE focus_sessions
		 SET end_time = ?, actual_duration = ?, outcome = ?, energy_after = ?, notes = ?
		 WHERE id = ?`,
		end.UTC().Format(time.RFC3339), actual, outcome, nullableInt(energyAfter), notes, id,
	)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

// ActiveSession returns the running session, or nil when there is none.
func (db *DB) ActiveSession() (*Session, error) {
	row := db.QueryRow(
		`SELECT id, start_time, planned_duration, task_name, energy_before
		 FROM focus_sessions
		 WHERE end_time IS NULL
		 ORDER BY start_time DESC
		 LIMIT 1`,
	)

	var s Session
	var startStr string
	var energy sql.NullInt64
	err := row.Scan(&s.ID, &startStr, &s.PlannedDuration, &s.TaskName, &energy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active session: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, startStr); err == nil {
		s.StartTime = t
	}
	s.EnergyBefore = int(energy.Int64)
	return &s, nil
}

// SessionStats aggregates ended sessions with start_time after `since`.
func (db *DB) SessionStats(since time.Time) (*Stats, error) {
	sinceStr := since.UTC().Format(time.RFC3339)
	stats := &Stats{}

	err := db.QueryRow(
		`SELECT COUNT(*) FROM focus_sessions
		 WHERE end_time IS NOT NULL AND start_time > ?`,
		sinceStr,
	).Scan(&stats.TotalSessions)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	var avgDuration sql.NullFloat64
	err = db.QueryRow(
		`SELECT AVG(actual_duration) FROM focus_sessions
		 WHERE end_time IS NOT NULL
		 AND outcome IN (?, ?)
		 AND start_time > ?`,
		OutcomeCompleted, OutcomeExtended, sinceStr,
	).Scan(&avgDuration)
	if err != nil {
		return nil, fmt.Errorf("averaging durations: %w", err)
	}
	stats.AvgDuration = avgDuration.Float64

	var rate sql.NullFloat64
	err = db.QueryRow(
		`SELECT COUNT(CASE WHEN outcome = ? THEN 1 END) * 100.0 / COUNT(*)
		 FROM focus_sessions
		 WHERE end_time IS NOT NULL AND start_time > ?`,
		OutcomeCompleted, sinceStr,
	).Scan(&rate)
	if err != nil {
		return nil, fmt.Errorf("computing completion rate: %w", err)
	}
	stats.CompletionRate = rate.Float64

	var energyChange sql.NullFloat64
	err = db.QueryRow(
		`SELECT AVG(energy_after - energy_before) FROM focus_sessions
		 WHERE end_time IS NOT NULL
		 AND energy_before IS NOT NULL AND energy_after IS NOT NULL
		 AND start_time > ?`,
		sinceStr,
	).Scan(&energyChange)
	if err != nil {
		return nil, fmt.Errorf("averaging energy change: %w", err)
	}
	stats.AvgEnergyChange = energyChange.Float64

	return stats, nil
}

// nullableInt maps the 0 = "not reported" convention to a SQL NULL.
func nullableInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
