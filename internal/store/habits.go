package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cadence/internal/streak"
)

const dateLayout = "2006-01-02"

// Habit is one tracked habit. A zero LastCompleted means never completed.
type Habit struct {
	ID            int64
	Name          string
	Description   string
	StreakCount   int
	LastCompleted time.Time
	Frequency     streak.Cadence
	Active        bool
}

// LogEntry is one completion record.
type LogEntry struct {
	Timestamp time.Time
	Notes     string
}

// HabitUpdate carries optional field changes for UpdateHabit; nil fields
// are left untouched.
type HabitUpdate struct {
	Name        *string
	Description *string
	Active      *bool
	Frequency   *streak.Cadence
}

// AddHabit creates a habit. Names are unique; a duplicate yields
// ErrDuplicateName.
func (db *DB) AddHabit(name, description string, frequency streak.Cadence) (int64, error) {
	result, err := db.Exec(
		`INSERT INTO habits (name, description, goal_frequency) VALUES (?, ?, ?)`,
		name, description, string(frequency),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("habit %q: %w", name, ErrDuplicateName)
		}
		return 0, fmt.Errorf("inserting habit: %w", err)
	}
	return result.LastInsertId()
}

// GetHabit loads one habit by id.
func (db *DB) GetHabit(id int64) (*Habit, error) {
	return db.scanHabit(db.QueryRow(habitColumns+" WHERE id = ?", id))
}

// GetHabitByName loads one habit by its unique name.
func (db *DB) GetHabitByName(name string) (*Habit, error) {
	return db.scanHabit(db.QueryRow(habitColumns+" WHERE name = ?", name))
}

// ListHabits returns habits sorted by name, active ones first when
// includeInactive is set, active-only otherwise.
func (db *DB) ListHabits(includeInactive bool) ([]Habit, error) {
	query := habitColumns + " WHERE active = 1 ORDER BY name"
	if includeInactive {
		query = habitColumns + " ORDER BY active DESC, name"
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabitRow(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// CompleteHabit records one completion event dated `now`: the log entry and
// the streak transition are applied in a single transaction, so a failure
// leaves neither behind. Daily same-day duplicates surface
// streak.ErrAlreadyCompleted and write nothing.
func (db *DB) CompleteHabit(id int64, notes string, now time.Time) (*Habit, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	h, err := db.scanHabit(tx.QueryRow(habitColumns+" WHERE id = ?", id))
	if err != nil {
		return nil, err
	}

	next, err := streak.Advance(h.Frequency, streak.State{
		Count:         h.StreakCount,
		LastCompleted: h.LastCompleted,
	}, now)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(
		`INSERT INTO habit_log (habit_id, timestamp, notes) VALUES (?, ?, ?)`,
		id, now.UTC().Format(time.RFC3339), notes,
	)
	if err != nil {
		return nil, fmt.Errorf("logging completion: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE habits SET streak_count = ?, last_completed = ? WHERE id = ?`,
		next.Count, next.LastCompleted.Format(dateLayout), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing completion: %w", err)
	}

	h.StreakCount = next.Count
	h.LastCompleted = next.LastCompleted
	return h, nil
}

// UpdateHabit applies the non-nil fields of u.
func (db *DB) UpdateHabit(id int64, u HabitUpdate) error {
	var sets []string
	var args []interface{}

	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, boolToInt(*u.Active))
	}
	if u.Frequency != nil {
		sets = append(sets, "goal_frequency = ?")
		args = append(args, string(*u.Frequency))
	}
	if len(sets) == 0 {
		return fmt.Errorf("no updates specified")
	}

	args = append(args, id)
	result, err := db.Exec("UPDATE habits SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("habit name: %w", ErrDuplicateName)
		}
		return fmt.Errorf("updating habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("habit %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteHabit removes the habit; its log rows go with it (ON DELETE CASCADE).
func (db *DB) DeleteHabit(id int64) error {
	result, err := db.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("habit %d: %w", id, ErrNotFound)
	}
	return nil
}

// History returns completions for a habit with timestamps after `since`,
// newest first.
func (db *DB) History(habitID int64, since time.Time) ([]LogEntry, error) {
	rows, err := db.Query(
		`SELECT timestamp, notes FROM habit_log
		 WHERE habit_id = ? AND timestamp > ?
		 ORDER BY timestamp DESC`,
		habitID, since.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var ts string
		if err := rows.Scan(&ts, &e.Notes); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Timestamp = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LogCount counts completions for a habit.
func (db *DB) LogCount(habitID int64) (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM habit_log WHERE habit_id = ?", habitID).Scan(&n)
	return n, err
}

const habitColumns = `SELECT id, name, description, streak_count, last_completed, goal_frequency, active FROM habits`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (db *DB) scanHabit(row *sql.Row) (*Habit, error) {
	h, err := scanHabitRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("habit: %w", ErrNotFound)
	}
	return h, err
}

func scanHabitRow(row rowScanner) (*Habit, error) {
	var h Habit
	var lastCompleted sql.NullString
	var freq string
	var active int

	err := row.Scan(&h.ID, &h.Name, &h.Description, &h.StreakCount, &lastCompleted, &freq, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}

	h.Frequency = streak.Cadence(freq)
	h.Active = active != 0
	if lastCompleted.Valid && lastCompleted.String != "" {
		if t, err := time.Parse(dateLayout, lastCompleted.String); err == nil {
			h.LastCompleted = t
		}
	}
	return &h, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
