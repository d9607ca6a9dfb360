// Package store persists focus sessions and habits in a local SQLite
// database. Operations take the current instant as an argument instead of
// reading the wall clock, so tests can drive them with a fixed date.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound means the referenced session or habit does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName means a habit with that name already exists.
	ErrDuplicateName = errors.New("habit name already exists")
	// ErrSessionActive means a focus session is already running.
	ErrSessionActive = errors.New("a focus session is already active")
)

type DB struct {
	*sql.DB
}

// DefaultPath returns ~/.config/cadence/cadence.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "cadence", "cadence.db"), nil
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store := &DB{db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS focus_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			start_time DATETIME NOT NULL,
			end_time DATETIME,
			planned_duration INTEGER NOT NULL,
			actual_duration INTEGER,
			task_name TEXT NOT NULL,
			energy_before INTEGER,
			energy_after INTEGER,
			outcome TEXT,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		// At most one session may be open at a time.
		`CREATE UNIQUE INDEX IF NOT EXISTS focus_sessions_single_active
			ON focus_sessions ((1)) WHERE end_time IS NULL`,
		`CREATE TABLE IF NOT EXISTS habits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			streak_count INTEGER NOT NULL DEFAULT 0,
			last_completed DATE,
			goal_frequency TEXT NOT NULL DEFAULT 'daily',
			active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS habit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			habit_id INTEGER NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			timestamp DATETIME NOT NULL,
			notes TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	return nil
}
