package store

import (
	"errors"
	"testing"
	"time"
)

var sessionStart = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func TestStartAndEndSession(t *testing.T) {
	db := newTestDB(t)

	id, err := db.StartSession("write report", 90, 7, sessionStart)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	active, err := db.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active == nil {
		t.Fatal("Expected an active session")
	}
	if active.ID != id || active.TaskName != "write report" {
		t.Errorf("Unexpected active session: %+v", active)
	}
	if active.PlannedDuration != 90 || active.EnergyBefore != 7 {
		t.Errorf("Session fields lost: %+v", active)
	}

	end := sessionStart.Add(85 * time.Minute)
	if err := db.EndSession(id, OutcomeCompleted, 5, "went well", end); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	active, err = db.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active != nil {
		t.Errorf("Expected no active session after ending, got %+v", active)
	}
}

func TestStartSessionRefusesSecondActive(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.StartSession("first", 90, 0, sessionStart); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	_, err := db.StartSession("second", 60, 0, sessionStart.Add(time.Minute))
	if !errors.Is(err, ErrSessionActive) {
		t.Fatalf("Expected ErrSessionActive, got %v", err)
	}
}

func TestEndSessionNotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.EndSession(123, OutcomeCompleted, 0, "", sessionStart)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestEndSessionRejectsInvalidOutcome(t *testing.T) {
	db := newTestDB(t)

	id, _ := db.StartSession("task", 90, 0, sessionStart)
	if err := db.EndSession(id, "gave-up-ish", 0, "", sessionStart.Add(time.Hour)); err == nil {
		t.Error("Expected error for invalid outcome")
	}
}

func TestActiveSessionNoneRunning(t *testing.T) {
	db := newTestDB(t)

	active, err := db.ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession failed: %v", err)
	}
	if active != nil {
		t.Errorf("Expected nil, got %+v", active)
	}
}

func TestSessionStats(t *testing.T) {
	db := newTestDB(t)

	// Two completed sessions and one abandoned, run back to back.
	runSession := func(task string, minutes int, outcome string, before, after int, start time.Time) {
		t.Helper()
		id, err := db.StartSession(task, minutes, before, start)
		if err != nil {
			t.Fatalf("StartSession failed: %v", err)
		}
		if err := db.EndSession(id, outcome, after, "", start.Add(time.Duration(minutes)*time.Minute)); err != nil {
			t.Fatalf("EndSession failed: %v", err)
		}
	}

	runSession("a", 60, OutcomeCompleted, 4, 6, sessionStart)
	runSession("b", 120, OutcomeCompleted, 6, 8, sessionStart.Add(3*time.Hour))
	runSession("c", 30, OutcomeAbandoned, 5, 3, sessionStart.Add(7*time.Hour))

	stats, err := db.SessionStats(sessionStart.Add(-time.Hour))
	if err != nil {
		t.Fatalf("SessionStats failed: %v", err)
	}

	if stats.TotalSessions != 3 {
		t.Errorf("Expected 3 sessions, got %d", stats.TotalSessions)
	}
	if stats.AvgDuration != 90 {
		t.Errorf("Expected avg duration 90 over completed sessions, got %.1f", stats.AvgDuration)
	}
	if stats.CompletionRate < 66 || stats.CompletionRate > 67 {
		t.Errorf("Expected completion rate ~66.7%%, got %.1f", stats.CompletionRate)
	}
	if stats.AvgEnergyChange != (2+2-2)/3.0 {
		t.Errorf("Expected avg energy change %.2f, got %.2f", (2+2-2)/3.0, stats.AvgEnergyChange)
	}
}

func TestSessionStatsWindowExcludesOldSessions(t *testing.T) {
	db := newTestDB(t)

	id, _ := db.StartSession("old", 60, 0, sessionStart)
	db.EndSession(id, OutcomeCompleted, 0, "", sessionStart.Add(time.Hour))

	stats, err := db.SessionStats(sessionStart.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("SessionStats failed: %v", err)
	}
	if stats.TotalSessions != 0 {
		t.Errorf("Expected session outside the window to be excluded, got %d", stats.TotalSessions)
	}
}
