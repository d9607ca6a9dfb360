package streak

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceDailyFirstCompletion(t *testing.T) {
	today := date(2025, time.March, 10)

	next, err := Advance(Daily, State{}, today)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.Count != 1 {
		t.Errorf("Expected streak 1, got %d", next.Count)
	}
	if !next.LastCompleted.Equal(today) {
		t.Errorf("Expected last completed %v, got %v", today, next.LastCompleted)
	}
}

func TestAdvanceDailyContinues(t *testing.T) {
	s := State{Count: 4, LastCompleted: date(2025, time.March, 9)}

	next, err := Advance(Daily, s, date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.Count != 5 {
		t.Errorf("Expected streak 5, got %d", next.Count)
	}
}

func TestAdvanceDailyResetsAfterGap(t *testing.T) {
	s := State{Count: 7, LastCompleted: date(2025, time.March, 7)}

	next, err := Advance(Daily, s, date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.Count != 1 {
		t.Errorf("Expected streak reset to 1, got %d", next.Count)
	}
	if !next.LastCompleted.Equal(date(2025, time.March, 10)) {
		t.Errorf("Expected last completed to move to today, got %v", next.LastCompleted)
	}
}

func TestAdvanceDailyRejectsSameDay(t *testing.T) {
	today := date(2025, time.March, 10)
	s := State{Count: 3, LastCompleted: today}

	next, err := Advance(Daily, s, today)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("Expected ErrAlreadyCompleted, got %v", err)
	}
	if next.Count != 3 {
		t.Errorf("State should be unchanged on rejection, got count %d", next.Count)
	}

	// Rejection is idempotent: a third attempt fails identically.
	if _, err := Advance(Daily, s, today); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("Expected ErrAlreadyCompleted on repeat, got %v", err)
	}
}

func TestAdvanceDailyIgnoresTimeOfDay(t *testing.T) {
	s := State{Count: 1, LastCompleted: date(2025, time.March, 9)}
	lateEvening := time.Date(2025, time.March, 10, 23, 45, 0, 0, time.UTC)

	next, err := Advance(Daily, s, lateEvening)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if next.Count != 2 {
		t.Errorf("Expected streak 2, got %d", next.Count)
	}
	if !next.LastCompleted.Equal(date(2025, time.March, 10)) {
		t.Errorf("Expected date-truncated last completed, got %v", next.LastCompleted)
	}
}

func TestAdvanceConsecutiveDays(t *testing.T) {
	// Complete on D, D+1, then skip to D+3.
	d := date(2025, time.June, 1)

	s, err := Advance(Daily, State{}, d)
	if err != nil {
		t.Fatalf("Day 1 failed: %v", err)
	}
	s, err = Advance(Daily, s, d.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("Day 2 failed: %v", err)
	}
	if s.Count != 2 {
		t.Fatalf("Expected streak 2 after two consecutive days, got %d", s.Count)
	}

	s, err = Advance(Daily, s, d.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("Day 4 failed: %v", err)
	}
	if s.Count != 1 {
		t.Errorf("Expected streak reset to 1 after skipped day, got %d", s.Count)
	}
	if !s.LastCompleted.Equal(d.AddDate(0, 0, 3)) {
		t.Errorf("Expected last completed D+3, got %v", s.LastCompleted)
	}
}

func TestAdvanceWeeklyMonthlyOnlyRefreshDate(t *testing.T) {
	today := date(2025, time.March, 10)

	for _, c := range []Cadence{Weekly, Monthly} {
		s := State{Count: 6, LastCompleted: today}

		// Same-day completion is accepted and the count never moves.
		next, err := Advance(c, s, today)
		if err != nil {
			t.Fatalf("%s Advance failed: %v", c, err)
		}
		if next.Count != 6 {
			t.Errorf("%s: count should be untouched, got %d", c, next.Count)
		}
		if !next.LastCompleted.Equal(today) {
			t.Errorf("%s: expected last completed today, got %v", c, next.LastCompleted)
		}

		// A long gap does not reset either.
		next, err = Advance(c, s, today.AddDate(0, 1, 0))
		if err != nil {
			t.Fatalf("%s Advance failed: %v", c, err)
		}
		if next.Count != 6 {
			t.Errorf("%s: count should survive a gap, got %d", c, next.Count)
		}
	}
}

func TestDaysSince(t *testing.T) {
	today := date(2025, time.March, 10)

	if _, ok := DaysSince(time.Time{}, today); ok {
		t.Error("Expected no days-since for a never-completed habit")
	}

	days, ok := DaysSince(date(2025, time.March, 7), today)
	if !ok || days != 3 {
		t.Errorf("Expected 3 days since, got %d (ok=%v)", days, ok)
	}

	days, ok = DaysSince(today, today)
	if !ok || days != 0 {
		t.Errorf("Expected 0 days since, got %d (ok=%v)", days, ok)
	}
}

func TestParseCadence(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly"} {
		if _, err := ParseCadence(valid); err != nil {
			t.Errorf("ParseCadence(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseCadence("hourly"); err == nil {
		t.Error("Expected error for invalid cadence")
	}
}
