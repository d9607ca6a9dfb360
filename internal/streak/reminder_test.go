package streak

import (
	"strings"
	"testing"
	"time"
)

func TestReminderSkippedWhenCompletedToday(t *testing.T) {
	today := date(2025, time.March, 10)

	if _, ok := ReminderFor(1, "exercise", 3, today, today); ok {
		t.Error("Expected no reminder for a habit completed today")
	}
}

func TestReminderTiers(t *testing.T) {
	today := date(2025, time.March, 10)

	tests := []struct {
		name    string
		streak  int
		last    time.Time
		days    int
		contain string
	}{
		{"never completed", 0, time.Time{}, 0, "First step is the hardest"},
		{"streak continuation", 5, today.AddDate(0, 0, -1), 1, "keep that 5-day streak going"},
		{"one day no streak", 1, today.AddDate(0, 0, -1), 1, "you've got this"},
		{"missed one day", 4, today.AddDate(0, 0, -2), 2, "no worries"},
		{"missed a few days", 4, today.AddDate(0, 0, -5), 5, "jump back in"},
		{"seven days out", 4, today.AddDate(0, 0, -7), 7, "jump back in"},
		{"long break", 5, today.AddDate(0, 0, -10), 10, "waiting for you"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := ReminderFor(7, "exercise", tt.streak, tt.last, today)
			if !ok {
				t.Fatal("Expected a reminder")
			}
			if !strings.Contains(r.Message, tt.contain) {
				t.Errorf("Message %q does not contain %q", r.Message, tt.contain)
			}
			if r.DaysSince != tt.days {
				t.Errorf("Expected days since %d, got %d", tt.days, r.DaysSince)
			}
			if r.HabitID != 7 || r.Name != "exercise" {
				t.Errorf("Reminder lost identity: %+v", r)
			}
		})
	}
}

func TestReminderIsDeterministic(t *testing.T) {
	today := date(2025, time.March, 10)
	last := today.AddDate(0, 0, -1)

	a, okA := ReminderFor(1, "journal", 5, last, today)
	b, okB := ReminderFor(1, "journal", 5, last, today)
	if !okA || !okB {
		t.Fatal("Expected reminders from both calls")
	}
	if a != b {
		t.Errorf("Same inputs produced different reminders: %+v vs %+v", a, b)
	}
}
