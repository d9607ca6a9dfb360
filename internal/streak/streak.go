// Package streak holds the habit streak state machine and the reminder
// message tiers. Everything here is pure: callers pass the completion
// date in, nothing reads the wall clock or touches the database.
package streak

import (
	"errors"
	"fmt"
	"time"
)

// ErrAlreadyCompleted is returned when a daily habit is completed a second
// time on the same calendar day. The completion must not be logged.
var ErrAlreadyCompleted = errors.New("habit already completed today")

// Cadence is how often a habit is meant to be completed.
type Cadence string

const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
)

func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case Daily, Weekly, Monthly:
		return Cadence(s), nil
	}
	return "", fmt.Errorf("invalid frequency %q (want daily, weekly, or monthly)", s)
}

// State is a habit's streak position: the consecutive-period count and the
// date of the most recent completion. A zero LastCompleted means the habit
// has never been completed.
type State struct {
	Count         int
	LastCompleted time.Time
}

// Never reports whether the habit has never been completed.
func (s State) Never() bool {
	return s.LastCompleted.IsZero()
}

// Advance applies one completion event dated today and returns the new
// state. For daily habits: a first completion seeds the streak at 1, a
// completion the day after the last one extends it, anything older resets
// it to 1, and a second completion on the same day is refused with
// ErrAlreadyCompleted.
//
// Weekly and monthly habits only refresh LastCompleted; consecutive-period
// streaks are not tracked for those cadences and duplicate completions
// within a period are accepted.
func Advance(c Cadence, s State, today time.Time) (State, error) {
	today = DateOf(today)

	if c != Daily {
		s.LastCompleted = today
		return s, nil
	}

	if s.Never() {
		return State{Count: 1, LastCompleted: today}, nil
	}

	last := DateOf(s.LastCompleted)
	switch {
	case last.Equal(today):
		return s, ErrAlreadyCompleted
	case last.Equal(today.AddDate(0, 0, -1)):
		return State{Count: s.Count + 1, LastCompleted: today}, nil
	default:
		return State{Count: 1, LastCompleted: today}, nil
	}
}

// DaysSince returns the number of calendar days between the last completion
// and today. The second return is false when the habit was never completed.
func DaysSince(last, today time.Time) (int, bool) {
	if last.IsZero() {
		return 0, false
	}
	days := int(DateOf(today).Sub(DateOf(last)).Hours() / 24)
	return days, true
}

// DateOf truncates an instant to its calendar date (midnight UTC), so that
// streak arithmetic compares dates rather than instants.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
