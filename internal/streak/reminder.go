package streak

import (
	"fmt"
	"time"
)

// Reminder is a gentle nudge for a daily habit that hasn't been completed
// today. The tone is deliberately non-shaming at every tier.
type Reminder struct {
	HabitID   int64
	Name      string
	Streak    int
	DaysSince int // meaningless when Completed is false
	Completed bool
	Message   string
}

// ReminderFor builds the reminder for one habit snapshot, or returns false
// when no reminder is due (already completed today). It is a pure function
// of its inputs; callers are expected to pre-filter to active daily habits.
func ReminderFor(id int64, name string, streak int, last, today time.Time) (Reminder, bool) {
	days, completed := DaysSince(last, today)
	if completed && days == 0 {
		return Reminder{}, false
	}
	return Reminder{
		HabitID:   id,
		Name:      name,
		Streak:    streak,
		DaysSince: days,
		Completed: completed,
		Message:   reminderMessage(name, streak, days, completed),
	}, true
}

// reminderMessage picks the message tier from days-since and streak count.
func reminderMessage(name string, streak, daysSince int, everCompleted bool) string {
	switch {
	case !everCompleted:
		return fmt.Sprintf("Ready to start '%s'? First step is the hardest!", name)
	case daysSince == 1:
		if streak > 1 {
			return fmt.Sprintf("'%s' - keep that %d-day streak going! 🔥", name, streak)
		}
		return fmt.Sprintf("Time for '%s' - you've got this!", name)
	case daysSince == 2:
		return fmt.Sprintf("'%s' - no worries, just pick it back up when ready.", name)
	case daysSince <= 7:
		return fmt.Sprintf("'%s' - when you're ready to jump back in.", name)
	default:
		return fmt.Sprintf("'%s' - waiting for you when inspiration strikes.", name)
	}
}
