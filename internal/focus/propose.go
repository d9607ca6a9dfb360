package focus

import (
	"fmt"
	"time"
)

// DefaultTaskName is the placeholder used until the user names the task.
const DefaultTaskName = "TBD"

// Proposal is a suggested focus session for one gap. Energy is 1-10 when
// set, 0 when the user didn't report one; it is passed through unvalidated.
type Proposal struct {
	Start          time.Time
	End            time.Time
	Minutes        int
	SuggestedTimer string
	TaskName       string
	Energy         int
	After          string
	Before         string
}

// Propose maps a gap to a session proposal. Pure: no clock, no store.
func Propose(g Gap, taskName string, energy int) Proposal {
	if taskName == "" {
		taskName = DefaultTaskName
	}
	return Proposal{
		Start:          g.Start,
		End:            g.End,
		Minutes:        g.Minutes,
		SuggestedTimer: SuggestTimer(g.Minutes),
		TaskName:       taskName,
		Energy:         energy,
		After:          g.After,
		Before:         g.Before,
	}
}

// SuggestTimer picks a timer length for a gap of the given size. Tiers are
// evaluated top-down, first match wins; the 240 boundary is inclusive.
func SuggestTimer(minutes int) string {
	m, label := timerTier(minutes)
	return fmt.Sprintf("%d min (%s)", m, label)
}

// TimerMinutes is the numeric part of SuggestTimer, for callers that start
// a session from a proposal.
func TimerMinutes(minutes int) int {
	m, _ := timerTier(minutes)
	return m
}

// timerTier maps gap size to timer length. Below the fixed tiers a
// 15-minute transition buffer is subtracted; when the gap is too small for
// the buffer the full gap length is used instead of a zero or negative
// timer.
func timerTier(minutes int) (int, string) {
	switch {
	case minutes >= 240:
		return 120, "deep work block"
	case minutes >= 180:
		return 90, "3 pomodoros + long break"
	case minutes >= 120:
		return 90, "focus block"
	default:
		m := minutes - 15
		if m <= 0 {
			m = minutes
		}
		return m, "focus session"
	}
}
