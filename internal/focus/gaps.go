// Package focus turns busy calendar blocks into focus-session proposals:
// gap detection over a sorted interval list, and a tiered timer policy.
package focus

import (
	"time"

	"cadence/internal/calendar"
)

// Gap is a contiguous free interval between busy blocks, or between now
// and the first block. After/Before name the surrounding events when they
// exist.
type Gap struct {
	Start   time.Time
	End     time.Time
	Minutes int
	After   string
	Before  string
}

// FindGaps scans busy blocks for free intervals of at least minMinutes.
//
// Precondition: busy is sorted ascending by start time (providers return
// it that way); behavior is undefined for unsorted input. Overlapping or
// touching neighbors produce no gap. No gap is emitted after the last
// block: the lookahead window is a fetch limit, not free time. An empty
// busy list yields no gaps; no calendar data is not the same as a free
// calendar, so callers wanting "whole window free" must decide that
// themselves.
func FindGaps(busy []calendar.Event, now time.Time, minMinutes int) []Gap {
	if len(busy) == 0 {
		return nil
	}

	var gaps []Gap

	// Gap from now to the first block.
	if first := busy[0]; first.StartTime.After(now) {
		if g, ok := makeGap(now, first.StartTime, minMinutes); ok {
			g.Before = first.Summary
			gaps = append(gaps, g)
		}
	}

	// Gaps between adjacent blocks.
	for i := 0; i < len(busy)-1; i++ {
		if g, ok := makeGap(busy[i].EndTime, busy[i+1].StartTime, minMinutes); ok {
			g.After = busy[i].Summary
			g.Before = busy[i+1].Summary
			gaps = append(gaps, g)
		}
	}

	return gaps
}

func makeGap(start, end time.Time, minMinutes int) (Gap, bool) {
	if !end.After(start) {
		return Gap{}, false
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes < minMinutes {
		return Gap{}, false
	}
	return Gap{Start: start, End: end, Minutes: minutes}, true
}
