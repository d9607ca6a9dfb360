package focus

import (
	"testing"
)

func TestSuggestTimerTiers(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{300, "120 min (deep work block)"},
		{240, "120 min (deep work block)"},             // boundary inclusive at 240
		{239, "90 min (3 pomodoros + long break)"},     // exclusive below
		{180, "90 min (3 pomodoros + long break)"},
		{179, "90 min (focus block)"},
		{120, "90 min (focus block)"},
		{119, "104 min (focus session)"},
		{60, "45 min (focus session)"},
	}

	for _, tt := range tests {
		if got := SuggestTimer(tt.minutes); got != tt.want {
			t.Errorf("SuggestTimer(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestSuggestTimerSmallGapClamp(t *testing.T) {
	// The 15-minute transition buffer would drive tiny gaps to a zero or
	// negative timer; those fall back to the full gap length instead.
	tests := []struct {
		minutes int
		want    string
	}{
		{16, "1 min (focus session)"},
		{15, "15 min (focus session)"},
		{10, "10 min (focus session)"},
	}

	for _, tt := range tests {
		if got := SuggestTimer(tt.minutes); got != tt.want {
			t.Errorf("SuggestTimer(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestPropose(t *testing.T) {
	g := Gap{
		Start:   at(9, 0),
		End:     at(12, 0),
		Minutes: 180,
		After:   "Standup",
		Before:  "Lunch",
	}

	p := Propose(g, "write report", 7)
	if p.TaskName != "write report" {
		t.Errorf("Expected task name preserved, got %q", p.TaskName)
	}
	if p.Energy != 7 {
		t.Errorf("Expected energy 7, got %d", p.Energy)
	}
	if p.SuggestedTimer != "90 min (3 pomodoros + long break)" {
		t.Errorf("Unexpected timer suggestion %q", p.SuggestedTimer)
	}
	if p.After != "Standup" || p.Before != "Lunch" {
		t.Errorf("Context lost: %q / %q", p.After, p.Before)
	}
}

func TestProposeDefaultTaskName(t *testing.T) {
	p := Propose(Gap{Start: at(9, 0), End: at(11, 0), Minutes: 120}, "", 0)
	if p.TaskName != DefaultTaskName {
		t.Errorf("Expected placeholder task name, got %q", p.TaskName)
	}
	if p.Energy != 0 {
		t.Errorf("Expected unset energy, got %d", p.Energy)
	}
}

func TestProposeIsPure(t *testing.T) {
	g := Gap{Start: at(9, 0), End: at(13, 0), Minutes: 240}

	a := Propose(g, "deep work", 5)
	b := Propose(g, "deep work", 5)
	if a != b {
		t.Errorf("Same gap produced different proposals: %+v vs %+v", a, b)
	}
}
