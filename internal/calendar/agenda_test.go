package calendar

import (
	"testing"
	"time"
)

var (
	testNow   = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	testUntil = testNow.Add(12 * time.Hour)
)

func TestParseAgenda(t *testing.T) {
	data := []byte(`{
		"items": [
			{"start": {"dateTime": "2025-03-10T14:00:00Z"}, "end": {"dateTime": "2025-03-10T15:00:00Z"}, "summary": "Standup"},
			{"start": {"dateTime": "2025-03-10T10:00:00Z"}, "end": {"dateTime": "2025-03-10T11:30:00Z"}, "summary": "Planning"},
			{"summary": "All-day thing with no start"},
			{"start": {"dateTime": "2025-03-10T16:00:00Z"}, "summary": "No end given"}
		]
	}`)

	events, err := ParseAgenda(data, testNow, testUntil)
	if err != nil {
		t.Fatalf("ParseAgenda failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}

	// Sorted ascending by start.
	if events[0].Summary != "Planning" || events[1].Summary != "Standup" {
		t.Errorf("Events not sorted by start: %q, %q", events[0].Summary, events[1].Summary)
	}

	// Missing end defaults to start+1h.
	noEnd := events[2]
	if noEnd.Summary != "No end given" {
		t.Fatalf("Expected 'No end given' last, got %q", noEnd.Summary)
	}
	if want := noEnd.StartTime.Add(time.Hour); !noEnd.EndTime.Equal(want) {
		t.Errorf("Expected default end %v, got %v", want, noEnd.EndTime)
	}
}

func TestParseAgendaFiltersWindow(t *testing.T) {
	data := []byte(`{
		"items": [
			{"start": {"dateTime": "2025-03-10T07:00:00Z"}, "end": {"dateTime": "2025-03-10T08:00:00Z"}, "summary": "Already over"},
			{"start": {"dateTime": "2025-03-10T08:30:00Z"}, "end": {"dateTime": "2025-03-10T09:30:00Z"}, "summary": "In progress"},
			{"start": {"dateTime": "2025-03-11T08:00:00Z"}, "end": {"dateTime": "2025-03-11T09:00:00Z"}, "summary": "Beyond window"}
		]
	}`)

	events, err := ParseAgenda(data, testNow, testUntil)
	if err != nil {
		t.Fatalf("ParseAgenda failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event inside window, got %d", len(events))
	}
	if events[0].Summary != "In progress" {
		t.Errorf("Expected the in-progress event, got %q", events[0].Summary)
	}
}

func TestParseAgendaMalformedJSON(t *testing.T) {
	if _, err := ParseAgenda([]byte("not json at all"), testNow, testUntil); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestParseAgendaSkipsBadTimestamps(t *testing.T) {
	data := []byte(`{"items": [{"start": {"dateTime": "yesterday-ish"}, "summary": "Broken"}]}`)

	events, err := ParseAgenda(data, testNow, testUntil)
	if err != nil {
		t.Fatalf("ParseAgenda failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected unparseable item to be skipped, got %d events", len(events))
	}
}
