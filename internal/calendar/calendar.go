// Package calendar is the busy-interval boundary: it fetches upcoming
// events from an external source and normalizes them into a sorted list
// for gap detection. Source failures are reported to the caller, which is
// expected to treat them as "no events" rather than escalate.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
)

// Event represents one busy calendar block. StartTime is strictly before
// EndTime for every event a provider returns.
type Event struct {
	Summary   string
	StartTime time.Time
	EndTime   time.Time
}

// Provider fetches busy events overlapping the window (now, until),
// sorted ascending by start time.
type Provider interface {
	Events(ctx context.Context, now, until time.Time) ([]Event, error)
}

// ICSProvider reads events from an iCalendar URL or file path.
type ICSProvider struct {
	Source string
}

func (p *ICSProvider) Events(ctx context.Context, now, until time.Time) ([]Event, error) {
	var r io.ReadCloser

	if strings.HasPrefix(p.Source, "http://") || strings.HasPrefix(p.Source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(p.Source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(nil)
			if err != nil {
				continue // skip malformed events
			}
			end, err := event.DateTimeEnd(nil)
			if err != nil {
				continue
			}

			if overlapsWindow(start, end, now, until) {
				summary, _ := event.Props.Text(ical.PropSummary)
				if summary == "" {
					summary = "No title"
				}
				events = append(events, Event{
					Summary:   summary,
					StartTime: start,
					EndTime:   end,
				})
			}
		}
	}

	SortByStart(events)
	return events, nil
}

// overlapsWindow keeps events still in progress and events starting before
// the lookahead limit.
func overlapsWindow(start, end, now, until time.Time) bool {
	return !start.After(until) && end.After(now)
}

// SortByStart orders events ascending by start time, the precondition the
// gap finder relies on.
func SortByStart(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
}
