package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// fetchTimeout is the fixed ceiling for one agenda CLI invocation. A call
// that runs past it is treated as failed.
const fetchTimeout = 30 * time.Second

// AgendaCLIProvider shells out to an agenda tool (e.g. gog) that prints
// calendar events as JSON on stdout:
//
//	{"items": [{"start": {"dateTime": "..."}, "end": {"dateTime": "..."}, "summary": "..."}]}
type AgendaCLIProvider struct {
	Command string   // binary name, e.g. "gog"
	Args    []string // leading args, e.g. ["calendar", "events", "primary"]
	Account string   // appended as --account when set
	logger  *slog.Logger
}

func NewAgendaCLIProvider(command string, args []string, account string, logger *slog.Logger) *AgendaCLIProvider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AgendaCLIProvider{Command: command, Args: args, Account: account, logger: logger}
}

// agendaItem mirrors the CLI's JSON output. Start/end may be absent for
// all-day or malformed items.
type agendaItem struct {
	Start struct {
		DateTime string `json:"dateTime"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
	} `json:"end"`
	Summary string `json:"summary"`
}

type agendaResponse struct {
	Items []agendaItem `json:"items"`
}

func (p *AgendaCLIProvider) Events(ctx context.Context, now, until time.Time) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	args := append([]string{}, p.Args...)
	args = append(args, "--from", "today", "--to", "+2d")
	if p.Account != "" {
		args = append(args, "--account", p.Account)
	}

	cmd := exec.CommandContext(ctx, p.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	startTime := time.Now()
	err := cmd.Run()
	elapsed := time.Since(startTime)

	p.logger.Debug("agenda CLI finished",
		"command", p.Command,
		"elapsed", elapsed,
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
		"error", err,
	)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("agenda CLI timed out after %s", elapsed.Truncate(time.Second))
		}
		return nil, fmt.Errorf("running agenda CLI: %w (stderr: %s)", err, stderr.String())
	}

	return ParseAgenda(stdout.Bytes(), now, until)
}

// ParseAgenda decodes the CLI's JSON and filters items to the window.
// Items with no start are skipped; a missing end defaults to one hour
// after the start. Timestamps are RFC 3339 ('Z' suffix included).
func ParseAgenda(data []byte, now, until time.Time) ([]Event, error) {
	var resp agendaResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing agenda output: %w", err)
	}

	var events []Event
	for _, item := range resp.Items {
		if item.Start.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}

		end := start.Add(time.Hour)
		if item.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				end = t
			}
		}

		if !overlapsWindow(start, end, now, until) {
			continue
		}

		summary := item.Summary
		if summary == "" {
			summary = "No title"
		}
		events = append(events, Event{Summary: summary, StartTime: start, EndTime: end})
	}

	SortByStart(events)
	return events, nil
}
