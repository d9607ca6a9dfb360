package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	naturaldate "github.com/tj/go-naturaldate"

	"cadence/internal/calendar"
	"cadence/internal/config"
	"cadence/internal/focus"
	"cadence/internal/notify"
	"cadence/internal/store"
	"cadence/internal/tui"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Scan for focus opportunities and track sessions",
}

var focusScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find calendar gaps big enough for a focus session",
	RunE:  runFocusScan,
}

var focusActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the running focus session",
	RunE:  runFocusActive,
}

var focusStartCmd = &cobra.Command{
	Use:   "start [task]",
	Short: "Start a focus session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFocusStart,
}

var focusEndCmd = &cobra.Command{
	Use:   "end <outcome> [notes...]",
	Short: "End the running focus session (completed, interrupted, extended, or abandoned)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFocusEnd,
}

var focusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show focus session statistics",
	RunE:  runFocusStats,
}

func init() {
	focusScanCmd.Flags().Int("min", 0, "Minimum gap size in minutes (default from config)")
	focusScanCmd.Flags().String("until", "", `End of the lookahead window, e.g. "tomorrow" or "in 6 hours"`)
	focusScanCmd.Flags().Bool("pick", false, "Pick an opportunity interactively and start it")

	focusStartCmd.Flags().Int("minutes", 0, "Planned duration in minutes (default from config)")
	focusStartCmd.Flags().Int("energy", 0, "Energy level before starting (1-10)")

	focusEndCmd.Flags().Int64("id", 0, "Session id (default: the active session)")
	focusEndCmd.Flags().Int("energy", 0, "Energy level after the session (1-10)")

	focusStatsCmd.Flags().String("since", "30 days ago", "Start of the stats window")

	focusCmd.AddCommand(focusScanCmd)
	focusCmd.AddCommand(focusActiveCmd)
	focusCmd.AddCommand(focusStartCmd)
	focusCmd.AddCommand(focusEndCmd)
	focusCmd.AddCommand(focusStatsCmd)
}

// buildProvider selects the calendar source from config. A nil provider
// means no source is configured.
func buildProvider(cfg *config.Config, logger *slog.Logger) calendar.Provider {
	switch cfg.Calendar.Source {
	case "":
		return nil
	case "cli":
		return calendar.NewAgendaCLIProvider(cfg.Calendar.CLICommand, cfg.Calendar.CLIArgs, cfg.Calendar.Account, logger)
	default:
		return &calendar.ICSProvider{Source: cfg.Calendar.Source}
	}
}

// fetchBusy retrieves busy intervals, absorbing provider faults: a failed
// or timed-out fetch degrades to an empty calendar rather than an error.
func fetchBusy(ctx context.Context, provider calendar.Provider, logger *slog.Logger, now, until time.Time) []calendar.Event {
	events, err := provider.Events(ctx, now, until)
	if err != nil {
		logger.Warn("calendar fetch failed, treating as no events", "error", err)
		return nil
	}
	return events
}

func runFocusScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger()
	now := time.Now()

	minMinutes, _ := cmd.Flags().GetInt("min")
	if minMinutes <= 0 {
		minMinutes = cfg.Calendar.MinGapMinutes
	}

	until := now.Add(time.Duration(cfg.Calendar.LookaheadHours) * time.Hour)
	if untilStr, _ := cmd.Flags().GetString("until"); untilStr != "" {
		until, err = naturaldate.Parse(untilStr, now, naturaldate.WithDirection(naturaldate.Future))
		if err != nil {
			return fmt.Errorf("parsing --until: %w", err)
		}
	}

	provider := buildProvider(cfg, logger)
	if provider == nil {
		fmt.Println("No calendar source configured — run 'cadence config' to set one up.")
		return nil
	}

	busy := fetchBusy(cmd.Context(), provider, logger, now, until)
	logger.Debug("calendar fetched", "events", len(busy), "until", until)

	gaps := focus.FindGaps(busy, now, minMinutes)
	proposals := make([]focus.Proposal, 0, len(gaps))
	for _, g := range gaps {
		proposals = append(proposals, focus.Propose(g, "", 0))
	}

	if len(proposals) == 0 {
		fmt.Printf("No focus opportunities found (need %d+ min gaps).\n", minMinutes)
		return nil
	}

	fmt.Println("\n=== Focus Opportunities ===")
	for i, p := range proposals {
		fmt.Printf("\n[%d] %d min available\n", i+1, p.Minutes)
		fmt.Printf("    %s to %s\n", p.Start.Local().Format("15:04"), p.End.Local().Format("15:04"))
		fmt.Printf("    Suggested: %s\n", p.SuggestedTimer)
		if p.After != "" {
			fmt.Printf("    After: %s\n", p.After)
		}
		if p.Before != "" {
			fmt.Printf("    Before: %s\n", p.Before)
		}
	}

	if pick, _ := cmd.Flags().GetBool("pick"); pick {
		return pickAndStart(cfg, logger, proposals, now)
	}

	return nil
}

func pickAndStart(cfg *config.Config, logger *slog.Logger, proposals []focus.Proposal, now time.Time) error {
	app := tui.NewGapPickerApp(proposals)
	if _, err := tea.NewProgram(app).Run(); err != nil {
		return fmt.Errorf("running picker: %w", err)
	}

	result := app.GetResult()
	if result == nil || result.Canceled {
		fmt.Println("Canceled.")
		return nil
	}

	chosen := proposals[result.Index]
	return startSession(cfg, logger, result.TaskName, focus.TimerMinutes(chosen.Minutes), 0, now)
}

func runFocusActive(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := db.ActiveSession()
	if err != nil {
		return fmt.Errorf("fetching active session: %w", err)
	}
	if session == nil {
		fmt.Println("No active focus session.")
		return nil
	}

	elapsed := int(time.Since(session.StartTime).Minutes())
	fmt.Println("\n=== Active Focus Session ===")
	fmt.Printf("ID: %d\n", session.ID)
	fmt.Printf("Task: %s\n", session.TaskName)
	fmt.Printf("Started: %s\n", session.StartTime.Local().Format("15:04"))
	fmt.Printf("Elapsed: %d min / %d min planned\n", elapsed, session.PlannedDuration)
	return nil
}

func runFocusStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger()

	taskName := ""
	if len(args) > 0 {
		taskName = args[0]
	}

	minutes, _ := cmd.Flags().GetInt("minutes")
	if minutes <= 0 {
		minutes = cfg.Focus.DefaultTimerMinutes
	}
	energy, _ := cmd.Flags().GetInt("energy")

	return startSession(cfg, logger, taskName, minutes, energy, time.Now())
}

func startSession(cfg *config.Config, logger *slog.Logger, taskName string, minutes, energy int, now time.Time) error {
	if taskName == "" {
		taskName = focus.DefaultTaskName
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.StartSession(taskName, minutes, energy, now)
	if err != nil {
		if errors.Is(err, store.ErrSessionActive) {
			fmt.Println("A focus session is already active — end it first with 'cadence focus end'.")
			return nil
		}
		return fmt.Errorf("starting session: %w", err)
	}

	fmt.Printf("Focus session started (ID: %d): %s, %d min planned.\n", id, taskName, minutes)

	n := &notify.Notifier{Enabled: cfg.Notifications.Enabled}
	if err := n.Send("cadence", fmt.Sprintf("Focus session started — %d min on %s", minutes, taskName)); err != nil {
		logger.Warn("notification failed", "error", err)
	}
	return nil
}

func runFocusEnd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	outcome := args[0]
	notes := strings.Join(args[1:], " ")
	energy, _ := cmd.Flags().GetInt("energy")

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	id, _ := cmd.Flags().GetInt64("id")
	if id == 0 {
		session, err := db.ActiveSession()
		if err != nil {
			return fmt.Errorf("fetching active session: %w", err)
		}
		if session == nil {
			fmt.Println("No active focus session to end.")
			return nil
		}
		id = session.ID
	}

	if err := db.EndSession(id, outcome, energy, notes, time.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("Session %d not found.\n", id)
			return nil
		}
		return fmt.Errorf("ending session: %w", err)
	}

	fmt.Printf("Session %d ended (%s).\n", id, outcome)
	return nil
}

func runFocusStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	now := time.Now()
	sinceStr, _ := cmd.Flags().GetString("since")
	since, err := naturaldate.Parse(sinceStr, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return fmt.Errorf("parsing --since: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.SessionStats(since)
	if err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}

	fmt.Printf("\n=== Focus Session Stats (since %s) ===\n", since.Local().Format("2006-01-02"))
	fmt.Printf("Total sessions: %d\n", stats.TotalSessions)
	fmt.Printf("Avg duration: %.1f min\n", stats.AvgDuration)
	fmt.Printf("Completion rate: %.1f%%\n", stats.CompletionRate)
	fmt.Printf("Avg energy change: %+.2f\n", stats.AvgEnergyChange)
	return nil
}
