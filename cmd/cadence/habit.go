package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	naturaldate "github.com/tj/go-naturaldate"

	"cadence/internal/config"
	"cadence/internal/notify"
	"cadence/internal/store"
	"cadence/internal/streak"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Track habits and streaks",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit to track",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitAdd,
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	RunE:  runHabitList,
}

var habitCompleteCmd = &cobra.Command{
	Use:   "complete <id|name> [notes...]",
	Short: "Log a habit completion",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHabitComplete,
}

var habitRemindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Show gentle reminders for daily habits",
	RunE:  runHabitReminders,
}

var habitStatusCmd = &cobra.Command{
	Use:   "status <id|name>",
	Short: "Show detailed habit status",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitStatus,
}

var habitHistoryCmd = &cobra.Command{
	Use:   "history <id|name>",
	Short: "Show completion history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitHistory,
}

var habitActivateCmd = &cobra.Command{
	Use:   "activate <id|name>",
	Short: "Reactivate a habit",
	Args:  cobra.ExactArgs(1),
	RunE:  makeSetActive(true),
}

var habitDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id|name>",
	Short: "Pause a habit without losing its history",
	Args:  cobra.ExactArgs(1),
	RunE:  makeSetActive(false),
}

var habitDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a habit and its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitDelete,
}

func init() {
	habitAddCmd.Flags().String("freq", "daily", "Goal frequency: daily, weekly, or monthly")
	habitAddCmd.Flags().String("desc", "", "Habit description")

	habitListCmd.Flags().Bool("all", false, "Include inactive habits")

	habitRemindersCmd.Flags().Bool("notify", false, "Also send desktop notifications")

	habitHistoryCmd.Flags().String("since", "30 days ago", "Start of the history window")

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitCompleteCmd)
	habitCmd.AddCommand(habitRemindersCmd)
	habitCmd.AddCommand(habitStatusCmd)
	habitCmd.AddCommand(habitHistoryCmd)
	habitCmd.AddCommand(habitActivateCmd)
	habitCmd.AddCommand(habitDeactivateCmd)
	habitCmd.AddCommand(habitDeleteCmd)
}

func openHabitStore() (*store.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return openStore(cfg)
}

// resolveHabit accepts either a numeric id or a habit name.
func resolveHabit(db *store.DB, ref string) (*store.Habit, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return db.GetHabit(id)
	}
	return db.GetHabitByName(ref)
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	freqStr, _ := cmd.Flags().GetString("freq")
	freq, err := streak.ParseCadence(freqStr)
	if err != nil {
		return err
	}
	desc, _ := cmd.Flags().GetString("desc")
	name := args[0]

	db, err := openHabitStore()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.AddHabit(name, desc, freq)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			fmt.Printf("Habit '%s' already exists.\n", name)
			return nil
		}
		return fmt.Errorf("adding habit: %w", err)
	}

	fmt.Printf("✓ Habit '%s' added (ID: %d)\n", name, id)
	return nil
}

func runHabitList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	db, err := openHabitStore()
	if err != nil {
		return err
	}
	defer db.Close()

	habits, err := db.ListHabits(all)
	if err != nil {
		return fmt.Errorf("listing habits: %w", err)
	}

	fmt.Printf("\n=== Habits (%d) ===\n", len(habits))
	for _, h := range habits {
		icon := "✓"
		if !h.Active {
			icon = "○"
		}
		last := "Never"
		if !h.LastCompleted.IsZero() {
			last = h.LastCompleted.Format("2006-01-02")
		}
		fmt.Printf("%s [%d] %s\n", icon, h.ID, h.Name)
		fmt.Printf("      Streak: %d • Last: %s • %s\n", h.StreakCount, last, h.Frequency)
		if h.Description != "" {
			fmt.Printf("      %s\n", h.Description)
		}
	}
	return nil
}

func runHabitComplete(cmd *cobra.Command, args []string) error {
	notes := strings.Join(args[1:], " ")

	db, err := openHabitStore()
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := resolveHabit(db, args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("Habit '%s' not found.\n", args[0])
			return nil
		}
		return err
	}

	h, err = db.CompleteHabit(h.ID, notes, time.Now())
	if err != nil {
		if errors.Is(err, streak.ErrAlreadyCompleted) {
			fmt.Println("Habit already completed today.")
			return nil
		}
		return fmt.Errorf("completing habit: %w", err)
	}

	fmt.Printf("✓ '%s' completed! Streak: %d 🔥\n", h.Name, h.StreakCount)
	return nil
}

func runHabitReminders(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	habits, err := db.ListHabits(false)
	if err != nil {
		return fmt.Errorf("listing habits: %w", err)
	}

	today := time.Now()
	var reminders []streak.Reminder
	for _, h := range habits {
		if h.Frequency != streak.Daily {
			continue
		}
		if r, ok := streak.ReminderFor(h.ID, h.Name, h.StreakCount, h.LastCompleted, today); ok {
			reminders = append(reminders, r)
		}
	}

	fmt.Printf("\n=== Gentle Reminders (%d) ===\n", len(reminders))
	for _, r := range reminders {
		fmt.Printf("  • %s\n", r.Message)
	}

	if sendNotify, _ := cmd.Flags().GetBool("notify"); sendNotify && len(reminders) > 0 {
		n := &notify.Notifier{Enabled: cfg.Notifications.Enabled}
		for _, r := range reminders {
			if err := n.Send("cadence", r.Message); err != nil {
				logger.Warn("notification failed", "habit", r.Name, "error", err)
			}
		}
	}
	return nil
}

func runHabitStatus(cmd *cobra.Command, args []string) error {
	db, err := openHabitStore()
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := resolveHabit(db, args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("Habit '%s' not found.\n", args[0])
			return nil
		}
		return err
	}

	last := "Never"
	daysSince := "Never"
	if days, ok := streak.DaysSince(h.LastCompleted, time.Now()); ok {
		last = h.LastCompleted.Format("2006-01-02")
		daysSince = strconv.Itoa(days)
	}

	desc := h.Description
	if desc == "" {
		desc = "None"
	}

	fmt.Printf("\n=== %s ===\n", h.Name)
	fmt.Printf("Description: %s\n", desc)
	fmt.Printf("Streak: %d\n", h.StreakCount)
	fmt.Printf("Frequency: %s\n", h.Frequency)
	fmt.Printf("Last completed: %s\n", last)
	fmt.Printf("Days since: %s\n", daysSince)
	fmt.Printf("Active: %t\n", h.Active)
	return nil
}

func runHabitHistory(cmd *cobra.Command, args []string) error {
	now := time.Now()
	sinceStr, _ := cmd.Flags().GetString("since")
	since, err := naturaldate.Parse(sinceStr, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return fmt.Errorf("parsing --since: %w", err)
	}

	db, err := openHabitStore()
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := resolveHabit(db, args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("Habit '%s' not found.\n", args[0])
			return nil
		}
		return err
	}

	entries, err := db.History(h.ID, since)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	fmt.Printf("\n=== %s history (since %s) ===\n", h.Name, since.Local().Format("2006-01-02"))
	if len(entries) == 0 {
		fmt.Println("  No completions in this window.")
		return nil
	}
	for _, e := range entries {
		notes := e.Notes
		if notes == "" {
			notes = "No notes"
		}
		fmt.Printf("  %s: %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), notes)
	}
	return nil
}

func makeSetActive(active bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openHabitStore()
		if err != nil {
			return err
		}
		defer db.Close()

		h, err := resolveHabit(db, args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Printf("Habit '%s' not found.\n", args[0])
				return nil
			}
			return err
		}

		if err := db.UpdateHabit(h.ID, store.HabitUpdate{Active: &active}); err != nil {
			return fmt.Errorf("updating habit: %w", err)
		}

		verb := "deactivated"
		if active {
			verb = "activated"
		}
		fmt.Printf("✓ Habit '%s' %s\n", h.Name, verb)
		return nil
	}
}

func runHabitDelete(cmd *cobra.Command, args []string) error {
	db, err := openHabitStore()
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := resolveHabit(db, args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("Habit '%s' not found.\n", args[0])
			return nil
		}
		return err
	}

	if err := db.DeleteHabit(h.ID); err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}

	fmt.Printf("✓ Habit '%s' deleted\n", h.Name)
	return nil
}
