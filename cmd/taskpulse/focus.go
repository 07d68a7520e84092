package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dtran/taskpulse/internal/abandon"
	"github.com/dtran/taskpulse/internal/session"
	"github.com/dtran/taskpulse/internal/tui"
)

var focusCmd = &cobra.Command{
	Use:   "focus <task-id>",
	Short: "Start a focus session timer against a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runFocus,
}

var focusMinutes int

func init() {
	focusCmd.Flags().IntVar(&focusMinutes, "minutes", 25, "session length in minutes")
}

func runFocus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	task, err := e.store.GetTaskByID(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if task.UserID != flagUser {
		return fmt.Errorf("task %s belongs to %s", task.ID, task.UserID)
	}
	if focusMinutes <= 0 {
		return fmt.Errorf("--minutes must be positive")
	}

	tracker := session.NewTracker(e.store, e.clock)
	detector := abandon.NewDetector(
		e.store, e.clock,
		time.Duration(e.cfg.Abandonment.InactivityMinutes)*time.Minute,
		e.logger,
	)

	m, err := tui.NewModel(cmd.Context(), tracker, detector, task, focusMinutes)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
