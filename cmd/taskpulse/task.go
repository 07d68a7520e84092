package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtran/taskpulse/internal/model"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var (
	taskAddDeadline  string
	taskAddScheduled string
	taskAddEstimate  int
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark one or more tasks completed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskDone,
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel <id>...",
	Short: "Cancel one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskCancel,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskAddDeadline, "deadline", "", "deadline (RFC 3339 or 2006-01-02 15:04)")
	taskAddCmd.Flags().StringVar(&taskAddScheduled, "at", "", "scheduled start time (RFC 3339 or 2006-01-02 15:04)")
	taskAddCmd.Flags().IntVar(&taskAddEstimate, "estimate", 0, "effort estimate in minutes")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskCancelCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	t := model.Task{
		UserID: flagUser,
		Title:  args[0],
		Status: model.StatusPending,
	}
	if taskAddDeadline != "" {
		at, err := parseTime(taskAddDeadline, e.loc)
		if err != nil {
			return fmt.Errorf("parsing --deadline: %w", err)
		}
		t.Deadline = &at
	}
	if taskAddScheduled != "" {
		at, err := parseTime(taskAddScheduled, e.loc)
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}
		t.ScheduledTime = &at
	}
	if taskAddEstimate > 0 {
		t.EstimatedMinutes = &taskAddEstimate
	}

	if err := e.store.CreateTask(cmd.Context(), t); err != nil {
		return err
	}
	fmt.Printf("Created task %q\n", t.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	tasks, err := e.store.ListTasksByUser(cmd.Context(), flagUser)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	for _, t := range tasks {
		line := fmt.Sprintf("%-36s  %-12s  %s", t.ID, t.Status, t.Title)
		if t.Deadline != nil {
			line += fmt.Sprintf("  (due %s)", t.Deadline.In(e.loc).Format("2006-01-02 15:04"))
		}
		if t.TotalFocusMinutes > 0 {
			line += fmt.Sprintf("  [%dm focused]", t.TotalFocusMinutes)
		}
		fmt.Println(line)
	}
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	now := e.clock.Now().UTC()
	for _, id := range args {
		if err := e.store.UpdateTaskStatus(cmd.Context(), id, model.StatusCompleted, &now); err != nil {
			return err
		}
		fmt.Println("Completed", id)
	}
	return nil
}

func runTaskCancel(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	for _, id := range args {
		if err := e.store.UpdateTaskStatus(cmd.Context(), id, model.StatusCancelled, nil); err != nil {
			return err
		}
		fmt.Println("Cancelled", id)
	}
	return nil
}

// parseTime accepts RFC 3339 or a local "2006-01-02 15:04" timestamp.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if at, err := time.Parse(time.RFC3339, s); err == nil {
		return at.UTC(), nil
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time %q", s)
	}
	return at.UTC(), nil
}
