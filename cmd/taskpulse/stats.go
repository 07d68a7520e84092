package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "User statistics and streaks",
}

var statsRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute the stats snapshot from tasks and sessions",
	Args:  cobra.NoArgs,
	RunE:  runStatsRebuild,
}

var statsRebuildAll bool

var statsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print your stats snapshot",
	Args:  cobra.NoArgs,
	RunE:  runStatsShow,
}

func init() {
	statsRebuildCmd.Flags().BoolVar(&statsRebuildAll, "all", false, "rebuild every user, not just --user")

	statsCmd.AddCommand(statsRebuildCmd)
	statsCmd.AddCommand(statsShowCmd)
}

func runStatsRebuild(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	r := stats.NewRebuilder(e.store, e.clock, e.loc, e.logger)
	if statsRebuildAll {
		sum, err := r.RebuildAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("rebuilt %d of %d users\n", sum.Emitted, sum.Evaluated)
		for _, err := range sum.Errors {
			fmt.Printf("  skipped: %v\n", err)
		}
		return nil
	}

	if err := r.RebuildUser(cmd.Context(), flagUser); err != nil {
		return err
	}
	fmt.Println("rebuilt stats for", flagUser)
	return nil
}

func runStatsShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	s, err := e.store.GetUserStats(cmd.Context(), flagUser)
	if errors.Is(err, model.ErrNotFound) {
		fmt.Println("No stats yet. Run: taskpulse stats rebuild")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Tasks:     %d total, %d completed, %d pending, %d in progress (%.2f%% done)\n",
		s.TotalTasks, s.CompletedTasks, s.PendingTasks, s.InProgressTasks, s.CompletionRate)
	fmt.Printf("Focus:     %d min over %d sessions (avg %d min)\n",
		s.TotalFocusMinutes, s.TotalFocusSessions, s.AverageSessionDuration)
	fmt.Printf("Streak:    %d current, %d longest\n", s.CurrentStreak, s.LongestStreak)
	fmt.Printf("As of:     %s\n", s.LastCalculatedAt.In(e.loc).Format("2006-01-02 15:04:05"))
	return nil
}
