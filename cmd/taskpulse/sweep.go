package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtran/taskpulse/internal/abandon"
	"github.com/dtran/taskpulse/internal/remind"
	"github.com/dtran/taskpulse/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run batch evaluations once",
}

var sweepAbandonedCmd = &cobra.Command{
	Use:   "abandoned",
	Short: "Flag in-progress tasks with no recent activity",
	Args:  cobra.NoArgs,
	RunE:  runSweepAbandoned,
}

var sweepRemindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Evaluate reminder rules and emit notifications",
	Args:  cobra.NoArgs,
	RunE:  runSweepReminders,
}

var sweepRule string

var sweepCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge old read notifications and abandonment records",
	Args:  cobra.NoArgs,
	RunE:  runSweepCleanup,
}

func init() {
	sweepRemindersCmd.Flags().StringVar(&sweepRule, "rule", "", "run a single rule instead of all")

	sweepCmd.AddCommand(sweepAbandonedCmd)
	sweepCmd.AddCommand(sweepRemindersCmd)
	sweepCmd.AddCommand(sweepCleanupCmd)
}

func runSweepAbandoned(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	detector := abandon.NewDetector(
		e.store, e.clock,
		time.Duration(e.cfg.Abandonment.InactivityMinutes)*time.Minute,
		e.logger,
	)
	sum, err := detector.Sweep(cmd.Context())
	if err != nil {
		return err
	}
	printSummary("abandoned", sum)
	return nil
}

func runSweepReminders(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	engine := remind.NewEngine(e.store, e.clock, e.cfg.Reminders, e.logger)

	rules := remind.RuleNames()
	if sweepRule != "" {
		rules = []string{sweepRule}
	}
	for _, name := range rules {
		sum, err := engine.Run(cmd.Context(), name)
		if err != nil {
			return err
		}
		printSummary(name, sum)
	}
	return nil
}

func runSweepCleanup(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	retention := remind.NewRetention(e.store, e.clock, e.cfg.Retention, e.logger)
	sum, err := retention.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("cleanup: purged %d rows\n", sum.Emitted)
	return nil
}

func printSummary(name string, sum sweep.Summary) {
	fmt.Printf("%s: evaluated %d, emitted %d\n", name, sum.Evaluated, sum.Emitted)
	for _, err := range sum.Errors {
		fmt.Printf("  skipped: %v\n", err)
	}
}
