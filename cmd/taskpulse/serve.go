package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtran/taskpulse/internal/abandon"
	"github.com/dtran/taskpulse/internal/remind"
	"github.com/dtran/taskpulse/internal/stats"
	"github.com/dtran/taskpulse/internal/sweep"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run all sweeps on their configured cadences until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
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
	engine := remind.NewEngine(e.store, e.clock, e.cfg.Reminders, e.logger)
	rebuilder := stats.NewRebuilder(e.store, e.clock, e.loc, e.logger)
	retention := remind.NewRetention(e.store, e.clock, e.cfg.Retention, e.logger)

	sched := sweep.NewScheduler(e.logger)

	sched.Register(sweep.Job{
		Name:     "abandoned",
		Interval: time.Duration(e.cfg.Abandonment.SweepIntervalMinutes) * time.Minute,
		Run:      detector.Sweep,
	})
	sched.Register(sweep.Job{
		Name:     remind.RuleUpcomingSchedule,
		Interval: time.Duration(e.cfg.Sweeps.ScheduleReminderMinutes) * time.Minute,
		Run: func(ctx context.Context) (sweep.Summary, error) {
			return engine.Run(ctx, remind.RuleUpcomingSchedule)
		},
	})
	sched.Register(sweep.Job{
		Name:     remind.RuleUpcomingDeadline,
		Interval: time.Duration(e.cfg.Sweeps.DeadlineReminderMinutes) * time.Minute,
		Run: func(ctx context.Context) (sweep.Summary, error) {
			return engine.Run(ctx, remind.RuleUpcomingDeadline)
		},
	})
	// The slow-moving rules share the incomplete-task cadence.
	sched.Register(sweep.Job{
		Name:     "incomplete",
		Interval: time.Duration(e.cfg.Sweeps.IncompleteMinutes) * time.Minute,
		Run: func(ctx context.Context) (sweep.Summary, error) {
			var total sweep.Summary
			for _, name := range []string{remind.RuleOverdue, remind.RuleLongPending, remind.RuleStaleInProgress} {
				sum, err := engine.Run(ctx, name)
				if err != nil {
					return total, err
				}
				total.Evaluated += sum.Evaluated
				total.Emitted += sum.Emitted
				total.Errors = append(total.Errors, sum.Errors...)
			}
			return total, nil
		},
	})
	sched.Register(sweep.Job{
		Name:     "stats",
		Interval: time.Duration(e.cfg.Sweeps.StatsMinutes) * time.Minute,
		Run:      rebuilder.RebuildAll,
	})
	sched.Register(sweep.Job{
		Name:     "cleanup",
		Interval: time.Duration(e.cfg.Sweeps.CleanupMinutes) * time.Minute,
		Run:      retention.Run,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sched.Start(ctx)
	fmt.Println("taskpulse engine running, Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("shutting down")
	cancel()
	sched.Stop()
	return nil
}
