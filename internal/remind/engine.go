// Package remind implements the reminder policy engine: a set of
// independent rule evaluators over candidate tasks, each with its own
// trigger window and a per-task cooldown that keeps repeated sweeps
// from re-notifying about the same condition.
package remind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/config"
	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/store"
	"github.com/dtran/taskpulse/internal/sweep"
)

// Rule names, as invoked by the scheduler and the CLI.
const (
	RuleUpcomingSchedule = "upcoming_schedule"
	RuleUpcomingDeadline = "upcoming_deadline"
	RuleOverdue          = "overdue"
	RuleLongPending      = "long_pending"
	RuleStaleInProgress  = "stale_in_progress"
)

// rule binds a candidate query to a notification builder and the
// cooldown that dedupes repeat emissions per task.
type rule struct {
	name       string
	actionType string
	cooldown   time.Duration
	candidates func(ctx context.Context, now time.Time) ([]model.Task, error)
	build      func(task *model.Task, now time.Time) model.Notification
}

// Engine evaluates reminder rules.
type Engine struct {
	store  store.Store
	clock  clock.Clock
	cfg    config.ReminderConfig
	logger *slog.Logger
	rules  map[string]rule
}

// NewEngine creates an Engine with all five rules wired to cfg's
// windows and cooldowns.
func NewEngine(s store.Store, c clock.Clock, cfg config.ReminderConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		store:  s,
		clock:  c,
		cfg:    cfg,
		logger: logger,
	}
	e.rules = map[string]rule{
		RuleUpcomingSchedule: {
			name:       RuleUpcomingSchedule,
			actionType: model.ActionTaskReminder,
			cooldown:   time.Duration(cfg.ScheduleCooldownMinutes) * time.Minute,
			candidates: func(ctx context.Context, now time.Time) ([]model.Task, error) {
				lead := time.Duration(cfg.ScheduleLeadMinutes) * time.Minute
				return s.TasksScheduledBetween(ctx, now, now.Add(lead))
			},
			build: buildScheduleReminder,
		},
		RuleUpcomingDeadline: {
			name:       RuleUpcomingDeadline,
			actionType: model.ActionDeadlineReminder,
			cooldown:   time.Duration(cfg.DeadlineCooldownHours) * time.Hour,
			candidates: func(ctx context.Context, now time.Time) ([]model.Task, error) {
				lead := time.Duration(cfg.DeadlineLeadHours) * time.Hour
				return s.TasksWithDeadlineBetween(ctx, now, now.Add(lead))
			},
			build: buildDeadlineReminder,
		},
		RuleOverdue: {
			name:       RuleOverdue,
			actionType: model.ActionOverdueTask,
			cooldown:   time.Duration(cfg.OverdueCooldownHours) * time.Hour,
			candidates: func(ctx context.Context, now time.Time) ([]model.Task, error) {
				return s.OverdueTasks(ctx, now)
			},
			build: buildOverdueReminder,
		},
		RuleLongPending: {
			name:       RuleLongPending,
			actionType: model.ActionLongPendingTask,
			cooldown:   time.Duration(cfg.LongPendingCooldownDays) * 24 * time.Hour,
			candidates: func(ctx context.Context, now time.Time) ([]model.Task, error) {
				age := time.Duration(cfg.LongPendingDays) * 24 * time.Hour
				return s.LongPendingTasks(ctx, now.Add(-age))
			},
			build: buildLongPendingReminder,
		},
		RuleStaleInProgress: {
			name:       RuleStaleInProgress,
			actionType: model.ActionStaleTask,
			cooldown:   time.Duration(cfg.StaleCooldownDays) * 24 * time.Hour,
			candidates: func(ctx context.Context, now time.Time) ([]model.Task, error) {
				age := time.Duration(cfg.StaleDays) * 24 * time.Hour
				return s.InProgressInactiveSince(ctx, now.Add(-age))
			},
			build: buildStaleReminder,
		},
	}
	return e
}

// RuleNames returns the rule names in evaluation order.
func RuleNames() []string {
	return []string{
		RuleUpcomingSchedule,
		RuleUpcomingDeadline,
		RuleOverdue,
		RuleLongPending,
		RuleStaleInProgress,
	}
}

// Run evaluates one rule over its candidate set. For every candidate
// it first asks the sink for a notification of the same action type
// and task inside the cooldown window; a hit means skip. One bad
// candidate never blocks the rest.
func (e *Engine) Run(ctx context.Context, ruleName string) (sweep.Summary, error) {
	var summary sweep.Summary

	r, ok := e.rules[ruleName]
	if !ok {
		return summary, fmt.Errorf("unknown reminder rule %q", ruleName)
	}

	now := e.clock.Now().UTC()
	tasks, err := r.candidates(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("rule %s: listing candidates: %w", ruleName, err)
	}

	since := now.Add(-r.cooldown)
	for _, task := range tasks {
		summary.Record()

		recent, err := e.store.HasRecentNotification(ctx, task.UserID, r.actionType, task.ID, since)
		if err != nil {
			e.logger.Error("cooldown check failed",
				"rule", ruleName, "task_id", task.ID, "error", err)
			summary.Fail(fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		if recent {
			continue
		}

		n := r.build(&task, now)
		n.UserID = task.UserID
		n.CreatedAt = now
		if err := e.store.CreateNotification(ctx, n); err != nil {
			e.logger.Error("reminder notification failed",
				"rule", ruleName, "task_id", task.ID, "error", err)
			summary.Fail(fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		summary.Emit()
	}

	e.logger.Info("reminder rule done",
		"rule", ruleName,
		"candidates", summary.Evaluated,
		"sent", summary.Emitted,
	)
	return summary, nil
}
