// Package abandon implements abandonment detection: deciding, from
// inactivity and deadlines, that an in-progress task has been dropped,
// recording the episode, and resolving it when the user comes back.
package abandon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/store"
	"github.com/dtran/taskpulse/internal/sweep"
)

// Detector classifies tasks as abandoned and manages the episode
// lifecycle. Detection is idempotent per task per episode: an existing
// unresolved record suppresses a new one.
type Detector struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger

	// inactivity is how long an in-progress task may go without
	// activity before the sweep flags it.
	inactivity time.Duration
}

// NewDetector creates a Detector with the given inactivity threshold.
func NewDetector(s store.Store, c clock.Clock, inactivity time.Duration, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		store:      s,
		clock:      c,
		logger:     logger,
		inactivity: inactivity,
	}
}

// Sweep evaluates every qualifying in-progress task once. A task is
// flagged only when all of these hold: status in_progress, no
// completion timestamp, last activity older than the threshold, and no
// unresolved abandonment record. Tasks whose deadline has already
// passed are flagged deadline_passed; the rest long_inactivity.
// Per-task failures are logged, collected, and skipped; they never
// abort the pass.
func (d *Detector) Sweep(ctx context.Context) (sweep.Summary, error) {
	var summary sweep.Summary

	now := d.clock.Now().UTC()
	cutoff := now.Add(-d.inactivity)

	tasks, err := d.store.InProgressInactiveSince(ctx, cutoff)
	if err != nil {
		return summary, fmt.Errorf("listing inactive tasks: %w", err)
	}

	for _, task := range tasks {
		summary.Record()

		kind := model.AbandonLongInactivity
		if task.Deadline != nil && task.Deadline.Before(now) {
			kind = model.AbandonDeadlinePassed
		}

		created, err := d.flag(ctx, &task, kind, nil, true)
		if err != nil {
			d.logger.Error("abandonment check failed",
				"task_id", task.ID, "error", err)
			summary.Fail(fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		if created != nil {
			summary.Emit()
		}
	}

	d.logger.Info("abandonment sweep done",
		"checked", summary.Evaluated, "flagged", summary.Emitted)
	return summary, nil
}

// MarkAbandoned records an explicit abandonment from the interactive
// surface. No inactivity threshold applies. A still-open episode makes
// this a no-op.
func (d *Detector) MarkAbandoned(ctx context.Context, taskID, userID, reason string) (*model.AbandonmentRecord, error) {
	task, err := d.store.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, fmt.Errorf("task %s: %w", taskID, model.ErrNotFound)
	}
	if task.Status == model.StatusCompleted || task.Status == model.StatusCancelled {
		return nil, fmt.Errorf("task %s is %s: %w", taskID, task.Status, model.ErrInvalidState)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	return d.flag(ctx, task, model.AbandonManual, reasonPtr, false)
}

// Resume resolves the open abandonment episode for a task and puts the
// task back to work: status in_progress, activity stamped now.
func (d *Detector) Resume(ctx context.Context, taskID, userID string) error {
	task, err := d.store.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return fmt.Errorf("task %s: %w", taskID, model.ErrNotFound)
	}

	now := d.clock.Now().UTC()

	open, err := d.store.UnresolvedAbandonmentForTask(ctx, taskID)
	if err != nil {
		return err
	}
	if open != nil {
		if err := d.store.MarkAbandonmentResumed(ctx, open.ID, now); err != nil {
			return err
		}
	}

	if err := d.store.UpdateTaskStatus(ctx, taskID, model.StatusInProgress, nil); err != nil {
		return err
	}
	if err := d.store.TouchTaskActivity(ctx, taskID, now); err != nil {
		return err
	}

	d.logger.Info("task resumed after abandonment", "task_id", taskID, "user_id", userID)
	return nil
}

// flag creates the abandonment record for a task plus its side
// effects: the open focus session is finalized without completing the
// task, the task drops back to pending, and a system notification is
// emitted. The existing-unresolved-record check makes repeated calls
// for the same episode no-ops, which also resolves the race between a
// sweep and a manual abandonment landing close together.
func (d *Detector) flag(ctx context.Context, task *model.Task, kind string, reason *string, auto bool) (*model.AbandonmentRecord, error) {
	existing, err := d.store.UnresolvedAbandonmentForTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	now := d.clock.Now().UTC()

	open, err := d.store.OpenSessionForTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	startedAt := now
	var sessionID *string
	if open != nil {
		startedAt = open.StartedAt
		sessionID = &open.ID
	} else if task.LastActiveAt != nil {
		startedAt = *task.LastActiveAt
	}

	lastActive := now
	if task.LastActiveAt != nil {
		lastActive = *task.LastActiveAt
	}

	record := model.AbandonmentRecord{
		ID:                uuid.New().String(),
		TaskID:            task.ID,
		UserID:            task.UserID,
		FocusSessionID:    sessionID,
		StartedAt:         startedAt,
		LastActiveAt:      lastActive,
		AbandonedAt:       now,
		DurationMinutes:   wholeMinutes(lastActive.Sub(startedAt)),
		Type:              kind,
		InactivityMinutes: wholeMinutes(now.Sub(lastActive)),
		AutoDetected:      auto,
		Reason:            reason,
	}
	if err := d.store.CreateAbandonment(ctx, record); err != nil {
		return nil, err
	}

	// Finalize the open session; the task itself is not completed.
	// Active time is credited only up to the last recorded activity.
	if open != nil {
		if open.ActiveSince != nil {
			open.AccumulatedMinutes += wholeMinutes(lastActive.Sub(*open.ActiveSince))
		}
		open.State = model.SessionCompleted
		open.EndedAt = &now
		open.ActiveSince = nil
		if err := d.store.UpdateSession(ctx, *open); err != nil {
			return nil, err
		}
	}

	// Reset the task so it shows up as pending work again.
	if err := d.store.UpdateTaskStatus(ctx, task.ID, model.StatusPending, nil); err != nil {
		return nil, err
	}

	if err := d.notify(ctx, task, &record); err != nil {
		// Notification failure is not worth losing the record over.
		d.logger.Error("abandonment notification failed",
			"task_id", task.ID, "error", err)
	}

	d.logger.Info("task flagged abandoned",
		"task_id", task.ID,
		"type", kind,
		"inactivity_minutes", record.InactivityMinutes,
		"auto_detected", auto,
	)
	return &record, nil
}

func (d *Detector) notify(ctx context.Context, task *model.Task, record *model.AbandonmentRecord) error {
	message := fmt.Sprintf("Task %q was set aside after %d minutes of inactivity.",
		task.Title, record.InactivityMinutes)
	if record.Type == model.AbandonDeadlinePassed {
		message = fmt.Sprintf("Task %q passed its deadline without being completed.", task.Title)
	}
	if record.DurationMinutes > 0 {
		message += fmt.Sprintf(" Time worked: %d min.", record.DurationMinutes)
	}

	return d.store.CreateNotification(ctx, model.Notification{
		UserID:  task.UserID,
		Type:    model.NotifySystem,
		Title:   "Task interrupted",
		Message: message,
		Data: model.TaskAbandonedData{
			TaskID:            task.ID,
			AbandonmentID:     record.ID,
			DurationMinutes:   record.DurationMinutes,
			InactivityMinutes: record.InactivityMinutes,
		},
		CreatedAt: d.clock.Now().UTC(),
	})
}

func wholeMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
