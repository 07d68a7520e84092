// Package session implements the focus session tracker: start, pause,
// resume, stop, and elapsed-time accounting for timed work intervals
// against tasks. Operations are synchronous state transitions over
// storage; callers decide whether to retry on failure.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/store"
)

// Tracker manages the focus session lifecycle. Mutations on a given
// session are serialized; different sessions proceed independently.
type Tracker struct {
	store store.Store
	clock clock.Clock
	locks *keyedMutex
}

// NewTracker creates a Tracker over the given store and clock.
func NewTracker(s store.Store, c clock.Clock) *Tracker {
	return &Tracker{
		store: s,
		clock: c,
		locks: newKeyedMutex(),
	}
}

// Start opens a new active session against a task. It fails with
// ErrConflict when the task already has a non-completed session, and
// with ErrInvalidState when the task is completed or cancelled. A
// pending task transitions to in_progress.
func (t *Tracker) Start(ctx context.Context, taskID, userID string, durationMinutes int) (*model.FocusSession, error) {
	unlock := t.locks.lock("task:" + taskID)
	defer unlock()

	task, err := t.store.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Open() {
		return nil, fmt.Errorf("task %s is %s: %w", taskID, task.Status, model.ErrInvalidState)
	}

	open, err := t.store.OpenSessionForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, fmt.Errorf("task %s already has session %s (%s): %w",
			taskID, open.ID, open.State, model.ErrConflict)
	}

	now := t.clock.Now().UTC()
	sess := model.FocusSession{
		ID:              uuid.New().String(),
		TaskID:          taskID,
		UserID:          userID,
		State:           model.SessionActive,
		DurationMinutes: durationMinutes,
		StartedAt:       now,
		ActiveSince:     &now,
	}
	if err := t.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	if task.Status == model.StatusPending {
		if err := t.store.UpdateTaskStatus(ctx, taskID, model.StatusInProgress, nil); err != nil {
			return nil, err
		}
	}
	if err := t.store.TouchTaskActivity(ctx, taskID, now); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Pause freezes an active session. Accumulated minutes are folded
// forward so only active time ever counts.
func (t *Tracker) Pause(ctx context.Context, sessionID string) (*model.FocusSession, error) {
	unlock := t.locks.lock("session:" + sessionID)
	defer unlock()

	sess, err := t.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State != model.SessionActive {
		return nil, fmt.Errorf("session %s is %s, not active: %w", sessionID, sess.State, model.ErrInvalidState)
	}

	now := t.clock.Now().UTC()
	sess.AccumulatedMinutes += activeMinutes(sess, now)
	sess.ActiveSince = nil
	sess.State = model.SessionPaused

	if err := t.store.UpdateSession(ctx, *sess); err != nil {
		return nil, err
	}
	if err := t.store.TouchTaskActivity(ctx, sess.TaskID, now); err != nil {
		return nil, err
	}
	return sess, nil
}

// Resume reopens a paused session.
func (t *Tracker) Resume(ctx context.Context, sessionID string) (*model.FocusSession, error) {
	unlock := t.locks.lock("session:" + sessionID)
	defer unlock()

	sess, err := t.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State != model.SessionPaused {
		return nil, fmt.Errorf("session %s is %s, not paused: %w", sessionID, sess.State, model.ErrInvalidState)
	}

	now := t.clock.Now().UTC()
	sess.ActiveSince = &now
	sess.State = model.SessionActive

	if err := t.store.UpdateSession(ctx, *sess); err != nil {
		return nil, err
	}
	if err := t.store.TouchTaskActivity(ctx, sess.TaskID, now); err != nil {
		return nil, err
	}
	return sess, nil
}

// Stop finalizes a session from active or paused. At least one minute
// is always credited, so very short sessions still count. When
// completeTask is set and the task is not yet completed, the task
// transitions to completed with its completion timestamp stamped
// exactly once; stopping against an already-completed task leaves the
// task untouched.
func (t *Tracker) Stop(ctx context.Context, sessionID string, completeTask bool) (*model.FocusSession, error) {
	unlock := t.locks.lock("session:" + sessionID)
	defer unlock()

	sess, err := t.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State != model.SessionActive && sess.State != model.SessionPaused {
		return nil, fmt.Errorf("session %s is already %s: %w", sessionID, sess.State, model.ErrInvalidState)
	}

	now := t.clock.Now().UTC()
	sess.AccumulatedMinutes += activeMinutes(sess, now)
	if sess.AccumulatedMinutes < 1 {
		sess.AccumulatedMinutes = 1
	}
	sess.ActiveSince = nil
	sess.EndedAt = &now
	sess.State = model.SessionCompleted

	if err := t.store.UpdateSession(ctx, *sess); err != nil {
		return nil, err
	}
	if err := t.store.AddTaskFocusMinutes(ctx, sess.TaskID, sess.AccumulatedMinutes); err != nil {
		return nil, err
	}
	if err := t.store.TouchTaskActivity(ctx, sess.TaskID, now); err != nil {
		return nil, err
	}

	if completeTask {
		task, err := t.store.GetTaskByID(ctx, sess.TaskID)
		if err != nil {
			return nil, err
		}
		if task.Status != model.StatusCompleted {
			if err := t.store.UpdateTaskStatus(ctx, sess.TaskID, model.StatusCompleted, &now); err != nil {
				return nil, err
			}
		}
	}
	return sess, nil
}

// Heartbeat records ongoing work on the session's task: bumps its
// last_active_at and, when the task had been flagged abandoned,
// resolves the open abandonment episode.
func (t *Tracker) Heartbeat(ctx context.Context, sessionID string) error {
	unlock := t.locks.lock("session:" + sessionID)
	defer unlock()

	sess, err := t.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}

	now := t.clock.Now().UTC()
	if err := t.store.TouchTaskActivity(ctx, sess.TaskID, now); err != nil {
		return err
	}

	open, err := t.store.UnresolvedAbandonmentForTask(ctx, sess.TaskID)
	if err != nil {
		return err
	}
	if open != nil {
		if err := t.store.MarkAbandonmentResumed(ctx, open.ID, now); err != nil {
			return err
		}
	}
	return nil
}

// activeMinutes returns the whole minutes the session has been in the
// active state since it last became active. Zero while paused.
func activeMinutes(sess *model.FocusSession, now time.Time) int {
	if sess.ActiveSince == nil {
		return 0
	}
	elapsed := now.Sub(*sess.ActiveSince)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}
