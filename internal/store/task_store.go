package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtran/taskpulse/internal/model"
)

// CreateTask inserts a new task. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateTask(ctx context.Context, t model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.StatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, user_id, title, status,
			deadline, scheduled_time, estimated_minutes,
			total_focus_minutes, last_active_at,
			created_at, updated_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Status,
		t.Deadline, t.ScheduledTime, t.EstimatedMinutes,
		t.TotalFocusMinutes, t.LastActiveAt,
		t.CreatedAt, t.UpdatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// GetTaskByID retrieves a single task.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	err := s.db.GetContext(ctx, &t, "SELECT * FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, wrapLookup("task", id, err)
	}
	return &t, nil
}

// ListTasksByUser returns all of a user's tasks, open ones first,
// then by creation time.
func (s *SQLiteStore) ListTasksByUser(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks
		WHERE user_id = ?
		ORDER BY
			CASE status
				WHEN 'in_progress' THEN 0
				WHEN 'pending' THEN 1
				WHEN 'completed' THEN 2
				ELSE 3
			END,
			created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for user %s: %w: %v", userID, model.ErrStorage, err)
	}
	return tasks, nil
}

// UpdateTaskStatus sets the task's status. completedAt is written only
// when non-nil and the task has no completion timestamp yet, so the
// stamp is applied exactly once.
func (s *SQLiteStore) UpdateTaskStatus(ctx context.Context, id, status string, completedAt *time.Time) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			status = ?,
			completed_at = COALESCE(completed_at, ?),
			updated_at = ?
		WHERE id = ?`,
		status, completedAt, now, id,
	)
	if err != nil {
		return fmt.Errorf("updating task %s status: %w: %v", id, model.ErrStorage, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// TouchTaskActivity bumps last_active_at. Last writer wins when the
// sweep and an interactive call race on the same task.
func (s *SQLiteStore) TouchTaskActivity(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET last_active_at = ?, updated_at = ? WHERE id = ?",
		at.UTC(), at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("touching task %s: %w: %v", id, model.ErrStorage, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// AddTaskFocusMinutes adds completed session time to the task's total.
func (s *SQLiteStore) AddTaskFocusMinutes(ctx context.Context, id string, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET total_focus_minutes = total_focus_minutes + ? WHERE id = ?",
		minutes, id,
	)
	if err != nil {
		return fmt.Errorf("adding focus minutes to task %s: %w: %v", id, model.ErrStorage, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// TasksScheduledBetween returns pending tasks whose scheduled start
// falls inside [from, to].
func (s *SQLiteStore) TasksScheduledBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks
		WHERE status = ?
		  AND scheduled_time IS NOT NULL
		  AND scheduled_time >= ? AND scheduled_time <= ?
		ORDER BY scheduled_time`,
		model.StatusPending, from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled tasks: %w: %v", model.ErrStorage, err)
	}
	return tasks, nil
}

// TasksWithDeadlineBetween returns open tasks whose deadline falls
// inside [from, to].
func (s *SQLiteStore) TasksWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks
		WHERE status IN (?, ?)
		  AND deadline IS NOT NULL
		  AND deadline >= ? AND deadline <= ?
		ORDER BY deadline`,
		model.StatusPending, model.StatusInProgress, from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying deadline tasks: %w: %v", model.ErrStorage, err)
	}
	return tasks, nil
}

// OverdueTasks returns open tasks whose deadline is already past.
func (s *SQLiteStore) OverdueTasks(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks
		WHERE status IN (?, ?)
		  AND deadline IS NOT NULL
		  AND deadline < ?
		ORDER BY deadline`,
		model.StatusPending, model.StatusInProgress, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying overdue tasks: %w: %v", model.ErrStorage, err)
	}
	return tasks, nil
}

// LongPendingTasks returns deadline-less pending tasks created before
// the cutoff.
func (s *SQLiteStore) LongPendingTasks(ctx context.Context, createdBefore time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks
		WHERE status = ?
		  AND deadline IS NULL
		  AND created_at < ?
		ORDER BY created_at`,
		model.StatusPending, createdBefore.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying long-pending tasks: %w: %v", model.ErrStorage, err)
	}
	return tasks, nil
}

// InProgressInactiveSince returns in-progress tasks whose last activity
// predates the cutoff. Both the abandonment sweep and the stale-task
// rule are built on this query, with their own thresholds.
func (s *SQLiteStore) InProgressInactiveSince(ctx context.Context, lastActiveBefore time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks
		WHERE status = ?
		  AND completed_at IS NULL
		  AND last_active_at IS NOT NULL
		  AND last_active_at < ?
		ORDER BY last_active_at`,
		model.StatusInProgress, lastActiveBefore.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying inactive tasks: %w: %v", model.ErrStorage, err)
	}
	return tasks, nil
}

// CountTasksByStatus returns the per-status task counts for a user.
func (s *SQLiteStore) CountTasksByStatus(ctx context.Context, userID string) (TaskCounts, error) {
	var c TaskCounts
	err := s.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0)
		FROM tasks WHERE user_id = ?`,
		userID,
	).Scan(&c.Total, &c.Completed, &c.Pending, &c.InProgress)
	if err != nil {
		return TaskCounts{}, fmt.Errorf("counting tasks for user %s: %w: %v", userID, model.ErrStorage, err)
	}
	return c, nil
}

// CompletionTimestamps returns completion timestamps of the user's
// completed tasks, newest first.
func (s *SQLiteStore) CompletionTimestamps(ctx context.Context, userID string) ([]time.Time, error) {
	var stamps []time.Time
	err := s.db.SelectContext(ctx, &stamps, `
		SELECT completed_at FROM tasks
		WHERE user_id = ? AND status = ? AND completed_at IS NOT NULL
		ORDER BY completed_at DESC`,
		userID, model.StatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("querying completions for user %s: %w: %v", userID, model.ErrStorage, err)
	}
	return stamps, nil
}

// ListUserIDs returns the distinct owners of all tasks. User records
// themselves are owned by the outer application.
func (s *SQLiteStore) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, "SELECT DISTINCT user_id FROM tasks ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("listing user ids: %w: %v", model.ErrStorage, err)
	}
	return ids, nil
}
