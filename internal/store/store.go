package store

import (
	"context"
	"time"

	"github.com/dtran/taskpulse/internal/model"
)

// TaskCounts groups the per-status task counts used by the stats rebuilder.
type TaskCounts struct {
	Total      int
	Completed  int
	Pending    int
	InProgress int
}

// Store defines the persistence interface for tasks, focus sessions,
// abandonment records, notifications, and the user stats snapshot.
type Store interface {
	// === Tasks (schema owned externally; engine reads and updates) ===

	CreateTask(ctx context.Context, t model.Task) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	ListTasksByUser(ctx context.Context, userID string) ([]model.Task, error)
	UpdateTaskStatus(ctx context.Context, id, status string, completedAt *time.Time) error
	TouchTaskActivity(ctx context.Context, id string, at time.Time) error
	AddTaskFocusMinutes(ctx context.Context, id string, minutes int) error

	// Candidate queries for the sweeps. All windows are half-open on
	// the caller's side; the store just filters.

	TasksScheduledBetween(ctx context.Context, from, to time.Time) ([]model.Task, error)
	TasksWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]model.Task, error)
	OverdueTasks(ctx context.Context, now time.Time) ([]model.Task, error)
	LongPendingTasks(ctx context.Context, createdBefore time.Time) ([]model.Task, error)
	InProgressInactiveSince(ctx context.Context, lastActiveBefore time.Time) ([]model.Task, error)

	CountTasksByStatus(ctx context.Context, userID string) (TaskCounts, error)

	// CompletionTimestamps returns the completion timestamps of the
	// user's completed tasks, newest first. Callers derive calendar
	// dates in the user's reference timezone.
	CompletionTimestamps(ctx context.Context, userID string) ([]time.Time, error)
	ListUserIDs(ctx context.Context) ([]string, error)

	// === Focus sessions ===

	CreateSession(ctx context.Context, s model.FocusSession) error
	GetSessionByID(ctx context.Context, id string) (*model.FocusSession, error)
	OpenSessionForTask(ctx context.Context, taskID string) (*model.FocusSession, error)
	UpdateSession(ctx context.Context, s model.FocusSession) error
	SessionTotals(ctx context.Context, userID string) (totalMinutes, count int, err error)

	// === Abandonment records ===

	CreateAbandonment(ctx context.Context, a model.AbandonmentRecord) error
	UnresolvedAbandonmentForTask(ctx context.Context, taskID string) (*model.AbandonmentRecord, error)
	MarkAbandonmentResumed(ctx context.Context, id string, at time.Time) error
	DeleteAbandonmentsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	HasRecentNotification(ctx context.Context, userID, actionType, taskID string, since time.Time) (bool, error)
	UnreadNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string, at time.Time) error
	DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// === User stats snapshot ===

	UpsertUserStats(ctx context.Context, s model.UserStats) error
	GetUserStats(ctx context.Context, userID string) (*model.UserStats, error)
}
