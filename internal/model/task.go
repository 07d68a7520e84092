package model

import "time"

// Task status constants used across the engine.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task is a unit of work owned by a user. The engine reads and updates
// the activity and status fields; everything else is managed by the
// task CRUD surface, which lives outside this codebase.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `db:"id" json:"id"`

	// UserID identifies the owner.
	UserID string `db:"user_id" json:"user_id"`

	// Title is the human-readable summary.
	Title string `db:"title" json:"title"`

	// Status is one of the Status* constants.
	Status string `db:"status" json:"status"`

	// Deadline is when the task must be finished, if any.
	Deadline *time.Time `db:"deadline" json:"deadline,omitempty"`

	// ScheduledTime is when the user planned to start, if any.
	ScheduledTime *time.Time `db:"scheduled_time" json:"scheduled_time,omitempty"`

	// EstimatedMinutes is the user's effort estimate, if any.
	EstimatedMinutes *int `db:"estimated_minutes" json:"estimated_minutes,omitempty"`

	// TotalFocusMinutes accumulates time from completed focus sessions.
	TotalFocusMinutes int `db:"total_focus_minutes" json:"total_focus_minutes"`

	// LastActiveAt is bumped whenever work happens on the task. It is
	// the signal the abandonment and stale-task sweeps key off.
	LastActiveAt *time.Time `db:"last_active_at" json:"last_active_at,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// CompletedAt is stamped exactly once, on the transition to completed.
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Open reports whether the task still accepts work.
func (t *Task) Open() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// Started reports whether the user has begun working on the task.
func (t *Task) Started() bool {
	return t.Status != StatusPending
}
