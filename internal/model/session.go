package model

import "time"

// Focus session states. A session is mutable while active or paused
// and immutable once completed.
const (
	SessionActive    = "active"
	SessionPaused    = "paused"
	SessionCompleted = "completed"
)

// FocusSession is one timed work interval against a task. At most one
// non-completed session may exist per task; the tracker enforces this,
// not the storage layer.
type FocusSession struct {
	// ID is the unique identifier for this session.
	ID string `db:"id" json:"id"`

	// TaskID is the task this session is working against.
	TaskID string `db:"task_id" json:"task_id"`

	// UserID identifies the owner.
	UserID string `db:"user_id" json:"user_id"`

	// State is one of the Session* constants.
	State string `db:"state" json:"state"`

	// DurationMinutes is the length the user asked the countdown for.
	DurationMinutes int `db:"duration_minutes" json:"duration_minutes"`

	// AccumulatedMinutes counts only the time spent in the active
	// state. It is folded forward on every pause and stop.
	AccumulatedMinutes int `db:"accumulated_minutes" json:"accumulated_minutes"`

	// StartedAt is when the session was created.
	StartedAt time.Time `db:"started_at" json:"started_at"`

	// ActiveSince is when the session last entered the active state.
	// Nil while paused or completed.
	ActiveSince *time.Time `db:"active_since" json:"active_since,omitempty"`

	// EndedAt is when the session was stopped. Set once, with the
	// transition to completed.
	EndedAt *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// Done reports whether the session has been finalized.
func (s *FocusSession) Done() bool {
	return s.State == SessionCompleted
}
