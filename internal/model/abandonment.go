package model

import "time"

// Abandonment type constants. auto-detected sweeps produce
// long_inactivity or deadline_passed; the interactive surface produces
// manual and app_switched.
const (
	AbandonAppSwitched    = "app_switched"
	AbandonLongInactivity = "long_inactivity"
	AbandonManual         = "manual"
	AbandonDeadlinePassed = "deadline_passed"
)

// AbandonmentRecord captures one abandonment episode: the period from a
// task last being actively worked to it being flagged abandoned. The
// record is immutable except for the resumed fields, which are set when
// the user picks the task back up.
type AbandonmentRecord struct {
	// ID is the unique identifier for this record.
	ID string `db:"id" json:"id"`

	// TaskID is the abandoned task.
	TaskID string `db:"task_id" json:"task_id"`

	// UserID identifies the owner.
	UserID string `db:"user_id" json:"user_id"`

	// FocusSessionID is the open session at the time of abandonment, if any.
	FocusSessionID *string `db:"focus_session_id" json:"focus_session_id,omitempty"`

	// StartedAt is when the abandoned work interval began.
	StartedAt time.Time `db:"started_at" json:"started_at"`

	// LastActiveAt is the last recorded activity before abandonment.
	LastActiveAt time.Time `db:"last_active_at" json:"last_active_at"`

	// AbandonedAt is when the episode was flagged.
	AbandonedAt time.Time `db:"abandoned_at" json:"abandoned_at"`

	// DurationMinutes is LastActiveAt minus StartedAt.
	DurationMinutes int `db:"duration_minutes" json:"duration_minutes"`

	// Type is one of the Abandon* constants.
	Type string `db:"abandonment_type" json:"abandonment_type"`

	// InactivityMinutes is how long the task had been idle when flagged.
	InactivityMinutes int `db:"inactivity_minutes" json:"inactivity_minutes"`

	// AutoDetected is true when a sweep created the record.
	AutoDetected bool `db:"auto_detected" json:"auto_detected"`

	// Reason is optional free text from the user.
	Reason *string `db:"reason" json:"reason,omitempty"`

	// Resumed is set when the user returns to the task. An unresolved
	// record (resumed=false) marks the episode as still open and
	// suppresses duplicate detection.
	Resumed bool `db:"resumed" json:"resumed"`

	// ResumedAt is when the user returned, if they did.
	ResumedAt *time.Time `db:"resumed_at" json:"resumed_at,omitempty"`
}
