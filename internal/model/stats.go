package model

import "time"

// UserStats is the cached per-user statistics snapshot, one row per
// user with upsert semantics. It is entirely derived from tasks and
// focus sessions and is always safe to drop and rebuild.
type UserStats struct {
	UserID          string `db:"user_id" json:"user_id"`
	TotalTasks      int    `db:"total_tasks" json:"total_tasks"`
	CompletedTasks  int    `db:"completed_tasks" json:"completed_tasks"`
	PendingTasks    int    `db:"pending_tasks" json:"pending_tasks"`
	InProgressTasks int    `db:"in_progress_tasks" json:"in_progress_tasks"`

	// CompletionRate is completed/total*100, rounded to two decimals.
	// Zero when the user has no tasks.
	CompletionRate float64 `db:"completion_rate" json:"completion_rate"`

	TotalFocusMinutes  int `db:"total_focus_minutes" json:"total_focus_minutes"`
	TotalFocusSessions int `db:"total_focus_sessions" json:"total_focus_sessions"`

	// AverageSessionDuration is minutes per completed session, rounded
	// to the nearest minute. Zero when there are no sessions.
	AverageSessionDuration int `db:"average_session_duration" json:"average_session_duration"`

	CurrentStreak int `db:"current_streak" json:"current_streak"`
	LongestStreak int `db:"longest_streak" json:"longest_streak"`

	LastCalculatedAt time.Time `db:"last_calculated_at" json:"last_calculated_at"`
}

// Stale reports whether the snapshot is older than the given threshold.
func (s *UserStats) Stale(now time.Time, threshold time.Duration) bool {
	return now.Sub(s.LastCalculatedAt) > threshold
}
