package store

import (
	"context"
	"fmt"

	"github.com/dtran/taskpulse/internal/model"
)

// UpsertUserStats writes the stats snapshot, one row per user.
func (s *SQLiteStore) UpsertUserStats(ctx context.Context, st model.UserStats) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (
			user_id, total_tasks, completed_tasks, pending_tasks, in_progress_tasks,
			completion_rate, total_focus_minutes, total_focus_sessions,
			average_session_duration, current_streak, longest_streak, last_calculated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_tasks = excluded.total_tasks,
			completed_tasks = excluded.completed_tasks,
			pending_tasks = excluded.pending_tasks,
			in_progress_tasks = excluded.in_progress_tasks,
			completion_rate = excluded.completion_rate,
			total_focus_minutes = excluded.total_focus_minutes,
			total_focus_sessions = excluded.total_focus_sessions,
			average_session_duration = excluded.average_session_duration,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_calculated_at = excluded.last_calculated_at`,
		st.UserID, st.TotalTasks, st.CompletedTasks, st.PendingTasks, st.InProgressTasks,
		st.CompletionRate, st.TotalFocusMinutes, st.TotalFocusSessions,
		st.AverageSessionDuration, st.CurrentStreak, st.LongestStreak,
		st.LastCalculatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting stats for user %s: %w: %v", st.UserID, model.ErrStorage, err)
	}
	return nil
}

// GetUserStats retrieves the stats snapshot for a user.
func (s *SQLiteStore) GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	var st model.UserStats
	err := s.db.GetContext(ctx, &st, "SELECT * FROM user_stats WHERE user_id = ?", userID)
	if err != nil {
		return nil, wrapLookup("user stats", userID, err)
	}
	return &st, nil
}
