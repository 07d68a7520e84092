package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtran/taskpulse/internal/model"
)

// CreateSession inserts a new focus session. Generates a UUID if ID is
// empty. Uniqueness of the open session per task is the tracker's job,
// not enforced here.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess model.FocusSession) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.State == "" {
		sess.State = model.SessionActive
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO focus_sessions (
			id, task_id, user_id, state,
			duration_minutes, accumulated_minutes,
			started_at, active_since, ended_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.TaskID, sess.UserID, sess.State,
		sess.DurationMinutes, sess.AccumulatedMinutes,
		sess.StartedAt.UTC(), sess.ActiveSince, sess.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("creating session: %w: %v", model.ErrStorage, err)
	}
	return nil
}

// GetSessionByID retrieves a single focus session.
func (s *SQLiteStore) GetSessionByID(ctx context.Context, id string) (*model.FocusSession, error) {
	var sess model.FocusSession
	err := s.db.GetContext(ctx, &sess, "SELECT * FROM focus_sessions WHERE id = ?", id)
	if err != nil {
		return nil, wrapLookup("session", id, err)
	}
	return &sess, nil
}

// OpenSessionForTask returns the non-completed session for a task, or
// nil when the task has none.
func (s *SQLiteStore) OpenSessionForTask(ctx context.Context, taskID string) (*model.FocusSession, error) {
	var sess model.FocusSession
	err := s.db.GetContext(ctx, &sess, `
		SELECT * FROM focus_sessions
		WHERE task_id = ? AND state != ?
		ORDER BY started_at DESC LIMIT 1`,
		taskID, model.SessionCompleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying open session for task %s: %w: %v", taskID, model.ErrStorage, err)
	}
	return &sess, nil
}

// UpdateSession writes the mutable session fields.
func (s *SQLiteStore) UpdateSession(ctx context.Context, sess model.FocusSession) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE focus_sessions SET
			state = ?, accumulated_minutes = ?,
			active_since = ?, ended_at = ?
		WHERE id = ?`,
		sess.State, sess.AccumulatedMinutes,
		sess.ActiveSince, sess.EndedAt, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session %s: %w: %v", sess.ID, model.ErrStorage, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("session %s: %w", sess.ID, model.ErrNotFound)
	}
	return nil
}

// SessionTotals sums accumulated minutes over the user's completed
// sessions and counts them.
func (s *SQLiteStore) SessionTotals(ctx context.Context, userID string) (int, int, error) {
	var totalMinutes, count int
	err := s.db.QueryRowxContext(ctx, `
		SELECT COALESCE(SUM(accumulated_minutes), 0), COUNT(*)
		FROM focus_sessions
		WHERE user_id = ? AND state = ?`,
		userID, model.SessionCompleted,
	).Scan(&totalMinutes, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("summing sessions for user %s: %w: %v", userID, model.ErrStorage, err)
	}
	return totalMinutes, count, nil
}
