package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtran/taskpulse/internal/model"
)

// CreateAbandonment inserts a new abandonment record. Generates a UUID
// if ID is empty. The one-unresolved-record-per-task guard belongs to
// the detector; the store just writes.
func (s *SQLiteStore) CreateAbandonment(ctx context.Context, a model.AbandonmentRecord) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO abandonments (
			id, task_id, user_id, focus_session_id,
			started_at, last_active_at, abandoned_at,
			duration_minutes, abandonment_type, inactivity_minutes,
			auto_detected, reason, resumed, resumed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TaskID, a.UserID, a.FocusSessionID,
		a.StartedAt.UTC(), a.LastActiveAt.UTC(), a.AbandonedAt.UTC(),
		a.DurationMinutes, a.Type, a.InactivityMinutes,
		a.AutoDetected, a.Reason, a.Resumed, a.ResumedAt,
	)
	if err != nil {
		return fmt.Errorf("creating abandonment for task %s: %w: %v", a.TaskID, model.ErrStorage, err)
	}
	return nil
}

// UnresolvedAbandonmentForTask returns the open abandonment episode for
// a task, or nil when there is none. Newest first in case historical
// data holds several.
func (s *SQLiteStore) UnresolvedAbandonmentForTask(ctx context.Context, taskID string) (*model.AbandonmentRecord, error) {
	var a model.AbandonmentRecord
	err := s.db.GetContext(ctx, &a, `
		SELECT * FROM abandonments
		WHERE task_id = ? AND resumed = 0
		ORDER BY abandoned_at DESC LIMIT 1`,
		taskID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying unresolved abandonment for task %s: %w: %v", taskID, model.ErrStorage, err)
	}
	return &a, nil
}

// MarkAbandonmentResumed resolves an abandonment episode.
func (s *SQLiteStore) MarkAbandonmentResumed(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE abandonments SET resumed = 1, resumed_at = ? WHERE id = ?",
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("resolving abandonment %s: %w: %v", id, model.ErrStorage, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("abandonment %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteAbandonmentsBefore purges records abandoned before the cutoff,
// resumed or not. Returns the number deleted.
func (s *SQLiteStore) DeleteAbandonmentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM abandonments WHERE abandoned_at < ?", cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old abandonments: %w: %v", model.ErrStorage, err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}
