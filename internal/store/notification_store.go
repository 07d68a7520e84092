package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtran/taskpulse/internal/model"
)

// CreateNotification inserts a notification. The payload's action type
// and task id are denormalized into columns so the cooldown lookup is
// a plain indexed query.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	actionType := ""
	taskID := ""
	raw := []byte("{}")
	if n.Data != nil {
		actionType = n.Data.ActionType()
		taskID = n.Data.RelatedTaskID()
		var err error
		raw, err = json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("marshaling %s payload: %w", actionType, err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, type, title, message,
			action_type, task_id, data, created_at, read_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message,
		actionType, taskID, string(raw), n.CreatedAt.UTC(), n.ReadAt,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w: %v", model.ErrStorage, err)
	}
	return nil
}

// HasRecentNotification reports whether a notification with the given
// action type and task id was created at or after since. This is the
// cooldown check the reminder rules dedupe on.
func (s *SQLiteStore) HasRecentNotification(ctx context.Context, userID, actionType, taskID string, since time.Time) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = ? AND action_type = ? AND task_id = ? AND created_at >= ?`,
		userID, actionType, taskID, since.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("checking recent %s notification for task %s: %w: %v",
			actionType, taskID, model.ErrStorage, err)
	}
	return count > 0, nil
}

// notificationRow is the scan target; payload decoding happens after.
type notificationRow struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Type       string     `db:"type"`
	Title      string     `db:"title"`
	Message    string     `db:"message"`
	ActionType string     `db:"action_type"`
	TaskID     *string    `db:"task_id"`
	Data       string     `db:"data"`
	CreatedAt  time.Time  `db:"created_at"`
	ReadAt     *time.Time `db:"read_at"`
}

func (r notificationRow) toModel() (model.Notification, error) {
	n := model.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      r.Type,
		Title:     r.Title,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
		ReadAt:    r.ReadAt,
	}
	if r.ActionType != "" {
		data, err := model.DecodeNotificationData(r.ActionType, []byte(r.Data))
		if err != nil {
			return n, err
		}
		n.Data = data
	}
	return n, nil
}

// UnreadNotifications returns the user's unread notifications, newest first.
func (s *SQLiteStore) UnreadNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM notifications
		WHERE user_id = ? AND read_at IS NULL
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w: %v", model.ErrStorage, err)
	}

	notifications := make([]model.Notification, 0, len(rows))
	for _, r := range rows {
		n, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("notification %s: %w", r.ID, err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkNotificationRead stamps read_at.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read_at = ? WHERE id = ?", at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w: %v", id, model.ErrStorage, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("notification %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteReadNotificationsBefore purges read notifications created
// before the cutoff. Unread ones are kept regardless of age.
func (s *SQLiteStore) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE read_at IS NOT NULL AND created_at < ?",
		cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old notifications: %w: %v", model.ErrStorage, err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}
