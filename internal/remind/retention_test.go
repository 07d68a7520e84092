package remind_test

import (
	"context"
	"testing"
	"time"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/config"
	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/remind"
	"github.com/dtran/taskpulse/internal/store"
	"github.com/dtran/taskpulse/tests/testutil"
)

func addNotification(t *testing.T, s store.Store, id string, createdAt time.Time, readAt *time.Time) {
	t.Helper()
	err := s.CreateNotification(context.Background(), model.Notification{
		ID:        id,
		UserID:    "alice",
		Type:      model.NotifyReminder,
		Title:     "old news",
		Message:   "message",
		CreatedAt: createdAt,
		ReadAt:    readAt,
	})
	if err != nil {
		t.Fatalf("creating notification: %v", err)
	}
}

func TestRetention_PurgesOnlyOldReadNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	r := remind.NewRetention(s, c, config.Default().Retention, nil)
	ctx := context.Background()

	old := base.Add(-40 * 24 * time.Hour)
	recent := base.Add(-5 * 24 * time.Hour)
	read := base.Add(-39 * 24 * time.Hour)

	addNotification(t, s, "old-read", old, &read)
	addNotification(t, s, "old-unread", old, nil)
	addNotification(t, s, "recent-read", recent, &read)

	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Emitted != 1 {
		t.Fatalf("got %d purged, want 1", sum.Emitted)
	}
	if len(sum.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", sum.Errors)
	}

	// The old unread notification survives regardless of age.
	notifs, err := s.UnreadNotifications(ctx, "alice")
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].ID != "old-unread" {
		t.Fatalf("got unread %v, want [old-unread]", notifs)
	}
}

func TestRetention_PurgesOldAbandonments(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	r := remind.NewRetention(s, c, config.Default().Retention, nil)
	ctx := context.Background()

	if err := s.CreateTask(ctx, model.Task{ID: "t1", UserID: "alice", Title: "x", Status: model.StatusPending}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	mk := func(id string, at time.Time) {
		err := s.CreateAbandonment(ctx, model.AbandonmentRecord{
			ID: id, TaskID: "t1", UserID: "alice",
			StartedAt: at, LastActiveAt: at, AbandonedAt: at,
			Type: model.AbandonLongInactivity, AutoDetected: true,
			Resumed: true,
		})
		if err != nil {
			t.Fatalf("CreateAbandonment: %v", err)
		}
	}
	mk("ancient", base.Add(-100*24*time.Hour))
	mk("recent", base.Add(-10*24*time.Hour))

	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Emitted != 1 {
		t.Fatalf("got %d purged, want 1", sum.Emitted)
	}
}
