package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/tests/testutil"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestCreateTask_Roundtrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	deadline := base.Add(48 * time.Hour)
	estimate := 90
	err := s.CreateTask(ctx, model.Task{
		ID:               "t1",
		UserID:           "alice",
		Title:            "write thesis chapter",
		Status:           model.StatusPending,
		Deadline:         &deadline,
		EstimatedMinutes: &estimate,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := s.GetTaskByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got.Title != "write thesis chapter" || got.Status != model.StatusPending {
		t.Fatalf("got %+v", got)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("got deadline %v, want %v", got.Deadline, deadline)
	}
	if got.EstimatedMinutes == nil || *got.EstimatedMinutes != 90 {
		t.Fatalf("got estimate %v, want 90", got.EstimatedMinutes)
	}
}

func TestCreateTask_EmptyTitleRejected(t *testing.T) {
	s := testutil.NewTestStore(t)
	err := s.CreateTask(context.Background(), model.Task{UserID: "alice", Title: "   "})
	if err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestGetTaskByID_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.GetTaskByID(context.Background(), "missing")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateTaskStatus_UnknownTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	err := s.UpdateTaskStatus(context.Background(), "missing", model.StatusCompleted, nil)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListTasksByUser_OpenFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	mk := func(id, status string) {
		if err := s.CreateTask(ctx, model.Task{ID: id, UserID: "alice", Title: id, Status: status}); err != nil {
			t.Fatalf("CreateTask %s: %v", id, err)
		}
	}
	mk("done", model.StatusCompleted)
	mk("active", model.StatusInProgress)
	mk("waiting", model.StatusPending)
	if err := s.CreateTask(ctx, model.Task{ID: "other", UserID: "bob", Title: "other", Status: model.StatusPending}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tasks, err := s.ListTasksByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTasksByUser: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	if tasks[0].ID != "active" || tasks[1].ID != "waiting" || tasks[2].ID != "done" {
		t.Fatalf("got order %s,%s,%s", tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
}

func TestNotification_PayloadRoundtrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	deadline := base.Add(3 * time.Hour)
	err := s.CreateNotification(ctx, model.Notification{
		ID:      "n1",
		UserID:  "alice",
		Type:    model.NotifyReminder,
		Title:   "Deadline approaching",
		Message: "soon",
		Data: model.DeadlineReminderData{
			TaskID:     "t1",
			Deadline:   deadline,
			HoursUntil: 3,
			Urgency:    model.UrgencyHigh,
		},
		CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}

	notifs, err := s.UnreadNotifications(ctx, "alice")
	if err != nil {
		t.Fatalf("UnreadNotifications: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifs))
	}
	data, ok := notifs[0].Data.(model.DeadlineReminderData)
	if !ok {
		t.Fatalf("got payload %T, want DeadlineReminderData", notifs[0].Data)
	}
	if data.TaskID != "t1" || data.HoursUntil != 3 || data.Urgency != model.UrgencyHigh {
		t.Fatalf("got payload %+v", data)
	}
	if !data.Deadline.Equal(deadline) {
		t.Fatalf("got deadline %v, want %v", data.Deadline, deadline)
	}
}

func TestHasRecentNotification_WindowAndKeys(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.CreateNotification(ctx, model.Notification{
		UserID: "alice", Type: model.NotifyReminder,
		Title: "r", Message: "m",
		Data:      model.OverdueTaskData{TaskID: "t1", Deadline: base, Urgency: model.UrgencyCritical},
		CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}

	cases := []struct {
		name       string
		user       string
		actionType string
		taskID     string
		since      time.Time
		want       bool
	}{
		{"hit", "alice", model.ActionOverdueTask, "t1", base.Add(-time.Hour), true},
		{"outside window", "alice", model.ActionOverdueTask, "t1", base.Add(time.Minute), false},
		{"different action", "alice", model.ActionStaleTask, "t1", base.Add(-time.Hour), false},
		{"different task", "alice", model.ActionOverdueTask, "t2", base.Add(-time.Hour), false},
		{"different user", "bob", model.ActionOverdueTask, "t1", base.Add(-time.Hour), false},
	}
	for _, tc := range cases {
		got, err := s.HasRecentNotification(ctx, tc.user, tc.actionType, tc.taskID, tc.since)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMarkNotificationRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.CreateNotification(ctx, model.Notification{
		ID: "n1", UserID: "alice", Type: model.NotifySystem,
		Title: "t", Message: "m", CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}

	if err := s.MarkNotificationRead(ctx, "n1", base.Add(time.Minute)); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	notifs, _ := s.UnreadNotifications(ctx, "alice")
	if len(notifs) != 0 {
		t.Fatalf("got %d unread, want 0", len(notifs))
	}

	if err := s.MarkNotificationRead(ctx, "missing", base); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUpsertUserStats_Overwrites(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := model.UserStats{UserID: "alice", TotalTasks: 1, CurrentStreak: 1, LastCalculatedAt: base}
	if err := s.UpsertUserStats(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := model.UserStats{UserID: "alice", TotalTasks: 5, CurrentStreak: 2, LongestStreak: 4, LastCalculatedAt: base.Add(time.Hour)}
	if err := s.UpsertUserStats(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetUserStats(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if got.TotalTasks != 5 || got.CurrentStreak != 2 || got.LongestStreak != 4 {
		t.Fatalf("got %+v, want second snapshot", got)
	}
}

func TestCompletionTimestamps_NewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for i, offset := range []int{2, 0, 1} {
		at := base.AddDate(0, 0, -offset)
		err := s.CreateTask(ctx, model.Task{
			ID: []string{"a", "b", "c"}[i], UserID: "alice", Title: "t",
			Status: model.StatusCompleted, CompletedAt: &at,
		})
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	stamps, err := s.CompletionTimestamps(ctx, "alice")
	if err != nil {
		t.Fatalf("CompletionTimestamps: %v", err)
	}
	if len(stamps) != 3 {
		t.Fatalf("got %d stamps, want 3", len(stamps))
	}
	for i := 1; i < len(stamps); i++ {
		if stamps[i].After(stamps[i-1]) {
			t.Fatalf("stamps not newest first: %v", stamps)
		}
	}
}

func TestOpenSessionForTask_IgnoresCompleted(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.CreateTask(ctx, model.Task{ID: "t1", UserID: "alice", Title: "t", Status: model.StatusInProgress}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	err := s.CreateSession(ctx, model.FocusSession{
		ID: "s1", TaskID: "t1", UserID: "alice",
		State: model.SessionCompleted, StartedAt: base,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	open, err := s.OpenSessionForTask(ctx, "t1")
	if err != nil {
		t.Fatalf("OpenSessionForTask: %v", err)
	}
	if open != nil {
		t.Fatalf("got %+v, want nil for completed-only history", open)
	}

	err = s.CreateSession(ctx, model.FocusSession{
		ID: "s2", TaskID: "t1", UserID: "alice",
		State: model.SessionPaused, StartedAt: base.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	open, err = s.OpenSessionForTask(ctx, "t1")
	if err != nil {
		t.Fatalf("OpenSessionForTask: %v", err)
	}
	if open == nil || open.ID != "s2" {
		t.Fatalf("got %+v, want s2", open)
	}
}
