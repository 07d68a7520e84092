package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/stats"
	"github.com/dtran/taskpulse/internal/store"
	"github.com/dtran/taskpulse/tests/testutil"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func addCompleted(t *testing.T, s store.Store, id string, completedAt time.Time) {
	t.Helper()
	err := s.CreateTask(context.Background(), model.Task{
		ID: id, UserID: "alice", Title: "done " + id,
		Status: model.StatusCompleted, CompletedAt: &completedAt,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
}

func addSession(t *testing.T, s store.Store, taskID string, minutes int) {
	t.Helper()
	err := s.CreateSession(context.Background(), model.FocusSession{
		TaskID: taskID, UserID: "alice", State: model.SessionCompleted,
		DurationMinutes: minutes, AccumulatedMinutes: minutes,
		StartedAt: base,
	})
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
}

func TestRebuildUser_FullSnapshot(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	r := stats.NewRebuilder(s, c, time.UTC, nil)
	ctx := context.Background()

	// Three consecutive completion days ending today, plus open work.
	addCompleted(t, s, "c1", base)
	addCompleted(t, s, "c2", base.AddDate(0, 0, -1))
	addCompleted(t, s, "c3", base.AddDate(0, 0, -2))
	if err := s.CreateTask(ctx, model.Task{ID: "p1", UserID: "alice", Title: "todo", Status: model.StatusPending}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	addSession(t, s, "c1", 30)
	addSession(t, s, "c2", 45)

	if err := r.RebuildUser(ctx, "alice"); err != nil {
		t.Fatalf("RebuildUser: %v", err)
	}

	snap, err := s.GetUserStats(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if snap.TotalTasks != 4 || snap.CompletedTasks != 3 || snap.PendingTasks != 1 {
		t.Fatalf("got counts %d/%d/%d, want 4 total, 3 completed, 1 pending",
			snap.TotalTasks, snap.CompletedTasks, snap.PendingTasks)
	}
	if snap.CompletionRate != 75.0 {
		t.Fatalf("got completion rate %.2f, want 75.00", snap.CompletionRate)
	}
	if snap.TotalFocusMinutes != 75 || snap.TotalFocusSessions != 2 {
		t.Fatalf("got focus %d min over %d sessions, want 75/2",
			snap.TotalFocusMinutes, snap.TotalFocusSessions)
	}
	if snap.AverageSessionDuration != 38 {
		t.Fatalf("got avg duration %d, want 38", snap.AverageSessionDuration)
	}
	if snap.CurrentStreak != 3 || snap.LongestStreak != 3 {
		t.Fatalf("got streaks %d/%d, want 3/3", snap.CurrentStreak, snap.LongestStreak)
	}
	if !snap.LastCalculatedAt.Equal(base) {
		t.Fatalf("got last_calculated_at %v, want %v", snap.LastCalculatedAt, base)
	}
}

func TestRebuildUser_NoData(t *testing.T) {
	s := testutil.NewTestStore(t)
	r := stats.NewRebuilder(s, clock.NewManual(base), time.UTC, nil)
	ctx := context.Background()

	if err := r.RebuildUser(ctx, "nobody"); err != nil {
		t.Fatalf("RebuildUser: %v", err)
	}
	snap, err := s.GetUserStats(ctx, "nobody")
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if snap.TotalTasks != 0 || snap.CompletionRate != 0 || snap.CurrentStreak != 0 || snap.LongestStreak != 0 {
		t.Fatalf("empty user snapshot not zeroed: %+v", snap)
	}
}

func TestRebuildUser_RepeatIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	r := stats.NewRebuilder(s, c, time.UTC, nil)
	ctx := context.Background()

	addCompleted(t, s, "c1", base)

	if err := r.RebuildUser(ctx, "alice"); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	c.Advance(time.Hour)
	if err := r.RebuildUser(ctx, "alice"); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}

	snap, _ := s.GetUserStats(ctx, "alice")
	if snap.CompletedTasks != 1 {
		t.Fatalf("got %d completed, want 1", snap.CompletedTasks)
	}
	if !snap.LastCalculatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("snapshot not refreshed: %v", snap.LastCalculatedAt)
	}
}

func TestRebuildAll_IsolatesUsers(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	r := stats.NewRebuilder(s, c, time.UTC, nil)
	ctx := context.Background()

	addCompleted(t, s, "c1", base)
	if err := s.CreateTask(ctx, model.Task{ID: "b1", UserID: "bob", Title: "bob task", Status: model.StatusPending}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	sum, err := r.RebuildAll(ctx)
	if err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}
	if sum.Evaluated != 2 || sum.Emitted != 2 {
		t.Fatalf("got evaluated=%d emitted=%d, want 2/2", sum.Evaluated, sum.Emitted)
	}

	alice, _ := s.GetUserStats(ctx, "alice")
	bob, _ := s.GetUserStats(ctx, "bob")
	if alice.CompletedTasks != 1 || bob.CompletedTasks != 0 {
		t.Fatalf("cross-user leakage: alice=%d bob=%d", alice.CompletedTasks, bob.CompletedTasks)
	}
	if bob.TotalTasks != 1 {
		t.Fatalf("got bob total=%d, want 1", bob.TotalTasks)
	}
}
