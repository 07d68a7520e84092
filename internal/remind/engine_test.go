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

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newEngine(s store.Store, c clock.Clock) *remind.Engine {
	return remind.NewEngine(s, c, config.Default().Reminders, nil)
}

func addTask(t *testing.T, s store.Store, task model.Task) {
	t.Helper()
	if task.UserID == "" {
		task.UserID = "alice"
	}
	if task.Title == "" {
		task.Title = "review notes"
	}
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("creating task: %v", err)
	}
}

func TestRun_UnknownRule(t *testing.T) {
	s := testutil.NewTestStore(t)
	e := newEngine(s, clock.NewManual(base))

	if _, err := e.Run(context.Background(), "no_such_rule"); err == nil {
		t.Fatal("expected error for unknown rule")
	}
}

func TestUpcomingSchedule_EmitsInsideLeadWindow(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	e := newEngine(s, c)
	ctx := context.Background()

	soon := base.Add(10 * time.Minute)
	far := base.Add(2 * time.Hour)
	addTask(t, s, model.Task{ID: "soon", Status: model.StatusPending, ScheduledTime: &soon})
	addTask(t, s, model.Task{ID: "far", Status: model.StatusPending, ScheduledTime: &far})

	sum, err := e.Run(ctx, remind.RuleUpcomingSchedule)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Evaluated != 1 || sum.Emitted != 1 {
		t.Fatalf("got evaluated=%d emitted=%d, want 1/1", sum.Evaluated, sum.Emitted)
	}

	notifs, _ := s.UnreadNotifications(ctx, "alice")
	if len(notifs) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifs))
	}
	data, ok := notifs[0].Data.(model.TaskReminderData)
	if !ok {
		t.Fatalf("got payload %T, want TaskReminderData", notifs[0].Data)
	}
	if data.TaskID != "soon" || data.MinutesUntil != 10 {
		t.Fatalf("got payload %+v, want task=soon minutes=10", data)
	}
}

func TestUpcomingSchedule_CooldownSuppressesRepeat(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	e := newEngine(s, c)
	ctx := context.Background()

	soon := base.Add(50 * time.Minute)
	addTask(t, s, model.Task{ID: "t1", Status: model.StatusPending, ScheduledTime: &soon})

	// Move inside the lead window and emit once.
	c.Advance(40 * time.Minute)
	if sum, err := e.Run(ctx, remind.RuleUpcomingSchedule); err != nil || sum.Emitted != 1 {
		t.Fatalf("first run: sum=%+v err=%v", sum, err)
	}

	// Still inside the window and the one-hour cooldown: quiet.
	c.Advance(5 * time.Minute)
	sum, err := e.Run(ctx, remind.RuleUpcomingSchedule)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.Evaluated != 1 || sum.Emitted != 0 {
		t.Fatalf("second run: got evaluated=%d emitted=%d, want 1/0", sum.Evaluated, sum.Emitted)
	}
}

func TestOverdue_ReEmitsAfterCooldown(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	e := newEngine(s, c)
	ctx := context.Background()

	past := base.Add(-time.Hour)
	addTask(t, s, model.Task{ID: "t1", Status: model.StatusPending, Deadline: &past})

	if sum, _ := e.Run(ctx, remind.RuleOverdue); sum.Emitted != 1 {
		t.Fatalf("first run emitted %d, want 1", sum.Emitted)
	}
	c.Advance(6 * time.Hour)
	if sum, _ := e.Run(ctx, remind.RuleOverdue); sum.Emitted != 0 {
		t.Fatalf("inside 12h cooldown emitted %d, want 0", sum.Emitted)
	}
	c.Advance(7 * time.Hour)
	if sum, _ := e.Run(ctx, remind.RuleOverdue); sum.Emitted != 1 {
		t.Fatalf("after cooldown emitted %d, want 1", sum.Emitted)
	}
}

func TestCooldown_IsPerTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	e := newEngine(s, c)
	ctx := context.Background()

	past := base.Add(-time.Hour)
	addTask(t, s, model.Task{ID: "t1", Status: model.StatusPending, Deadline: &past})

	if sum, _ := e.Run(ctx, remind.RuleOverdue); sum.Emitted != 1 {
		t.Fatal("seed notification for t1 failed")
	}

	// A second overdue task is not silenced by t1's cooldown.
	addTask(t, s, model.Task{ID: "t2", Status: model.StatusPending, Deadline: &past})
	sum, err := e.Run(ctx, remind.RuleOverdue)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Emitted != 1 {
		t.Fatalf("got emitted=%d, want 1 (only t2)", sum.Emitted)
	}
}

func TestUpcomingDeadline_UrgencyBuckets(t *testing.T) {
	cases := []struct {
		name    string
		until   time.Duration
		urgency string
	}{
		{"imminent", 90 * time.Minute, model.UrgencyCritical},
		{"close", 5 * time.Hour, model.UrgencyHigh},
		{"distant", 20 * time.Hour, model.UrgencyWarning},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testutil.NewTestStore(t)
			c := clock.NewManual(base)
			e := newEngine(s, c)
			ctx := context.Background()

			deadline := base.Add(tc.until)
			addTask(t, s, model.Task{ID: "t1", Status: model.StatusInProgress, Deadline: &deadline})

			if sum, err := e.Run(ctx, remind.RuleUpcomingDeadline); err != nil || sum.Emitted != 1 {
				t.Fatalf("Run: sum=%+v err=%v", sum, err)
			}
			notifs, _ := s.UnreadNotifications(ctx, "alice")
			data, ok := notifs[0].Data.(model.DeadlineReminderData)
			if !ok {
				t.Fatalf("got payload %T, want DeadlineReminderData", notifs[0].Data)
			}
			if data.Urgency != tc.urgency {
				t.Fatalf("got urgency %q, want %q", data.Urgency, tc.urgency)
			}
		})
	}
}

func TestLongPending_OnlyDeadlinelessOldTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	e := newEngine(s, c)
	ctx := context.Background()

	old := base.Add(-10 * 24 * time.Hour)
	deadline := base.Add(48 * time.Hour)
	addTask(t, s, model.Task{ID: "old", Status: model.StatusPending, CreatedAt: old})
	addTask(t, s, model.Task{ID: "fresh", Status: model.StatusPending})
	addTask(t, s, model.Task{ID: "has-deadline", Status: model.StatusPending, CreatedAt: old, Deadline: &deadline})

	sum, err := e.Run(ctx, remind.RuleLongPending)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Evaluated != 1 || sum.Emitted != 1 {
		t.Fatalf("got evaluated=%d emitted=%d, want 1/1", sum.Evaluated, sum.Emitted)
	}
	notifs, _ := s.UnreadNotifications(ctx, "alice")
	data := notifs[0].Data.(model.LongPendingTaskData)
	if data.TaskID != "old" || data.DaysPending != 10 {
		t.Fatalf("got payload %+v, want task=old days=10", data)
	}
}

func TestStaleInProgress_Emits(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := clock.NewManual(base)
	e := newEngine(s, c)
	ctx := context.Background()

	idle := base.Add(-4 * 24 * time.Hour)
	addTask(t, s, model.Task{ID: "t1", Status: model.StatusInProgress, LastActiveAt: &idle})

	sum, err := e.Run(ctx, remind.RuleStaleInProgress)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Emitted != 1 {
		t.Fatalf("got emitted=%d, want 1", sum.Emitted)
	}
	notifs, _ := s.UnreadNotifications(ctx, "alice")
	data := notifs[0].Data.(model.StaleTaskData)
	if data.DaysInactive != 4 {
		t.Fatalf("got days_inactive=%d, want 4", data.DaysInactive)
	}
}

func TestRuleNames_AllRunnable(t *testing.T) {
	s := testutil.NewTestStore(t)
	e := newEngine(s, clock.NewManual(base))

	for _, name := range remind.RuleNames() {
		if _, err := e.Run(context.Background(), name); err != nil {
			t.Fatalf("rule %s: %v", name, err)
		}
	}
}
