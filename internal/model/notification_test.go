package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeNotificationData_EveryActionType(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	payloads := []NotificationData{
		TaskReminderData{TaskID: "t1", ScheduledTime: at, MinutesUntil: 10},
		DeadlineReminderData{TaskID: "t1", Deadline: at, HoursUntil: 3, Urgency: UrgencyHigh},
		OverdueTaskData{TaskID: "t1", Deadline: at, DaysOverdue: 2, Urgency: UrgencyCritical},
		LongPendingTaskData{TaskID: "t1", DaysPending: 8},
		StaleTaskData{TaskID: "t1", DaysInactive: 4, LastActiveAt: at},
		TaskAbandonedData{TaskID: "t1", AbandonmentID: "a1", DurationMinutes: 30},
	}

	for _, p := range payloads {
		raw, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("%s: marshal: %v", p.ActionType(), err)
		}
		got, err := DecodeNotificationData(p.ActionType(), raw)
		if err != nil {
			t.Fatalf("%s: decode: %v", p.ActionType(), err)
		}
		if got.ActionType() != p.ActionType() {
			t.Fatalf("got action type %q, want %q", got.ActionType(), p.ActionType())
		}
		if got.RelatedTaskID() != "t1" {
			t.Fatalf("%s: got task id %q, want t1", p.ActionType(), got.RelatedTaskID())
		}
	}
}

func TestDecodeNotificationData_UnknownType(t *testing.T) {
	if _, err := DecodeNotificationData("mystery", []byte("{}")); err == nil {
		t.Fatal("expected error for unknown action type")
	}
}

func TestTaskStateHelpers(t *testing.T) {
	for _, tc := range []struct {
		status  string
		open    bool
		started bool
	}{
		{StatusPending, true, false},
		{StatusInProgress, true, true},
		{StatusCompleted, false, true},
		{StatusCancelled, false, true},
	} {
		task := Task{Status: tc.status}
		if task.Open() != tc.open {
			t.Errorf("%s: Open() = %v, want %v", tc.status, task.Open(), tc.open)
		}
		if task.Started() != tc.started {
			t.Errorf("%s: Started() = %v, want %v", tc.status, task.Started(), tc.started)
		}
	}
}
