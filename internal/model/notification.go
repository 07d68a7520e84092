package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Notification categories.
const (
	NotifyReminder     = "reminder"
	NotifyAchievement  = "achievement"
	NotifyMotivational = "motivational"
	NotifySystem       = "system"
)

// Urgency levels attached to deadline-driven reminders.
const (
	UrgencyWarning  = "warning"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// Action types carried by notification payloads. This is a closed set:
// the payload for each has its own struct below.
const (
	ActionTaskReminder     = "task_reminder"
	ActionDeadlineReminder = "deadline_reminder"
	ActionOverdueTask      = "overdue_task"
	ActionLongPendingTask  = "long_pending_task"
	ActionStaleTask        = "stale_task"
	ActionTaskAbandoned    = "task_abandoned"
)

// Notification is an alert surfaced to the user. The engine creates
// them; the UI marks them read; the retention sweep purges old read ones.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `db:"id" json:"id"`

	// UserID identifies the recipient.
	UserID string `db:"user_id" json:"user_id"`

	// Type is one of the Notify* constants.
	Type string `db:"type" json:"type"`

	// Title is the short heading text.
	Title string `db:"title" json:"title"`

	// Message is the full notification body.
	Message string `db:"message" json:"message"`

	// Data is the typed payload. Its action type and task id are also
	// denormalized into columns so the cooldown lookup stays a plain
	// indexed query.
	Data NotificationData `db:"-" json:"data"`

	// CreatedAt is when the notification was generated.
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// ReadAt is when the user saw it, if they have.
	ReadAt *time.Time `db:"read_at" json:"read_at,omitempty"`
}

// NotificationData is the structured payload attached to a
// notification. Each action type has its own concrete struct.
type NotificationData interface {
	ActionType() string
	RelatedTaskID() string
}

// TaskReminderData accompanies a reminder for a task approaching its
// scheduled start time.
type TaskReminderData struct {
	TaskID        string    `json:"task_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	MinutesUntil  int       `json:"minutes_until"`
}

func (d TaskReminderData) ActionType() string    { return ActionTaskReminder }
func (d TaskReminderData) RelatedTaskID() string { return d.TaskID }

// DeadlineReminderData accompanies a reminder for a task approaching
// its deadline.
type DeadlineReminderData struct {
	TaskID     string    `json:"task_id"`
	Deadline   time.Time `json:"deadline"`
	HoursUntil int       `json:"hours_until"`
	Urgency    string    `json:"urgency"`
}

func (d DeadlineReminderData) ActionType() string    { return ActionDeadlineReminder }
func (d DeadlineReminderData) RelatedTaskID() string { return d.TaskID }

// OverdueTaskData accompanies a reminder for a task past its deadline.
type OverdueTaskData struct {
	TaskID      string    `json:"task_id"`
	Deadline    time.Time `json:"deadline"`
	DaysOverdue int       `json:"days_overdue"`
	Urgency     string    `json:"urgency"`
}

func (d OverdueTaskData) ActionType() string    { return ActionOverdueTask }
func (d OverdueTaskData) RelatedTaskID() string { return d.TaskID }

// LongPendingTaskData accompanies a reminder for a task that has sat
// untouched in pending with no deadline.
type LongPendingTaskData struct {
	TaskID      string `json:"task_id"`
	DaysPending int    `json:"days_pending"`
}

func (d LongPendingTaskData) ActionType() string    { return ActionLongPendingTask }
func (d LongPendingTaskData) RelatedTaskID() string { return d.TaskID }

// StaleTaskData accompanies a reminder for an in-progress task with no
// recent activity.
type StaleTaskData struct {
	TaskID       string    `json:"task_id"`
	DaysInactive int       `json:"days_inactive"`
	LastActiveAt time.Time `json:"last_active_at"`
}

func (d StaleTaskData) ActionType() string    { return ActionStaleTask }
func (d StaleTaskData) RelatedTaskID() string { return d.TaskID }

// TaskAbandonedData accompanies the system notification emitted when a
// task is flagged abandoned.
type TaskAbandonedData struct {
	TaskID            string `json:"task_id"`
	AbandonmentID     string `json:"abandonment_id"`
	DurationMinutes   int    `json:"duration_minutes"`
	InactivityMinutes int    `json:"inactivity_minutes"`
}

func (d TaskAbandonedData) ActionType() string    { return ActionTaskAbandoned }
func (d TaskAbandonedData) RelatedTaskID() string { return d.TaskID }

// DecodeNotificationData unmarshals a stored payload back into its
// concrete type based on the action type column.
func DecodeNotificationData(actionType string, raw []byte) (NotificationData, error) {
	var (
		data NotificationData
		err  error
	)
	switch actionType {
	case ActionTaskReminder:
		var d TaskReminderData
		err = json.Unmarshal(raw, &d)
		data = d
	case ActionDeadlineReminder:
		var d DeadlineReminderData
		err = json.Unmarshal(raw, &d)
		data = d
	case ActionOverdueTask:
		var d OverdueTaskData
		err = json.Unmarshal(raw, &d)
		data = d
	case ActionLongPendingTask:
		var d LongPendingTaskData
		err = json.Unmarshal(raw, &d)
		data = d
	case ActionStaleTask:
		var d StaleTaskData
		err = json.Unmarshal(raw, &d)
		data = d
	case ActionTaskAbandoned:
		var d TaskAbandonedData
		err = json.Unmarshal(raw, &d)
		data = d
	default:
		return nil, fmt.Errorf("unknown notification action type %q", actionType)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", actionType, err)
	}
	return data, nil
}
