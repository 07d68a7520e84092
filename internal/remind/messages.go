package remind

import (
	"fmt"
	"time"

	"github.com/dtran/taskpulse/internal/model"
)

// deadlineUrgency buckets hours-until-deadline: two hours or less is
// critical, six or less high, everything further out a plain warning.
func deadlineUrgency(hoursUntil int) string {
	switch {
	case hoursUntil <= 2:
		return model.UrgencyCritical
	case hoursUntil <= 6:
		return model.UrgencyHigh
	default:
		return model.UrgencyWarning
	}
}

func buildScheduleReminder(task *model.Task, now time.Time) model.Notification {
	minutesUntil := int(task.ScheduledTime.Sub(now) / time.Minute)

	message := fmt.Sprintf("Task %q is scheduled to start soon.", task.Title)
	if minutesUntil <= 0 {
		message += " Start time: now."
	} else {
		message += fmt.Sprintf(" Start time: in %d min.", minutesUntil)
	}
	if task.EstimatedMinutes != nil {
		message += fmt.Sprintf(" Estimated effort: %d min.", *task.EstimatedMinutes)
	}

	return model.Notification{
		Type:    model.NotifyReminder,
		Title:   "Task reminder",
		Message: message,
		Data: model.TaskReminderData{
			TaskID:        task.ID,
			ScheduledTime: *task.ScheduledTime,
			MinutesUntil:  minutesUntil,
		},
	}
}

func buildDeadlineReminder(task *model.Task, now time.Time) model.Notification {
	hoursUntil := int(task.Deadline.Sub(now) / time.Hour)
	minutesUntil := int(task.Deadline.Sub(now) / time.Minute)
	urgency := deadlineUrgency(hoursUntil)

	var title string
	switch urgency {
	case model.UrgencyCritical:
		title = "Urgent: deadline imminent"
	case model.UrgencyHigh:
		title = "Deadline approaching"
	default:
		title = "Deadline reminder"
	}

	message := fmt.Sprintf("Task %q is approaching its deadline.", task.Title)
	switch {
	case hoursUntil <= 0:
		message += " Due: any moment now."
	case hoursUntil < 1:
		message += fmt.Sprintf(" Due: in %d min.", minutesUntil)
	case hoursUntil < 24:
		message += fmt.Sprintf(" Due: in %d hours.", hoursUntil)
	default:
		message += fmt.Sprintf(" Due: in %.1f days.", float64(hoursUntil)/24)
	}
	if !task.Started() {
		message += " This task has not been started yet."
	}

	return model.Notification{
		Type:    model.NotifyReminder,
		Title:   title,
		Message: message,
		Data: model.DeadlineReminderData{
			TaskID:     task.ID,
			Deadline:   *task.Deadline,
			HoursUntil: hoursUntil,
			Urgency:    urgency,
		},
	}
}

func buildOverdueReminder(task *model.Task, now time.Time) model.Notification {
	daysOverdue := int(now.Sub(*task.Deadline) / (24 * time.Hour))
	hoursOverdue := int(now.Sub(*task.Deadline) / time.Hour)

	message := fmt.Sprintf("Task %q is past its deadline.", task.Title)
	if daysOverdue > 0 {
		message += fmt.Sprintf(" Overdue by %d days.", daysOverdue)
	} else {
		message += fmt.Sprintf(" Overdue by %d hours.", hoursOverdue)
	}
	if !task.Started() {
		message += " It has not been started; pick it up as soon as you can."
	} else {
		message += " It is in progress but over time; prioritize finishing it."
	}

	return model.Notification{
		Type:    model.NotifyReminder,
		Title:   "Overdue task",
		Message: message,
		Data: model.OverdueTaskData{
			TaskID:      task.ID,
			Deadline:    *task.Deadline,
			DaysOverdue: daysOverdue,
			Urgency:     model.UrgencyCritical,
		},
	}
}

func buildLongPendingReminder(task *model.Task, now time.Time) model.Notification {
	daysPending := int(now.Sub(task.CreatedAt) / (24 * time.Hour))

	message := fmt.Sprintf(
		"Task %q has been waiting for %d days. Still needed? Consider cancelling it if not.",
		task.Title, daysPending)

	return model.Notification{
		Type:    model.NotifyReminder,
		Title:   "Long-pending task",
		Message: message,
		Data: model.LongPendingTaskData{
			TaskID:      task.ID,
			DaysPending: daysPending,
		},
	}
}

func buildStaleReminder(task *model.Task, now time.Time) model.Notification {
	daysInactive := int(now.Sub(*task.LastActiveAt) / (24 * time.Hour))

	message := fmt.Sprintf(
		"Task %q has seen no activity for %d days. Continue, or put it on hold?",
		task.Title, daysInactive)

	return model.Notification{
		Type:    model.NotifyReminder,
		Title:   "In-progress task stalled",
		Message: message,
		Data: model.StaleTaskData{
			TaskID:       task.ID,
			DaysInactive: daysInactive,
			LastActiveAt: *task.LastActiveAt,
		},
	}
}
