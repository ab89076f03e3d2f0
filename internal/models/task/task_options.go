package task

import (
	"time"
)

type TaskOption func(*Task)

func WithStatus(status Status) TaskOption {
	if status == "" {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority int) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

// WithSkip lowers priority by SkipPenalty, never below zero. Status is left alone.
func WithSkip() TaskOption {
	return func(task *Task) {
		task.Priority = max(0, task.Priority-SkipPenalty)
	}
}

func WithSchedule(when time.Time, eventID string) TaskOption {
	if when.IsZero() {
		return nil
	}
	return func(task *Task) {
		task.Status = StatusScheduled
		task.ScheduledDate = &when
		if eventID != "" {
			task.GoogleCalendarEventID = &eventID
		}
	}
}

// WithUnschedule puts the task back to pending. The calendar event id is kept,
// the event itself is not removed from the calendar.
func WithUnschedule() TaskOption {
	return func(task *Task) {
		task.Status = StatusPending
		task.ScheduledDate = nil
	}
}

func Apply(t *Task, options ...TaskOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}
