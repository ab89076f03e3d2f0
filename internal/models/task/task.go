package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID                  uuid.UUID  `json:"id" db:"id"`
	UserID                string     `json:"user_id" db:"user_id"`
	CategoryID            *uuid.UUID `json:"category_id" db:"category_id"`
	Title                 string     `json:"title" db:"title"`
	Urgency               Urgency    `json:"urgency" db:"urgency"`
	Effort                *string    `json:"effort" db:"effort"`
	Priority              int        `json:"priority" db:"priority"`
	Status                Status     `json:"status" db:"status"`
	ScheduledDate         *time.Time `json:"scheduled_date" db:"scheduled_date"`
	GoogleCalendarEventID *string    `json:"google_calendar_event_id" db:"google_calendar_event_id"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

type Status string
type Urgency string

const StatusPending Status = "pending"
const StatusScheduled Status = "scheduled"
const StatusDone Status = "done"

const UrgencyHigh Urgency = "high"
const UrgencyMedium Urgency = "medium"
const UrgencyLow Urgency = "low"

// SkipPenalty is how far a skipped task drops in priority.
const SkipPenalty = 10

// CompletedAt is the best known completion time: the last update, or creation if the row was never touched.
func (t *Task) CompletedAt() time.Time {
	if t.UpdatedAt.IsZero() {
		return t.CreatedAt
	}
	return t.UpdatedAt
}

func (t *Task) EffortText() string {
	if t.Effort == nil {
		return ""
	}
	return *t.Effort
}
