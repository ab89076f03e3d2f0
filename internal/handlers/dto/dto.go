package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/task"
)

type BrainDumpRequest struct {
	DumpText string `json:"dumpText"`
	UserID   string `json:"userId"`
}

type BrainDumpResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ScheduleRequest carries a local wall-clock slot: date "2006-01-02", time "15:04".
type ScheduleRequest struct {
	UserID   string `json:"userId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	TimeZone string `json:"timeZone,omitempty"`
}

type PriorityRequest struct {
	Priority *int `json:"priority"`
}

type CategoryRequest struct {
	UserID         string  `json:"userId"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	Description    *string `json:"description"`
	Goals          *string `json:"goals"`
	TimeAllocation *string `json:"time_allocation"`
	Priority       int     `json:"priority"`
}

func (c CategoryRequest) ToCategory() *category.Category {
	return &category.Category{
		UserID:         c.UserID,
		Name:           c.Name,
		Color:          c.Color,
		Description:    c.Description,
		Goals:          c.Goals,
		TimeAllocation: c.TimeAllocation,
		Priority:       c.Priority,
	}
}

type GoalsRequest struct {
	UserID       string  `json:"userId"`
	QuarterGoals *string `json:"quarterGoals"`
	YearGoals    *string `json:"yearGoals"`
}

type OnboardingRequest struct {
	GoalsRequest
	Categories []CategoryRequest `json:"categories"`
}

type RefreshRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

type TaskResponse struct {
	UUID                  uuid.UUID  `json:"id"`
	UserID                string     `json:"user_id"`
	CategoryID            *uuid.UUID `json:"category_id"`
	Title                 string     `json:"title"`
	Urgency               string     `json:"urgency"`
	Effort                *string    `json:"effort"`
	Priority              int        `json:"priority"`
	Status                string     `json:"status"`
	ScheduledDate         *time.Time `json:"scheduled_date"`
	GoogleCalendarEventID *string    `json:"google_calendar_event_id"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:                  t.UUID,
		UserID:                t.UserID,
		CategoryID:            t.CategoryID,
		Title:                 t.Title,
		Urgency:               string(t.Urgency),
		Effort:                t.Effort,
		Priority:              t.Priority,
		Status:                string(t.Status),
		ScheduledDate:         t.ScheduledDate,
		GoogleCalendarEventID: t.GoogleCalendarEventID,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
