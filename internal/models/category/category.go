package category

import (
	"time"

	"github.com/google/uuid"
)

// Category groups tasks. Lower Priority means more important; it is only a sort key.
type Category struct {
	UUID           uuid.UUID `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Color          string    `json:"color" db:"color"`
	Description    *string   `json:"description" db:"description"`
	Goals          *string   `json:"goals" db:"goals"`
	TimeAllocation *string   `json:"time_allocation" db:"time_allocation"`
	Priority       int       `json:"priority" db:"priority"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

const DefaultColor = "#00ff9d"

// FindByName returns the first category whose name matches exactly.
func FindByName(categories []*Category, name string) *Category {
	for _, c := range categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }

// Defaults are the categories offered to a user on first use.
func Defaults() []*Category {
	return []*Category{
		{
			Name:           "Work",
			Color:          "#00ff9d",
			Description:    strPtr("My day job and career"),
			Goals:          strPtr(""),
			TimeAllocation: strPtr("40 hrs/week"),
			Priority:       1,
		},
		{
			Name:           "Personal",
			Color:          "#00d4ff",
			Description:    strPtr("Personal care, health, and self-improvement"),
			Goals:          strPtr(""),
			TimeAllocation: strPtr("10 hrs/week"),
			Priority:       2,
		},
		{
			Name:           "Family",
			Color:          "#ff6b9d",
			Description:    strPtr("Time with family and loved ones"),
			Goals:          strPtr(""),
			TimeAllocation: strPtr("15 hrs/week"),
			Priority:       3,
		},
	}
}
