package goals

import (
	"time"

	"github.com/google/uuid"
)

// Goals is a per-user singleton.
type Goals struct {
	UUID         uuid.UUID `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	QuarterGoals *string   `json:"quarter_goals" db:"quarter_goals"`
	YearGoals    *string   `json:"year_goals" db:"year_goals"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

const NoQuarterGoals = "No quarterly goals set"
const NoYearGoals = "No yearly goals set"

// QuarterText returns the quarterly goals or the placeholder when unset or empty.
func (g *Goals) QuarterText() string {
	if g == nil || g.QuarterGoals == nil || *g.QuarterGoals == "" {
		return NoQuarterGoals
	}
	return *g.QuarterGoals
}

func (g *Goals) YearText() string {
	if g == nil || g.YearGoals == nil || *g.YearGoals == "" {
		return NoYearGoals
	}
	return *g.YearGoals
}
