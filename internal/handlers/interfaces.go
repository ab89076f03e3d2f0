package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	"github.com/jryandunlap/brain-dump/internal/models/task"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	IngestBrainDump(ctx context.Context, userID, dumpText string) ([]*task.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*task.Task, error)
	CompleteTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error)
	ScheduleTask(ctx context.Context, userID string, id uuid.UUID, when time.Time) (*task.Task, error)
	UnscheduleTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error)
	SkipTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error)
	UpdatePriority(ctx context.Context, userID string, id uuid.UUID, priority int) (*task.Task, error)
	DeleteTask(ctx context.Context, userID string, id uuid.UUID) error
}

type CategoryService interface {
	ListCategories(ctx context.Context, userID string) ([]*category.Category, error)
	CreateCategory(ctx context.Context, c *category.Category) (*category.Category, error)
	UpdateCategory(ctx context.Context, userID string, id uuid.UUID, changes *category.Category) (*category.Category, error)
}

type GoalsService interface {
	GetGoals(ctx context.Context, userID string) (*goals.Goals, error)
	SaveGoals(ctx context.Context, userID string, quarter, year *string) (*goals.Goals, error)
	Onboard(ctx context.Context, userID string, quarter, year *string, categories []*category.Category) (*goals.Goals, []*category.Category, error)
}

// CalendarAuth is the Google OAuth side of the calendar integration.
type CalendarAuth interface {
	AuthCodeURL(userID string) (string, error)
	UserFromState(state string) (string, error)
	Exchange(ctx context.Context, userID, code string) (*oauth2.Token, error)
	Refresh(ctx context.Context, userID string) (*oauth2.Token, error)
	RefreshWithToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}
