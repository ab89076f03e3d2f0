package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	"github.com/jryandunlap/brain-dump/internal/models/task"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	CreateBatch(ctx context.Context, tasks []*task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	ListByUser(ctx context.Context, userID string) ([]*task.Task, error)
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	ListCategories(ctx context.Context, userID string) ([]*category.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error)
	CreateCategory(ctx context.Context, c *category.Category) error
	UpdateCategory(ctx context.Context, c *category.Category) error
	HasCategories(ctx context.Context, userID string) (bool, error)
}

type GoalsRepository interface {
	GetGoals(ctx context.Context, userID string) (*goals.Goals, error)
	ListGoals(ctx context.Context, userID string) ([]*goals.Goals, error)
	UpsertGoals(ctx context.Context, g *goals.Goals) error
	UpdateGoals(ctx context.Context, g *goals.Goals) error
	DeleteGoalsByIDs(ctx context.Context, ids []uuid.UUID) error
}

// Repository is everything one store implementation provides.
type Repository interface {
	TaskRepository
	CategoryRepository
	GoalsRepository
}

// Extractor turns a brain dump into unsaved pending tasks.
type Extractor interface {
	Run(ctx context.Context, userID string, categories []*category.Category, g *goals.Goals, dumpText string) ([]*task.Task, error)
}

// EventScheduler books a one hour slot on the user's calendar and returns the event id.
type EventScheduler interface {
	CreateEvent(ctx context.Context, userID, summary string, start time.Time) (string, error)
}
