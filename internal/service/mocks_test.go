package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	"github.com/jryandunlap/brain-dump/internal/models/task"
	"github.com/jryandunlap/brain-dump/internal/service"
)

// MockRepository mocks every store method the services use.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) CreateBatch(ctx context.Context, tasks []*task.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID string) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListCategories(ctx context.Context, userID string) ([]*category.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockRepository) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockRepository) CreateCategory(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) UpdateCategory(ctx context.Context, c *category.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) HasCategories(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetGoals(ctx context.Context, userID string) (*goals.Goals, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goals.Goals), args.Error(1)
}

func (m *MockRepository) ListGoals(ctx context.Context, userID string) ([]*goals.Goals, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*goals.Goals), args.Error(1)
}

func (m *MockRepository) UpsertGoals(ctx context.Context, g *goals.Goals) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockRepository) UpdateGoals(ctx context.Context, g *goals.Goals) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockRepository) DeleteGoalsByIDs(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

var _ service.Repository = (*MockRepository)(nil)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Run(ctx context.Context, userID string, categories []*category.Category, g *goals.Goals, dumpText string) ([]*task.Task, error) {
	args := m.Called(ctx, userID, categories, g, dumpText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

var _ service.Extractor = (*MockExtractor)(nil)

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) CreateEvent(ctx context.Context, userID, summary string, start time.Time) (string, error) {
	args := m.Called(ctx, userID, summary, start)
	return args.String(0), args.Error(1)
}

var _ service.EventScheduler = (*MockScheduler)(nil)
