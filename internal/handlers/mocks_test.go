package handlers_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/jryandunlap/brain-dump/internal/handlers"
	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	"github.com/jryandunlap/brain-dump/internal/models/task"
)

type MockTaskService struct {
	mock.Mock
}

func taskOrNil(args mock.Arguments) (*task.Task, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) IngestBrainDump(ctx context.Context, userID, dumpText string) ([]*task.Task, error) {
	args := m.Called(ctx, userID, dumpText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, userID string) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) CompleteTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
	return taskOrNil(m.Called(ctx, userID, id))
}

func (m *MockTaskService) ScheduleTask(ctx context.Context, userID string, id uuid.UUID, when time.Time) (*task.Task, error) {
	return taskOrNil(m.Called(ctx, userID, id, when))
}

func (m *MockTaskService) UnscheduleTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
	return taskOrNil(m.Called(ctx, userID, id))
}

func (m *MockTaskService) SkipTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
	return taskOrNil(m.Called(ctx, userID, id))
}

func (m *MockTaskService) UpdatePriority(ctx context.Context, userID string, id uuid.UUID, priority int) (*task.Task, error) {
	return taskOrNil(m.Called(ctx, userID, id, priority))
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) ListCategories(ctx context.Context, userID string) ([]*category.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, c *category.Category) (*category.Category, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, userID string, id uuid.UUID, changes *category.Category) (*category.Category, error) {
	args := m.Called(ctx, userID, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

var _ handlers.CategoryService = (*MockCategoryService)(nil)

type MockGoalsService struct {
	mock.Mock
}

func (m *MockGoalsService) GetGoals(ctx context.Context, userID string) (*goals.Goals, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goals.Goals), args.Error(1)
}

func (m *MockGoalsService) SaveGoals(ctx context.Context, userID string, quarter, year *string) (*goals.Goals, error) {
	args := m.Called(ctx, userID, quarter, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goals.Goals), args.Error(1)
}

func (m *MockGoalsService) Onboard(ctx context.Context, userID string, quarter, year *string, categories []*category.Category) (*goals.Goals, []*category.Category, error) {
	args := m.Called(ctx, userID, quarter, year, categories)
	var g *goals.Goals
	if args.Get(0) != nil {
		g = args.Get(0).(*goals.Goals)
	}
	var created []*category.Category
	if args.Get(1) != nil {
		created = args.Get(1).([]*category.Category)
	}
	return g, created, args.Error(2)
}

var _ handlers.GoalsService = (*MockGoalsService)(nil)

type MockCalendar struct {
	mock.Mock
}

func tokenOrNil(args mock.Arguments) (*oauth2.Token, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockCalendar) AuthCodeURL(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockCalendar) UserFromState(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *MockCalendar) Exchange(ctx context.Context, userID, code string) (*oauth2.Token, error) {
	return tokenOrNil(m.Called(ctx, userID, code))
}

func (m *MockCalendar) Refresh(ctx context.Context, userID string) (*oauth2.Token, error) {
	return tokenOrNil(m.Called(ctx, userID))
}

func (m *MockCalendar) RefreshWithToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	return tokenOrNil(m.Called(ctx, refreshToken))
}

var _ handlers.CalendarAuth = (*MockCalendar)(nil)
