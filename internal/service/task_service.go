package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/task"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

type TaskService struct {
	tasks      TaskRepository
	categories CategoryRepository
	goals      GoalsRepository
	extractor  Extractor
	calendar   EventScheduler
}

func NewTaskService(repository Repository, extractor Extractor, calendar EventScheduler) *TaskService {
	return &TaskService{
		tasks:      repository,
		categories: repository,
		goals:      repository,
		extractor:  extractor,
		calendar:   calendar,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.tasks.HealthCheck(ctx); err != nil {
		return fmt.Errorf("service health check: %w", err)
	}
	return nil
}

// IngestBrainDump extracts tasks from dumpText and stores them as pending.
// Unusable model output is not an error: it yields zero tasks.
func (s *TaskService) IngestBrainDump(ctx context.Context, userID, dumpText string) ([]*task.Task, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "required")
	}
	if dumpText == "" {
		return nil, NewValidationError("dumpText", "required")
	}
	start := time.Now()

	categories, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		logger.Error("Service: failed to fetch categories", err, zap.String("user_id", userID))
		return nil, NewBusinessError(CodeCategoriesFetchFailed, "Failed to fetch categories").Wrap(err)
	}

	g, err := s.goals.GetGoals(ctx, userID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Service: failed to fetch goals, continuing without them", err, zap.String("user_id", userID))
		}
		g = nil
	}

	tasks, err := s.extractor.Run(ctx, userID, categories, g, dumpText)
	if err != nil {
		logger.Error("Service: extraction failed", err, zap.String("user_id", userID))
		return nil, fmt.Errorf("ingest brain dump: %w", err)
	}

	if len(tasks) == 0 {
		logger.Info("Service: no tasks extracted", zap.String("user_id", userID))
		return []*task.Task{}, nil
	}

	if err := s.tasks.CreateBatch(ctx, tasks); err != nil {
		logger.Error("Service: failed to save tasks", err,
			zap.String("user_id", userID),
			zap.Int("count", len(tasks)))
		return nil, NewBusinessError(CodeTasksSaveFailed, "Failed to save tasks", ToDetail("count", len(tasks))).Wrap(err)
	}

	logger.Info("Service: brain dump ingested",
		zap.String("user_id", userID),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))
	return tasks, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]*task.Task, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "required")
	}
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// getOwned loads a task; a non-empty userID must own it.
func (s *TaskService) getOwned(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: task not found", zap.String("target_id", id.String()))
			return nil, NewNotFound("task", id.String())
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	if userID != "" && t.UserID != userID {
		logger.Warn("Service: task belongs to another user",
			zap.String("target_id", id.String()),
			zap.String("user_id", userID))
		return nil, NewNotFound("task", id.String())
	}
	return t, nil
}

func (s *TaskService) update(ctx context.Context, userID string, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	t, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	task.Apply(t, options...)

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("task", id.String())
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// CompleteTask marks the task done; the store stamps updated_at, which statistics read as the completion time.
func (s *TaskService) CompleteTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
	return s.update(ctx, userID, id, task.WithStatus(task.StatusDone))
}

// ScheduleTask books the task on the calendar first and only then marks it scheduled.
func (s *TaskService) ScheduleTask(ctx context.Context, userID string, id uuid.UUID, when time.Time) (*task.Task, error) {
	if when.IsZero() {
		return nil, NewValidationError("date", "required")
	}
	t, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s.calendar == nil {
		return nil, NewBusinessError(CodeCalendarFailed, "calendar is not configured")
	}

	eventID, err := s.calendar.CreateEvent(ctx, t.UserID, t.Title, when)
	if err != nil {
		logger.Error("Service: failed to create calendar event", err,
			zap.String("task_id", id.String()),
			zap.String("user_id", t.UserID))
		return nil, NewBusinessError(CodeCalendarFailed, "Failed to schedule task",
			ToDetail("task_id", id.String())).Wrap(err)
	}

	task.Apply(t, task.WithSchedule(when, eventID))
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	logger.Info("Service: task scheduled",
		zap.String("task_id", id.String()),
		zap.Time("scheduled_date", when))
	return t, nil
}

func (s *TaskService) UnscheduleTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
	return s.update(ctx, userID, id, task.WithUnschedule())
}

func (s *TaskService) SkipTask(ctx context.Context, userID string, id uuid.UUID) (*task.Task, error) {
	return s.update(ctx, userID, id, task.WithSkip())
}

func (s *TaskService) UpdatePriority(ctx context.Context, userID string, id uuid.UUID, priority int) (*task.Task, error) {
	return s.update(ctx, userID, id, task.WithPriority(priority))
}

func (s *TaskService) DeleteTask(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFound("task", id.String())
		}
		return fmt.Errorf("delete task: %w", err)
	}
	logger.Info("Service: task deleted", zap.String("task_id", id.String()))
	return nil
}
