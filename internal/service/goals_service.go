package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

type GoalsService struct {
	goals      GoalsRepository
	categories CategoryRepository
}

func NewGoalsService(goalsRepo GoalsRepository, categoryRepo CategoryRepository) *GoalsService {
	return &GoalsService{
		goals:      goalsRepo,
		categories: categoryRepo,
	}
}

func (s *GoalsService) GetGoals(ctx context.Context, userID string) (*goals.Goals, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "required")
	}
	g, err := s.goals.GetGoals(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("goals", userID)
		}
		return nil, fmt.Errorf("get goals: %w", err)
	}
	return g, nil
}

// SaveGoals writes the user's single goals row. Duplicate rows left from before the
// unique index are removed first: the earliest survives and is updated.
func (s *GoalsService) SaveGoals(ctx context.Context, userID string, quarter, year *string) (*goals.Goals, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "required")
	}

	rows, err := s.goals.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	if len(rows) == 0 {
		return s.upsert(ctx, userID, quarter, year)
	}

	if len(rows) > 1 {
		stale := make([]uuid.UUID, 0, len(rows)-1)
		for _, g := range rows[1:] {
			stale = append(stale, g.UUID)
		}
		logger.Warn("Service: duplicate goals rows found, keeping the earliest",
			zap.String("user_id", userID),
			zap.String("kept_id", rows[0].UUID.String()),
			zap.Int("removed", len(stale)))
		if err := s.goals.DeleteGoalsByIDs(ctx, stale); err != nil {
			return nil, fmt.Errorf("delete duplicate goals: %w", err)
		}
	}

	survivor := rows[0]
	survivor.QuarterGoals = quarter
	survivor.YearGoals = year
	if err := s.goals.UpdateGoals(ctx, survivor); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return s.upsert(ctx, userID, quarter, year)
		}
		return nil, fmt.Errorf("update goals: %w", err)
	}
	return survivor, nil
}

func (s *GoalsService) upsert(ctx context.Context, userID string, quarter, year *string) (*goals.Goals, error) {
	g := &goals.Goals{
		UserID:       userID,
		QuarterGoals: quarter,
		YearGoals:    year,
	}
	if err := s.goals.UpsertGoals(ctx, g); err != nil {
		return nil, fmt.Errorf("upsert goals: %w", err)
	}
	return g, nil
}

// Onboard saves the goals and seeds categories for a user who has none.
// When no categories are supplied the defaults are used.
func (s *GoalsService) Onboard(ctx context.Context, userID string, quarter, year *string, categories []*category.Category) (*goals.Goals, []*category.Category, error) {
	g, err := s.SaveGoals(ctx, userID, quarter, year)
	if err != nil {
		return nil, nil, err
	}

	exists, err := s.categories.HasCategories(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("check categories: %w", err)
	}
	if exists {
		logger.Info("Service: user already has categories, skipping defaults", zap.String("user_id", userID))
		return g, []*category.Category{}, nil
	}

	if len(categories) == 0 {
		categories = category.Defaults()
	}
	for _, c := range categories {
		c.UserID = userID
		if c.Color == "" {
			c.Color = category.DefaultColor
		}
		if err := s.categories.CreateCategory(ctx, c); err != nil {
			logger.Error("Service: failed to create onboarding category", err,
				zap.String("user_id", userID),
				zap.String("name", c.Name))
			return nil, nil, fmt.Errorf("create category %q: %w", c.Name, err)
		}
	}

	logger.Info("Service: user onboarded",
		zap.String("user_id", userID),
		zap.Int("categories", len(categories)))
	return g, categories, nil
}
