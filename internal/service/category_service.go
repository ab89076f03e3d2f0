package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/category"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repository CategoryRepository) *CategoryService {
	return &CategoryService{repo: repository}
}

func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]*category.Category, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "required")
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, c *category.Category) (*category.Category, error) {
	if c.UserID == "" {
		return nil, NewValidationError("userId", "required")
	}
	if c.Name == "" {
		return nil, NewValidationError("name", "required")
	}
	if c.Color == "" {
		c.Color = category.DefaultColor
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		logger.Error("Service: failed to create category", err, zap.String("user_id", c.UserID))
		return nil, fmt.Errorf("create category: %w", err)
	}
	logger.Info("Service: category created",
		zap.String("category_id", c.UUID.String()),
		zap.String("user_id", c.UserID))
	return c, nil
}

// UpdateCategory overwrites the editable fields of an existing category.
// A non-empty userID must own it.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID string, id uuid.UUID, changes *category.Category) (*category.Category, error) {
	if changes.Name == "" {
		return nil, NewValidationError("name", "required")
	}

	existing, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("category", id.String())
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if userID != "" && existing.UserID != userID {
		return nil, NewNotFound("category", id.String())
	}

	existing.Name = changes.Name
	if changes.Color != "" {
		existing.Color = changes.Color
	}
	existing.Description = changes.Description
	existing.Goals = changes.Goals
	existing.TimeAllocation = changes.TimeAllocation
	existing.Priority = changes.Priority

	if err := s.repo.UpdateCategory(ctx, existing); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("category", id.String())
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return existing, nil
}
