package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/category"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

const categoryColumns = `id, user_id, name, color, description, goals, time_allocation, priority, created_at, updated_at`

func scanCategory(row pgx.Row) (*category.Category, error) {
	c := &category.Category{}
	err := row.Scan(
		&c.UUID,
		&c.UserID,
		&c.Name,
		&c.Color,
		&c.Description,
		&c.Goals,
		&c.TimeAllocation,
		&c.Priority,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// ListCategories returns the user's categories, most important (lowest number) first.
func (s *Storage) ListCategories(ctx context.Context, userID string) ([]*category.Category, error) {
	start := time.Now()

	query := `SELECT ` + categoryColumns + `
				FROM categories
				WHERE user_id = $1
				ORDER BY priority ASC, created_at ASC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: failed to list categories", err, zap.String("user_id", userID))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []*category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			logger.Error("Repository: failed to scan category", err)
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	warnIfSlow("list_categories", start, slowQuery)
	return categories, nil
}

func (s *Storage) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get category", err)
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *Storage) CreateCategory(ctx context.Context, c *category.Category) error {
	start := time.Now()
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}

	query := `INSERT INTO categories
				(id, user_id, name, color, description, goals, time_allocation, priority)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		c.UUID,
		c.UserID,
		c.Name,
		c.Color,
		c.Description,
		c.Goals,
		c.TimeAllocation,
		c.Priority,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		logger.Error("Repository: failed to create category", err, zap.String("user_id", c.UserID))
		return fmt.Errorf("create category: %w", err)
	}

	warnIfSlow("create_category", start, slowQuery)
	return nil
}

func (s *Storage) UpdateCategory(ctx context.Context, c *category.Category) error {
	query := `UPDATE categories
			SET name = $1,
				color = $2,
				description = $3,
				goals = $4,
				time_allocation = $5,
				priority = $6,
				updated_at = NOW()
			WHERE id = $7
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		c.Name,
		c.Color,
		c.Description,
		c.Goals,
		c.TimeAllocation,
		c.Priority,
		c.UUID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: failed to update category", err, zap.String("category_id", c.UUID.String()))
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *Storage) HasCategories(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		logger.Error("Repository: failed to check categories", err, zap.String("user_id", userID))
		return false, fmt.Errorf("check categories: %w", err)
	}
	return exists, nil
}
