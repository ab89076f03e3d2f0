package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

const goalsColumns = `id, user_id, quarter_goals, year_goals, created_at, updated_at`

func scanGoals(row pgx.Row) (*goals.Goals, error) {
	g := &goals.Goals{}
	err := row.Scan(&g.UUID, &g.UserID, &g.QuarterGoals, &g.YearGoals, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// GetGoals returns the user's goals row, or repo.ErrNotFound.
func (s *Storage) GetGoals(ctx context.Context, userID string) (*goals.Goals, error) {
	query := `SELECT ` + goalsColumns + `
				FROM goals
				WHERE user_id = $1
				ORDER BY created_at ASC
				LIMIT 1`

	g, err := scanGoals(s.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get goals", err, zap.String("user_id", userID))
		return nil, fmt.Errorf("get goals: %w", err)
	}
	return g, nil
}

// ListGoals returns every goals row of the user, oldest first.
func (s *Storage) ListGoals(ctx context.Context, userID string) ([]*goals.Goals, error) {
	query := `SELECT ` + goalsColumns + `
				FROM goals
				WHERE user_id = $1
				ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: failed to list goals", err, zap.String("user_id", userID))
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	result := []*goals.Goals{}
	for rows.Next() {
		g, err := scanGoals(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goals: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// UpsertGoals inserts the user's goals or overwrites the existing row; uq_goals_user
// makes concurrent first writes converge on one row.
func (s *Storage) UpsertGoals(ctx context.Context, g *goals.Goals) error {
	if g.UUID == uuid.Nil {
		g.UUID = uuid.New()
	}

	query := `INSERT INTO goals (id, user_id, quarter_goals, year_goals)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (user_id) DO UPDATE
				SET quarter_goals = EXCLUDED.quarter_goals,
					year_goals = EXCLUDED.year_goals,
					updated_at = NOW()
				RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query, g.UUID, g.UserID, g.QuarterGoals, g.YearGoals).
		Scan(&g.UUID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		logger.Error("Repository: failed to upsert goals", err, zap.String("user_id", g.UserID))
		return fmt.Errorf("upsert goals: %w", err)
	}
	return nil
}

func (s *Storage) UpdateGoals(ctx context.Context, g *goals.Goals) error {
	query := `UPDATE goals
			SET quarter_goals = $1,
				year_goals = $2,
				updated_at = NOW()
			WHERE id = $3
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query, g.QuarterGoals, g.YearGoals, g.UUID).Scan(&g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: failed to update goals", err, zap.String("goals_id", g.UUID.String()))
		return fmt.Errorf("update goals: %w", err)
	}
	return nil
}

func (s *Storage) DeleteGoalsByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM goals WHERE id = ANY($1)`, ids); err != nil {
		logger.Error("Repository: failed to delete goals", err, zap.Int("count", len(ids)))
		return fmt.Errorf("delete goals: %w", err)
	}
	return nil
}
