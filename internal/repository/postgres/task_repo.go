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
	"github.com/jryandunlap/brain-dump/internal/models/task"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

const taskColumns = `id,
				user_id,
				category_id,
				title,
				urgency,
				effort,
				priority,
				status,
				scheduled_date,
				google_calendar_event_id,
				created_at,
				updated_at`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.UUID,
		&t.UserID,
		&t.CategoryID,
		&t.Title,
		&t.Urgency,
		&t.Effort,
		&t.Priority,
		&t.Status,
		&t.ScheduledDate,
		&t.GoogleCalendarEventID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

// CreateBatch inserts all tasks in one transaction; either every row lands or none does.
func (s *Storage) CreateBatch(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	start := time.Now()

	query := `INSERT INTO tasks
				(id, user_id, category_id, title, urgency, effort, priority, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING created_at, updated_at`

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: failed to begin transaction", err)
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, t := range tasks {
		if t.UUID == uuid.Nil {
			t.UUID = uuid.New()
		}
		batch.Queue(query,
			t.UUID,
			t.UserID,
			t.CategoryID,
			t.Title,
			t.Urgency,
			t.Effort,
			t.Priority,
			t.Status,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, t := range tasks {
		if err := results.QueryRow().Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
			results.Close()
			logger.Error("Repository: failed to insert task", err,
				zap.String("user_id", t.UserID),
				zap.Duration("ms", time.Since(start)))
			return fmt.Errorf("insert tasks: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		logger.Error("Repository: failed to close batch", err)
		return fmt.Errorf("insert tasks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: failed to commit tasks", err)
		return fmt.Errorf("commit tasks: %w", err)
	}

	warnIfSlow("create_tasks", start, slowQuery+10*time.Millisecond*time.Duration(len(tasks)))
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("get task: %w", err)
	}

	warnIfSlow("get_task", start, slowQuery)
	return t, nil
}

// ListByUser returns the user's tasks, highest priority first.
func (s *Storage) ListByUser(ctx context.Context, userID string) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + `
				FROM tasks
				WHERE user_id = $1
				ORDER BY priority DESC, created_at ASC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: failed to scan task", err)
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	warnIfSlow("list_tasks", start, slowQuery)
	return tasks, nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET category_id = $1,
				title = $2,
				urgency = $3,
				effort = $4,
				priority = $5,
				status = $6,
				scheduled_date = $7,
				google_calendar_event_id = $8,
				updated_at = NOW()
			WHERE id = $9
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.CategoryID,
		taskToUpdate.Title,
		taskToUpdate.Urgency,
		taskToUpdate.Effort,
		taskToUpdate.Priority,
		taskToUpdate.Status,
		taskToUpdate.ScheduledDate,
		taskToUpdate.GoogleCalendarEventID,
		taskToUpdate.UUID,
	).Scan(&taskToUpdate.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: failed to update task", err, zap.String("task_id", taskToUpdate.UUID.String()))
		return fmt.Errorf("update task: %w", err)
	}

	warnIfSlow("update_task", start, slowQuery)
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow("delete_task", start, slowQuery)
	return nil
}
