package inmemory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jryandunlap/brain-dump/internal/models/goals"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

func (s *Storage) GetGoals(ctx context.Context, userID string) (*goals.Goals, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	g, ok := s.goals[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

// ListGoals never returns more than one row: the map is keyed by user, matching
// the unique index of the postgres schema.
func (s *Storage) ListGoals(ctx context.Context, userID string) ([]*goals.Goals, error) {
	g, err := s.GetGoals(ctx, userID)
	if err != nil {
		return []*goals.Goals{}, nil
	}
	return []*goals.Goals{g}, nil
}

func (s *Storage) UpsertGoals(ctx context.Context, g *goals.Goals) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	if existing, ok := s.goals[g.UserID]; ok {
		g.UUID = existing.UUID
		g.CreatedAt = existing.CreatedAt
	} else {
		if g.UUID == uuid.Nil {
			g.UUID = uuid.New()
		}
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	copied := *g
	s.goals[g.UserID] = &copied
	return nil
}

func (s *Storage) UpdateGoals(ctx context.Context, g *goals.Goals) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for userID, existing := range s.goals {
		if existing.UUID == g.UUID {
			existing.QuarterGoals = g.QuarterGoals
			existing.YearGoals = g.YearGoals
			existing.UpdatedAt = s.now()
			g.UserID = userID
			g.CreatedAt = existing.CreatedAt
			g.UpdatedAt = existing.UpdatedAt
			return nil
		}
	}
	return repo.ErrNotFound
}

func (s *Storage) DeleteGoalsByIDs(ctx context.Context, ids []uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, id := range ids {
		for userID, g := range s.goals {
			if g.UUID == id {
				delete(s.goals, userID)
			}
		}
	}
	return nil
}
