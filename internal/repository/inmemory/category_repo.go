package inmemory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jryandunlap/brain-dump/internal/models/category"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

func (s *Storage) ListCategories(ctx context.Context, userID string) ([]*category.Category, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*category.Category{}
	for _, c := range s.categories {
		if c.UserID == userID {
			copied := *c
			res = append(res, &copied)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Priority != res[j].Priority {
			return res[i].Priority < res[j].Priority
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (s *Storage) GetCategory(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *Storage) CreateCategory(ctx context.Context, c *category.Category) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now

	copied := *c
	s.categories[c.UUID] = &copied
	return nil
}

func (s *Storage) UpdateCategory(ctx context.Context, c *category.Category) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.categories[c.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	c.UserID = existing.UserID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()

	copied := *c
	s.categories[c.UUID] = &copied
	return nil
}

func (s *Storage) HasCategories(ctx context.Context, userID string) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, c := range s.categories {
		if c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
