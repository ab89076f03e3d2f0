package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/goals"
	"github.com/jryandunlap/brain-dump/internal/models/task"
	repo "github.com/jryandunlap/brain-dump/internal/repository"
)

// Storage keeps every table in memory. Rows are copied on the way in and out so
// callers never share pointers with the store.
type Storage struct {
	mtx        *sync.RWMutex
	tasks      map[uuid.UUID]*task.Task
	taskIDs    []uuid.UUID
	categories map[uuid.UUID]*category.Category
	goals      map[string]*goals.Goals // user_id -> goals
	now        func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		mtx:        &sync.RWMutex{},
		tasks:      make(map[uuid.UUID]*task.Task),
		taskIDs:    []uuid.UUID{},
		categories: make(map[uuid.UUID]*category.Category),
		goals:      make(map[string]*goals.Goals),
		now:        time.Now,
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return nil
}

func copyTask(t *task.Task) *task.Task {
	c := *t
	return &c
}

func (s *Storage) CreateBatch(ctx context.Context, tasks []*task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	for _, t := range tasks {
		if t.UUID == uuid.Nil {
			t.UUID = uuid.New()
		}
		t.CreatedAt = now
		t.UpdatedAt = now

		s.tasks[t.UUID] = copyTask(t)
		s.taskIDs = append(s.taskIDs, t.UUID)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return copyTask(t), nil
}

func (s *Storage) ListByUser(ctx context.Context, userID string) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.taskIDs {
		if t := s.tasks[id]; t.UserID == userID {
			res = append(res, copyTask(t))
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Priority > res[j].Priority
	})
	return res, nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[taskToUpdate.UUID]; !ok {
		return repo.ErrNotFound
	}
	taskToUpdate.UpdatedAt = s.now()
	s.tasks[taskToUpdate.UUID] = copyTask(taskToUpdate)
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.tasks, id)
	for ind, val := range s.taskIDs {
		if val == id {
			s.taskIDs = append(s.taskIDs[:ind], s.taskIDs[ind+1:]...)
			break
		}
	}
	return nil
}
