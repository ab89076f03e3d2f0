package braindump

import (
	"github.com/jryandunlap/brain-dump/internal/models/category"
	"github.com/jryandunlap/brain-dump/internal/models/task"
)

// Materialize turns extracted records into pending tasks owned by userID.
// Category names match exactly; unknown names leave the task uncategorized.
// Effort is copied as-is, so an empty string stays empty rather than becoming NULL.
func Materialize(userID string, categories []*category.Category, extracted []ExtractedTask) []*task.Task {
	tasks := make([]*task.Task, 0, len(extracted))
	for _, e := range extracted {
		t := &task.Task{
			UserID:   userID,
			Title:    e.Title,
			Urgency:  task.Urgency(e.Urgency),
			Priority: e.PriorityScore(),
			Status:   task.StatusPending,
		}
		if e.Effort != nil {
			effort := *e.Effort
			t.Effort = &effort
		}
		if c := category.FindByName(categories, e.Category); c != nil {
			id := c.UUID
			t.CategoryID = &id
		}
		tasks = append(tasks, t)
	}
	return tasks
}
