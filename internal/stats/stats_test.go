package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jryandunlap/brain-dump/internal/models/task"
	"github.com/jryandunlap/brain-dump/internal/stats"
)

var now = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

func doneAt(daysAgo int, hour int) *task.Task {
	at := time.Date(2025, 6, 10-daysAgo, hour, 0, 0, 0, time.UTC)
	return &task.Task{Status: task.StatusDone, CreatedAt: at.Add(-time.Hour), UpdatedAt: at}
}

func pending(title string, priority int, effort string) *task.Task {
	t := &task.Task{Title: title, Status: task.StatusPending, Priority: priority}
	if effort != "" {
		t.Effort = &effort
	}
	return t
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name  string
		tasks []*task.Task
		want  int
	}{
		{name: "no tasks", want: 0},
		{name: "only pending", tasks: []*task.Task{pending("a", 1, "")}, want: 0},
		{name: "today only", tasks: []*task.Task{doneAt(0, 9)}, want: 1},
		{name: "yesterday keeps streak alive", tasks: []*task.Task{doneAt(1, 9)}, want: 1},
		{name: "two days ago breaks it", tasks: []*task.Task{doneAt(2, 9)}, want: 0},
		{
			name:  "three consecutive days",
			tasks: []*task.Task{doneAt(2, 9), doneAt(0, 8), doneAt(1, 20)},
			want:  3,
		},
		{
			name:  "several completions on one day count once",
			tasks: []*task.Task{doneAt(0, 8), doneAt(0, 12), doneAt(1, 10), doneAt(1, 11)},
			want:  2,
		},
		{
			name:  "gap stops the count",
			tasks: []*task.Task{doneAt(0, 9), doneAt(1, 9), doneAt(3, 9), doneAt(4, 9)},
			want:  2,
		},
		{
			name: "created_at used when never updated",
			tasks: []*task.Task{{
				Status:    task.StatusDone,
				CreatedAt: now.Add(-time.Hour),
			}},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.Streak(tt.tasks, now))
		})
	}
}

func TestCompletedThisWeek(t *testing.T) {
	tasks := []*task.Task{
		doneAt(0, 9),
		doneAt(6, 9),
		doneAt(8, 9),
		pending("not done", 50, ""),
	}
	assert.Equal(t, 2, stats.CompletedThisWeek(tasks, now))
}

func TestIsQuickWin(t *testing.T) {
	tests := []struct {
		effort string
		want   bool
	}{
		{"5m", true},
		{"1m", true},
		{"10m", false},
		{"2h", false},
		{"", false},
		{"m", false},
		{"3 min", true},
		{"1h30m", true},
	}

	for _, tt := range tests {
		t.Run(tt.effort, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.IsQuickWin(tt.effort))
		})
	}
}

func TestQuickWinsAndPoints(t *testing.T) {
	completed := doneAt(0, 9)
	completed.Priority = 40
	quick := "5m"
	completed.Effort = &quick

	tasks := []*task.Task{
		completed,
		pending("reply to email", 30, "2m"),
		pending("write report", 90, "2h"),
	}

	assert.Equal(t, 2, stats.QuickWins(tasks))
	assert.Equal(t, 40, stats.TotalPoints(tasks))
}

func TestTop(t *testing.T) {
	scheduledAt := now.Add(24 * time.Hour)
	scheduled := pending("scheduled", 100, "5m")
	scheduled.ScheduledDate = &scheduledAt

	tasks := []*task.Task{
		pending("p10", 10, "1m"),
		pending("p90", 90, "2h"),
		pending("p50", 50, " 5M "),
		pending("p70", 70, "30m"),
		pending("p20", 20, "2m"),
		pending("p60", 60, "1d"),
		scheduled,
		doneAt(0, 9),
	}

	t.Run("top five by priority", func(t *testing.T) {
		top := stats.Top(tasks, stats.TopSize, false)
		require.Len(t, top, 5)
		titles := []string{}
		for _, tk := range top {
			titles = append(titles, tk.Title)
		}
		assert.Equal(t, []string{"p90", "p70", "p60", "p50", "p20"}, titles)
	})

	t.Run("frenzy keeps only tiny tasks", func(t *testing.T) {
		top := stats.Top(tasks, stats.TopSize, true)
		require.Len(t, top, 3)
		assert.Equal(t, "p50", top[0].Title)
		assert.Equal(t, "p20", top[1].Title)
		assert.Equal(t, "p10", top[2].Title)
	})
}

func TestCompute(t *testing.T) {
	summary := stats.Compute([]*task.Task{doneAt(0, 9), pending("a", 10, "5m")}, now, false)

	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 1, summary.CompletedThisWeek)
	assert.Equal(t, 1, summary.QuickWins)
	assert.Len(t, summary.Top, 1)
}
