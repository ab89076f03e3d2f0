// Package stats computes the dashboard numbers from a snapshot of a user's tasks.
// Every function is pure; "now" and the day boundary location are passed in.
package stats

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jryandunlap/brain-dump/internal/models/task"
)

const (
	day     = 24 * time.Hour
	week    = 7 * day
	TopSize = 5
)

// quickEfforts are the only effort tokens frenzy mode accepts.
var quickEfforts = map[string]struct{}{"5m": {}, "1m": {}, "2m": {}}

type Summary struct {
	Streak            int          `json:"streak"`
	CompletedThisWeek int          `json:"completedThisWeek"`
	QuickWins         int          `json:"quickWins"`
	TotalPoints       int          `json:"totalPoints"`
	Top               []*task.Task `json:"top"`
}

func Compute(tasks []*task.Task, now time.Time, frenzy bool) Summary {
	return Summary{
		Streak:            Streak(tasks, now),
		CompletedThisWeek: CompletedThisWeek(tasks, now),
		QuickWins:         QuickWins(tasks),
		TotalPoints:       TotalPoints(tasks),
		Top:               Top(tasks, TopSize, frenzy),
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func done(tasks []*task.Task) []*task.Task {
	res := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == task.StatusDone {
			res = append(res, t)
		}
	}
	return res
}

// Streak counts consecutive calendar days with a completion, walking back from the
// latest completion. The streak is broken once that completion is older than yesterday.
func Streak(tasks []*task.Task, now time.Time) int {
	completed := done(tasks)
	if len(completed) == 0 {
		return 0
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt().After(completed[j].CompletedAt())
	})

	loc := now.Location()
	yesterday := startOfDay(now, loc).AddDate(0, 0, -1)
	latest := startOfDay(completed[0].CompletedAt(), loc)
	if latest.Before(yesterday) {
		return 0
	}

	streak := 0
	for _, t := range completed {
		completedDay := startOfDay(t.CompletedAt(), loc)
		diffDays := int(latest.Sub(completedDay) / day)
		if diffDays == streak {
			streak++
		} else if diffDays > streak {
			break
		}
	}
	return streak
}

// CompletedThisWeek counts done tasks completed within the last seven days.
func CompletedThisWeek(tasks []*task.Task, now time.Time) int {
	weekAgo := now.Add(-week)
	count := 0
	for _, t := range done(tasks) {
		if !t.CompletedAt().Before(weekAgo) {
			count++
		}
	}
	return count
}

// leadingInt parses the integer prefix of s, ignoring whatever follows.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsQuickWin reports whether effort looks like five minutes or less: it mentions
// minutes and its leading number is at most 5.
func IsQuickWin(effort string) bool {
	if !strings.Contains(effort, "m") {
		return false
	}
	n, ok := leadingInt(effort)
	return ok && n <= 5
}

// QuickWins counts tasks of any status whose effort is a quick win.
func QuickWins(tasks []*task.Task) int {
	count := 0
	for _, t := range tasks {
		if IsQuickWin(t.EffortText()) {
			count++
		}
	}
	return count
}

// TotalPoints sums the priority of completed tasks.
func TotalPoints(tasks []*task.Task) int {
	total := 0
	for _, t := range done(tasks) {
		total += t.Priority
	}
	return total
}

func isFrenzyEffort(effort string) bool {
	_, ok := quickEfforts[strings.TrimSpace(strings.ToLower(effort))]
	return ok
}

// Top returns up to n pending unscheduled tasks, highest priority first.
// In frenzy mode only 1m, 2m and 5m tasks qualify.
func Top(tasks []*task.Task, n int, frenzy bool) []*task.Task {
	candidates := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != task.StatusPending || t.ScheduledDate != nil {
			continue
		}
		if frenzy && !isFrenzyEffort(t.EffortText()) {
			continue
		}
		candidates = append(candidates, t)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}
