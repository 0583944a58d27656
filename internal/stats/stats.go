package stats

import (
	"math"
	"time"

	"matrix-planner/internal/model"
)

const week = 7 * 24 * time.Hour

// Summary holds the basic counters shown on the dashboard.
type Summary struct {
	TotalTasks     int // open tasks
	CompletedToday int
	HighPriority   int // open tasks in the do quadrant
	TotalCompleted int
	TotalAll       int
}

// Progress describes completion of the important-or-urgent subset.
type Progress struct {
	Total          int
	Completed      int
	Remaining      int
	CompletionRate int
}

// QuadrantStat counts every task in a quadrant and how many of them are done.
type QuadrantStat struct {
	Total     int
	Completed int
}

// Percent rounds 100*part/whole half-up and returns 0 for an empty whole.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(whole) + 0.5))
}

// IsToday reports whether t falls on the same calendar day as now, in now's location.
func IsToday(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func Summarize(tasks []model.Task, now time.Time) Summary {
	var s Summary
	s.TotalAll = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.TotalCompleted++
			if t.CompletedAt != nil && IsToday(*t.CompletedAt, now) {
				s.CompletedToday++
			}
			continue
		}
		s.TotalTasks++
		if t.Important && t.Urgent {
			s.HighPriority++
		}
	}
	return s
}

// CompletionRate is the share of all tasks that are completed.
func CompletionRate(tasks []model.Task) int {
	return Percent(len(CompletedTasks(tasks)), len(tasks))
}

// TodayProgress reports completion across every important-or-urgent task.
func TodayProgress(tasks []model.Task) Progress {
	var p Progress
	for _, t := range tasks {
		if !t.Important && !t.Urgent {
			continue
		}
		p.Total++
		if t.Completed {
			p.Completed++
		}
	}
	p.Remaining = p.Total - p.Completed
	p.CompletionRate = Percent(p.Completed, p.Total)
	return p
}

func QuadrantStats(tasks []model.Task) map[model.Quadrant]QuadrantStat {
	out := make(map[model.Quadrant]QuadrantStat, 4)
	for _, q := range model.Quadrants() {
		out[q] = QuadrantStat{}
	}
	for _, t := range tasks {
		q := t.Quadrant()
		st := out[q]
		st.Total++
		if t.Completed {
			st.Completed++
		}
		out[q] = st
	}
	return out
}

// QuadrantRatios is each quadrant's share of all tasks.
func QuadrantRatios(tasks []model.Task) map[model.Quadrant]int {
	out := make(map[model.Quadrant]int, 4)
	for q, st := range QuadrantStats(tasks) {
		out[q] = Percent(st.Total, len(tasks))
	}
	return out
}

// WeeklyProgress counts tasks completed within [now-7d, now].
func WeeklyProgress(tasks []model.Task, now time.Time) int {
	from := now.Add(-week)
	n := 0
	for _, t := range tasks {
		if !t.Completed || t.CompletedAt == nil {
			continue
		}
		at := *t.CompletedAt
		if !at.Before(from) && !at.After(now) {
			n++
		}
	}
	return n
}

// UrgentDependency is the share of open tasks that are urgent.
func UrgentDependency(tasks []model.Task) int {
	active := ActiveTasks(tasks)
	urgent := 0
	for _, t := range active {
		if t.Urgent {
			urgent++
		}
	}
	return Percent(urgent, len(active))
}
