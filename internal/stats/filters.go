// Package stats derives filtered views and ratios from a task list.
package stats

import "matrix-planner/internal/model"

// TodayTasks returns open tasks flagged important or urgent.
func TodayTasks(tasks []model.Task) []model.Task {
	return filter(tasks, func(t model.Task) bool {
		return !t.Completed && (t.Important || t.Urgent)
	})
}

// QuadrantTasks returns every task in q, completed or not.
func QuadrantTasks(tasks []model.Task, q model.Quadrant) []model.Task {
	return filter(tasks, func(t model.Task) bool {
		return t.Quadrant() == q
	})
}

func ActiveTasks(tasks []model.Task) []model.Task {
	return filter(tasks, func(t model.Task) bool { return !t.Completed })
}

func CompletedTasks(tasks []model.Task) []model.Task {
	return filter(tasks, func(t model.Task) bool { return t.Completed })
}

// QuadrantCounts counts open tasks per quadrant.
func QuadrantCounts(tasks []model.Task) map[model.Quadrant]int {
	counts := make(map[model.Quadrant]int, 4)
	for _, q := range model.Quadrants() {
		counts[q] = 0
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		counts[t.Quadrant()]++
	}
	return counts
}

// Q2Ratio is the share of today's tasks that are important but not urgent.
func Q2Ratio(tasks []model.Task) int {
	today := TodayTasks(tasks)
	if len(today) == 0 {
		return 0
	}
	plan := 0
	for _, t := range today {
		if t.Important && !t.Urgent {
			plan++
		}
	}
	return Percent(plan, len(today))
}

func filter(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
