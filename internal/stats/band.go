package stats

import "matrix-planner/internal/model"

// Band is a traffic-light rating for a ratio.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// UrgentBand rates urgent dependency; lower is better.
func UrgentBand(ratio int) Band {
	switch {
	case ratio <= 20:
		return BandGreen
	case ratio <= 50:
		return BandYellow
	default:
		return BandRed
	}
}

// Q2Band rates the unrounded share of open tasks that sit in the plan quadrant.
func Q2Band(tasks []model.Task) Band {
	active := ActiveTasks(tasks)
	if len(active) == 0 {
		return BandRed
	}
	plan := 0
	for _, t := range active {
		if t.Important && !t.Urgent {
			plan++
		}
	}
	ratio := float64(plan) * 100 / float64(len(active))
	switch {
	case ratio >= 60:
		return BandGreen
	case ratio >= 30:
		return BandYellow
	default:
		return BandRed
	}
}
