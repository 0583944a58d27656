package model

import (
	"fmt"
	"strings"
)

// Quadrant is one cell of the Eisenhower matrix.
type Quadrant string

const (
	QuadrantDo        Quadrant = "do"
	QuadrantPlan      Quadrant = "plan"
	QuadrantDelegate  Quadrant = "delegate"
	QuadrantEliminate Quadrant = "eliminate"
)

// Classify maps importance and urgency to a quadrant.
func Classify(important, urgent bool) Quadrant {
	switch {
	case important && urgent:
		return QuadrantDo
	case important && !urgent:
		return QuadrantPlan
	case !important && urgent:
		return QuadrantDelegate
	default:
		return QuadrantEliminate
	}
}

// Quadrants lists every quadrant in matrix order.
func Quadrants() []Quadrant {
	return []Quadrant{QuadrantDo, QuadrantPlan, QuadrantDelegate, QuadrantEliminate}
}

// ParseQuadrant accepts a quadrant name or its 1-based matrix position.
func ParseQuadrant(raw string) (Quadrant, error) {
	value := strings.TrimSpace(strings.ToLower(raw))
	switch value {
	case "do", "1", "q1":
		return QuadrantDo, nil
	case "plan", "2", "q2":
		return QuadrantPlan, nil
	case "delegate", "3", "q3":
		return QuadrantDelegate, nil
	case "eliminate", "4", "q4":
		return QuadrantEliminate, nil
	default:
		return "", fmt.Errorf("unknown quadrant %q", raw)
	}
}

// Flags returns the importance and urgency that classify into q.
func (q Quadrant) Flags() (important, urgent bool) {
	switch q {
	case QuadrantDo:
		return true, true
	case QuadrantPlan:
		return true, false
	case QuadrantDelegate:
		return false, true
	default:
		return false, false
	}
}

// Label is the human-readable name shown by front ends.
func (q Quadrant) Label() string {
	switch q {
	case QuadrantDo:
		return "Do first"
	case QuadrantPlan:
		return "Plan"
	case QuadrantDelegate:
		return "Delegate"
	case QuadrantEliminate:
		return "Eliminate"
	default:
		return string(q)
	}
}

func (q Quadrant) Valid() bool {
	switch q {
	case QuadrantDo, QuadrantPlan, QuadrantDelegate, QuadrantEliminate:
		return true
	}
	return false
}
