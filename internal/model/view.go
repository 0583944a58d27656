package model

import (
	"fmt"
	"strings"
)

// View selects which perspective of the task list is shown.
type View string

const (
	ViewToday View = "today"
	ViewWeek  View = "week"
)

func ParseView(raw string) (View, error) {
	switch View(strings.TrimSpace(strings.ToLower(raw))) {
	case ViewToday:
		return ViewToday, nil
	case ViewWeek:
		return ViewWeek, nil
	default:
		return "", fmt.Errorf("unknown view %q", raw)
	}
}
