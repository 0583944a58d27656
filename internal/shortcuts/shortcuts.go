// Package shortcuts maps single-key commands onto UI store actions.
package shortcuts

import (
	"strings"

	"matrix-planner/internal/model"
	"matrix-planner/internal/store"
)

const KeyEscape = "escape"

// UI is the subset of the UI store the shortcuts drive.
type UI interface {
	Snapshot() store.UIState
	ToggleQuickCapture(value ...bool)
	CloseAllModals()
	SwitchToTodayView()
	SwitchToWeekView()
	SwitchQuadrant(q model.Quadrant)
}

// Dispatcher routes key presses to UI actions.
type Dispatcher struct {
	ui UI
}

func NewDispatcher(ui UI) *Dispatcher {
	return &Dispatcher{ui: ui}
}

// Keys lists every bound key.
func Keys() []string {
	return []string{"n", KeyEscape, "t", "w", "1", "2", "3", "4"}
}

// Bound reports whether key has a binding; callers suppress default handling for it.
func Bound(key string) bool {
	key = normalize(key)
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Handle runs the action bound to key and reports whether one ran.
// Keys typed into an input are ignored, except escape.
func (d *Dispatcher) Handle(key string, fromInput bool) bool {
	key = normalize(key)
	if fromInput && key != KeyEscape {
		return false
	}

	switch key {
	case "n":
		d.ui.ToggleQuickCapture(true)
	case KeyEscape:
		d.ui.CloseAllModals()
	case "t":
		d.ui.SwitchToTodayView()
	case "w":
		d.ui.SwitchToWeekView()
	case "1", "2", "3", "4":
		if d.ui.Snapshot().View != model.ViewWeek {
			return false
		}
		q, err := model.ParseQuadrant(key)
		if err != nil {
			return false
		}
		d.ui.SwitchQuadrant(q)
	default:
		return false
	}
	return true
}

func normalize(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "esc" {
		return KeyEscape
	}
	return key
}
