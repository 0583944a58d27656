package shortcuts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matrix-planner/internal/model"
	"matrix-planner/internal/store"
)

func TestHandleViewAndCapture(t *testing.T) {
	ui := store.NewUIStore()
	d := NewDispatcher(ui)

	assert.True(t, d.Handle("N", false))
	assert.True(t, ui.Snapshot().ShowQuickCapture)

	assert.True(t, d.Handle("w", false))
	assert.Equal(t, model.ViewWeek, ui.Snapshot().View)

	assert.True(t, d.Handle("t", false))
	assert.Equal(t, model.ViewToday, ui.Snapshot().View)

	assert.True(t, d.Handle("Escape", false))
	assert.False(t, ui.Snapshot().ShowQuickCapture)
}

func TestQuadrantKeysOnlyInWeekView(t *testing.T) {
	ui := store.NewUIStore()
	d := NewDispatcher(ui)

	assert.False(t, d.Handle("2", false))
	assert.Equal(t, model.QuadrantDo, ui.Snapshot().Quadrant)

	ui.SwitchToWeekView()
	cases := map[string]model.Quadrant{
		"1": model.QuadrantDo,
		"2": model.QuadrantPlan,
		"3": model.QuadrantDelegate,
		"4": model.QuadrantEliminate,
	}
	for key, want := range cases {
		assert.True(t, d.Handle(key, false))
		assert.Equal(t, want, ui.Snapshot().Quadrant)
	}
}

func TestInputSuppressesAllButEscape(t *testing.T) {
	ui := store.NewUIStore()
	d := NewDispatcher(ui)
	ui.ToggleBigRocks(true)

	assert.False(t, d.Handle("n", true))
	assert.False(t, ui.Snapshot().ShowQuickCapture)

	assert.True(t, d.Handle("esc", true))
	assert.False(t, ui.Snapshot().ShowBigRocks)
}

func TestUnboundKey(t *testing.T) {
	d := NewDispatcher(store.NewUIStore())
	assert.False(t, d.Handle("x", false))
	assert.False(t, Bound("x"))
	assert.True(t, Bound("W"))
}
