package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matrix-planner/internal/model"
	"matrix-planner/internal/stats"
	"matrix-planner/internal/store"
)

var now = time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)

type fixture struct {
	tasks *store.TaskStore
	rocks *store.BigRocksStore
	ui    *store.UIStore
	svc   *TaskService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := store.WithClock(func() time.Time { return now })
	tasks, err := store.NewTaskStore(context.Background(), nil, clock)
	require.NoError(t, err)
	rocks, err := store.NewBigRocksStore(context.Background(), nil)
	require.NoError(t, err)
	// Status clears are never fired in these tests.
	ui := store.NewUIStore(store.WithAfterFunc(func(time.Duration, func()) func() bool {
		return func() bool { return true }
	}))
	return fixture{tasks: tasks, rocks: rocks, ui: ui, svc: NewTaskService(tasks, ui, nil)}
}

func TestCaptureTrimsAndResetsDraft(t *testing.T) {
	f := newFixture(t)
	f.ui.ToggleQuickCapture(true)
	f.ui.SetCaptureDraft("  Plan sprint  ", true, false)

	task, err := f.svc.CaptureDraft()
	require.NoError(t, err)
	assert.Equal(t, "Plan sprint", task.Title)
	assert.Equal(t, model.QuadrantPlan, task.Quadrant())

	st := f.ui.Snapshot()
	assert.False(t, st.ShowQuickCapture)
	assert.Empty(t, st.TaskInput)
	assert.False(t, st.CaptureImportant)
	assert.Contains(t, st.StatusMessage, "Plan sprint")
}

func TestCaptureRejectsBlankTitle(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Capture("   ", true, true)
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, f.tasks.Tasks())
}

func TestCaptureInQuadrant(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.CaptureInQuadrant("Reply", model.QuadrantDelegate)
	require.NoError(t, err)
	assert.False(t, task.Important)
	assert.True(t, task.Urgent)

	_, err = f.svc.CaptureInQuadrant("x", model.Quadrant("later"))
	assert.ErrorIs(t, err, ErrInvalidQuadrant)
}

func TestToggleActions(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.Capture("Call", false, false)
	require.NoError(t, err)

	done, err := f.svc.ToggleCompleted(task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, `Completed "Call"`, f.ui.Snapshot().StatusMessage)

	reopened, err := f.svc.ToggleCompleted(task.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Equal(t, `Reopened "Call"`, f.ui.Snapshot().StatusMessage)

	moved, err := f.svc.ToggleImportant(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuadrantPlan, moved.Quadrant())

	moved, err = f.svc.ToggleUrgent(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuadrantDo, moved.Quadrant())

	_, err = f.svc.Delete(task.ID)
	require.NoError(t, err)
	assert.Empty(t, f.tasks.Tasks())
}

func TestActionsOnUnknownID(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ToggleCompleted(1)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = f.svc.ToggleImportant(1)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = f.svc.ToggleUrgent(1)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = f.svc.Delete(1)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Empty(t, f.ui.Snapshot().StatusMessage)
}

func TestDailyReport(t *testing.T) {
	f := newFixture(t)
	f.tasks.Add("Fire", true, true)
	f.tasks.Add("Strategy", true, false)
	f.tasks.Add("Noise", false, false)
	done := f.tasks.Add("Shipped", true, true)
	f.tasks.ToggleCompleted(done.ID)
	f.rocks.Add("work", "Launch")

	r := NewReportService(f.tasks, f.rocks).Daily(now)
	assert.Len(t, r.Today[model.QuadrantDo], 1)
	assert.Len(t, r.Today[model.QuadrantPlan], 1)
	assert.Empty(t, r.Today[model.QuadrantEliminate])
	assert.Equal(t, 1, r.Summary.CompletedToday)
	assert.Equal(t, stats.Progress{Total: 3, Completed: 1, Remaining: 2, CompletionRate: 33}, r.Progress)
	assert.Equal(t, 50, r.Q2Ratio)

	text := r.String()
	assert.True(t, strings.HasPrefix(text, "📋 Daily summary"))
	assert.Contains(t, text, "Strategy")
	assert.NotContains(t, text, "Noise")
	assert.Contains(t, text, "work: Launch")
}

func TestDailyReportEmpty(t *testing.T) {
	f := newFixture(t)
	text := NewReportService(f.tasks, f.rocks).DailySummary(now)
	assert.Contains(t, text, "nothing important or urgent")
	assert.NotContains(t, text, "Big rocks")
}

func TestWeeklyReport(t *testing.T) {
	f := newFixture(t)
	a := f.tasks.Add("a", true, false)
	f.tasks.Add("b", false, true)
	f.tasks.Add("c", true, false)
	f.tasks.ToggleCompleted(a.ID)

	r := NewReportService(f.tasks, f.rocks).Weekly(now)
	assert.Equal(t, 1, r.CompletedThisWeek)
	assert.Equal(t, 33, r.CompletionRate)
	assert.Equal(t, 50, r.Q2Ratio)
	assert.Equal(t, stats.BandYellow, r.Q2Band)
	assert.Equal(t, 50, r.UrgentDependency)
	assert.Equal(t, stats.BandYellow, r.UrgentBand)
	assert.Equal(t, stats.QuadrantStat{Total: 2, Completed: 1}, r.Quadrants[model.QuadrantPlan])

	text := NewReportService(f.tasks, f.rocks).WeeklyReview(now)
	assert.Contains(t, text, "Completed in the last 7 days: 1")
	assert.Contains(t, text, "🟡 Urgent dependency: 50%")
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("07:45")
	require.NoError(t, err)
	assert.Equal(t, "0 45 7 * * *", spec)

	_, err = buildDailySpec("7")
	assert.Error(t, err)
}

func TestSchedulerRegistersJobs(t *testing.T) {
	s := NewSchedulerService(time.UTC, nil)

	id, err := s.ScheduleDaily("08:00", func() {})
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = s.ScheduleCron("0 0 18 * * SUN", func() {})
	require.NoError(t, err)

	_, err = s.ScheduleCron("not a spec", func() {})
	assert.Error(t, err)

	_, err = s.ScheduleInterval(500*time.Millisecond, func() {})
	assert.Error(t, err)

	every, err := s.ScheduleInterval(time.Hour, func() {})
	require.NoError(t, err)

	assert.True(t, s.Next(id).IsZero())
	s.Start()
	assert.False(t, s.Next(id).IsZero())
	assert.False(t, s.Next(every).IsZero())
	s.Stop()
}
