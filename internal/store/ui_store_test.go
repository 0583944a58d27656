package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matrix-planner/internal/model"
)

func TestUIStoreDefaults(t *testing.T) {
	s := NewUIStore()
	st := s.Snapshot()
	assert.Equal(t, model.ViewToday, st.View)
	assert.Equal(t, model.QuadrantDo, st.Quadrant)
	assert.False(t, st.ShowQuickCapture)
	assert.False(t, st.ShowBigRocks)
	assert.False(t, st.ShowOnboarding)
	assert.False(t, st.ShowWeeklyReview)
	assert.Equal(t, 1, st.OnboardingStep)
	assert.Empty(t, st.TaskInput)
	assert.Empty(t, st.TutorialTaskInput)
	assert.Empty(t, st.StatusMessage)
}

func TestUIStoreViewAndQuadrant(t *testing.T) {
	s := NewUIStore()
	s.SwitchToWeekView()
	assert.Equal(t, model.ViewWeek, s.Snapshot().View)
	s.SwitchToTodayView()
	assert.Equal(t, model.ViewToday, s.Snapshot().View)

	for _, q := range model.Quadrants() {
		s.SwitchQuadrant(q)
		assert.Equal(t, q, s.Snapshot().Quadrant)
	}
}

func TestUIStoreModalToggles(t *testing.T) {
	s := NewUIStore()

	s.ToggleQuickCapture()
	assert.True(t, s.Snapshot().ShowQuickCapture)
	s.ToggleQuickCapture()
	assert.False(t, s.Snapshot().ShowQuickCapture)
	s.ToggleQuickCapture(true)
	s.ToggleQuickCapture(true)
	assert.True(t, s.Snapshot().ShowQuickCapture)

	s.ToggleBigRocks()
	s.ToggleOnboarding()
	s.ToggleWeeklyReview(true)
	st := s.Snapshot()
	assert.True(t, st.ShowBigRocks)
	assert.True(t, st.ShowOnboarding)
	assert.True(t, st.ShowWeeklyReview)

	s.CloseAllModals()
	st = s.Snapshot()
	assert.False(t, st.ShowQuickCapture)
	assert.False(t, st.ShowBigRocks)
	assert.False(t, st.ShowOnboarding)
	assert.False(t, st.ShowWeeklyReview)
}

func TestUIStoreCaptureState(t *testing.T) {
	s := NewUIStore()
	s.SetCaptureDraft("Test task", true, true)
	s.SetTutorialTaskInput("tutorial")

	st := s.Snapshot()
	assert.Equal(t, "Test task", st.TaskInput)
	assert.True(t, st.CaptureImportant)
	assert.True(t, st.CaptureUrgent)

	s.ResetCaptureState()
	st = s.Snapshot()
	assert.Empty(t, st.TaskInput)
	assert.False(t, st.CaptureImportant)
	assert.False(t, st.CaptureUrgent)
	assert.Equal(t, "tutorial", st.TutorialTaskInput)
}

func TestUIStoreOnboardingSteps(t *testing.T) {
	s := NewUIStore()
	s.NextOnboardingStep()
	assert.Equal(t, 2, s.Snapshot().OnboardingStep)
	s.NextOnboardingStep()
	s.NextOnboardingStep()
	assert.Equal(t, 3, s.Snapshot().OnboardingStep)

	s.PrevOnboardingStep()
	assert.Equal(t, 2, s.Snapshot().OnboardingStep)
	s.PrevOnboardingStep()
	s.PrevOnboardingStep()
	assert.Equal(t, 1, s.Snapshot().OnboardingStep)

	s.NextOnboardingStep()
	s.ResetOnboarding()
	assert.Equal(t, 1, s.Snapshot().OnboardingStep)
}

func TestUIStoreAnnounceStatusClears(t *testing.T) {
	timers := &fakeTimers{}
	s := NewUIStore(WithAfterFunc(timers.after))

	s.AnnounceStatus("Task added")
	assert.Equal(t, "Task added", s.Snapshot().StatusMessage)
	assert.Equal(t, DefaultStatusClearDelay, timers.timers[0].delay)

	timers.fire()
	assert.Empty(t, s.Snapshot().StatusMessage)
}

func TestUIStoreAnnounceLatestWins(t *testing.T) {
	timers := &fakeTimers{}
	s := NewUIStore(WithAfterFunc(timers.after))

	s.AnnounceStatus("first")
	s.AnnounceStatus("second")
	assert.Equal(t, 1, timers.pending())

	// The first timer fires late, after it was superseded.
	timers.fireAt(0)
	assert.Equal(t, "second", s.Snapshot().StatusMessage)

	timers.fire()
	assert.Empty(t, s.Snapshot().StatusMessage)
}

func TestUIStoreCloseCancelsPendingClear(t *testing.T) {
	timers := &fakeTimers{}
	s := NewUIStore(WithAfterFunc(timers.after))

	s.AnnounceStatus("bye")
	s.Close()
	assert.Zero(t, timers.pending())
	assert.Equal(t, "bye", s.Snapshot().StatusMessage)
}

func TestUIStoreSubscribe(t *testing.T) {
	s := NewUIStore()
	var views []model.View
	s.Subscribe(func(st UIState) { views = append(views, st.View) })

	s.SwitchToWeekView()
	s.SwitchToTodayView()
	assert.Equal(t, []model.View{model.ViewWeek, model.ViewToday}, views)
}
