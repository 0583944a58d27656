package store

import (
	"sync"
	"time"

	"matrix-planner/internal/model"
)

const (
	firstOnboardingStep = 1
	lastOnboardingStep  = 3
)

// UIState is a snapshot of the view selection and transient UI flags.
type UIState struct {
	View     model.View
	Quadrant model.Quadrant

	ShowQuickCapture bool
	ShowBigRocks     bool
	ShowOnboarding   bool
	ShowWeeklyReview bool

	OnboardingStep int

	TaskInput         string
	TutorialTaskInput string
	CaptureImportant  bool
	CaptureUrgent     bool

	StatusMessage string
}

// UIStore holds ephemeral view state. Nothing here is persisted.
type UIStore struct {
	statusDelay time.Duration
	statusClear *deferred

	mu    sync.Mutex
	state UIState

	changes notifier[UIState]
}

func NewUIStore(opts ...Option) *UIStore {
	o := buildOptions(opts)
	return &UIStore{
		statusDelay: o.statusDelay,
		statusClear: newDeferred(o.after),
		state:       defaultUIState(),
	}
}

func defaultUIState() UIState {
	return UIState{
		View:           model.ViewToday,
		Quadrant:       model.QuadrantDo,
		OnboardingStep: firstOnboardingStep,
	}
}

func (s *UIStore) Snapshot() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *UIStore) Subscribe(fn func(UIState)) (unsubscribe func()) {
	return s.changes.subscribe(fn)
}

func (s *UIStore) SwitchToTodayView() {
	s.mutate(func(st *UIState) { st.View = model.ViewToday })
}

func (s *UIStore) SwitchToWeekView() {
	s.mutate(func(st *UIState) { st.View = model.ViewWeek })
}

func (s *UIStore) SwitchQuadrant(q model.Quadrant) {
	s.mutate(func(st *UIState) { st.Quadrant = q })
}

// ToggleQuickCapture flips the quick capture modal, or sets it when a value is given.
func (s *UIStore) ToggleQuickCapture(value ...bool) {
	s.mutate(func(st *UIState) { st.ShowQuickCapture = toggled(st.ShowQuickCapture, value) })
}

func (s *UIStore) ToggleBigRocks(value ...bool) {
	s.mutate(func(st *UIState) { st.ShowBigRocks = toggled(st.ShowBigRocks, value) })
}

func (s *UIStore) ToggleOnboarding(value ...bool) {
	s.mutate(func(st *UIState) { st.ShowOnboarding = toggled(st.ShowOnboarding, value) })
}

func (s *UIStore) ToggleWeeklyReview(value ...bool) {
	s.mutate(func(st *UIState) { st.ShowWeeklyReview = toggled(st.ShowWeeklyReview, value) })
}

func (s *UIStore) CloseAllModals() {
	s.mutate(func(st *UIState) {
		st.ShowQuickCapture = false
		st.ShowBigRocks = false
		st.ShowOnboarding = false
		st.ShowWeeklyReview = false
	})
}

// SetCaptureDraft records the in-progress quick capture input.
func (s *UIStore) SetCaptureDraft(input string, important, urgent bool) {
	s.mutate(func(st *UIState) {
		st.TaskInput = input
		st.CaptureImportant = important
		st.CaptureUrgent = urgent
	})
}

func (s *UIStore) SetTutorialTaskInput(input string) {
	s.mutate(func(st *UIState) { st.TutorialTaskInput = input })
}

func (s *UIStore) ResetCaptureState() {
	s.mutate(func(st *UIState) {
		st.TaskInput = ""
		st.CaptureImportant = false
		st.CaptureUrgent = false
	})
}

func (s *UIStore) NextOnboardingStep() {
	s.mutate(func(st *UIState) {
		if st.OnboardingStep < lastOnboardingStep {
			st.OnboardingStep++
		}
	})
}

func (s *UIStore) PrevOnboardingStep() {
	s.mutate(func(st *UIState) {
		if st.OnboardingStep > firstOnboardingStep {
			st.OnboardingStep--
		}
	})
}

func (s *UIStore) ResetOnboarding() {
	s.mutate(func(st *UIState) { st.OnboardingStep = firstOnboardingStep })
}

// AnnounceStatus shows message and clears it after the status delay.
// A newer announcement replaces the pending clear.
func (s *UIStore) AnnounceStatus(message string) {
	s.mutate(func(st *UIState) { st.StatusMessage = message })
	s.statusClear.schedule(s.statusDelay, func() {
		s.mutate(func(st *UIState) { st.StatusMessage = "" })
	})
}

// Close cancels any pending status clear.
func (s *UIStore) Close() {
	s.statusClear.cancel()
}

func (s *UIStore) mutate(fn func(*UIState)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	s.mu.Unlock()
	s.changes.notify(snapshot)
}

func toggled(current bool, value []bool) bool {
	if len(value) > 0 {
		return value[0]
	}
	return !current
}
