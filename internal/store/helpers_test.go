package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"matrix-planner/internal/model"
)

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// fakeTimers records scheduled callbacks until the test fires them.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (f *fakeTimers) after(d time.Duration, fn func()) func() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	f.timers = append(f.timers, t)
	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// fire runs every pending timer that has not been stopped.
func (f *fakeTimers) fire() {
	f.mu.Lock()
	var due []*fakeTimer
	for _, t := range f.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	f.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

// fireAt runs timer i regardless of its stopped flag, like a timer racing Stop.
func (f *fakeTimers) fireAt(i int) {
	f.mu.Lock()
	t := f.timers[i]
	t.fired = true
	f.mu.Unlock()
	t.fn()
}

func (f *fakeTimers) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type memoryTasks struct {
	mu      sync.Mutex
	initial []model.Task
	saved   [][]model.Task
	saveErr error
	loadErr error
}

func (m *memoryTasks) LoadTasks(context.Context) ([]model.Task, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.Task(nil), m.initial...), nil
}

func (m *memoryTasks) SaveTasks(_ context.Context, tasks []model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, tasks)
	return m.saveErr
}

func (m *memoryTasks) last() []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

// slowTasks stalls every other save so overlapping commits would finish out of order.
type slowTasks struct {
	memoryTasks
	calls int
}

func (m *slowTasks) SaveTasks(ctx context.Context, tasks []model.Task) error {
	m.mu.Lock()
	m.calls++
	slow := m.calls%2 == 1
	m.mu.Unlock()
	if slow {
		time.Sleep(2 * time.Millisecond)
	}
	return m.memoryTasks.SaveTasks(ctx, tasks)
}

type memoryRocks struct {
	initial model.BigRocks
	saved   []model.BigRocks
}

func (m *memoryRocks) LoadBigRocks(context.Context) (model.BigRocks, error) {
	return m.initial, nil
}

func (m *memoryRocks) SaveBigRocks(_ context.Context, rocks model.BigRocks) error {
	m.saved = append(m.saved, rocks)
	return nil
}

var errBoom = errors.New("boom")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
