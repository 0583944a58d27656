package store

import (
	"sync"
	"time"
)

// AfterFunc schedules f after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// deferred runs at most one pending callback; scheduling again supersedes
// the previous one even if its timer has already fired.
type deferred struct {
	after AfterFunc

	mu   sync.Mutex
	seq  uint64
	stop func() bool
}

func newDeferred(after AfterFunc) *deferred {
	if after == nil {
		after = realAfterFunc
	}
	return &deferred{after: after}
}

func (d *deferred) schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		d.stop()
	}
	d.seq++
	seq := d.seq
	d.stop = d.after(delay, func() {
		d.mu.Lock()
		current := d.seq == seq
		if current {
			d.stop = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

func (d *deferred) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
}
