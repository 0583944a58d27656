package store

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultStatusClearDelay = time.Second
	DefaultModalCloseDelay  = 200 * time.Millisecond

	persistTimeout = 5 * time.Second
)

type options struct {
	now         func() time.Time
	log         *zap.Logger
	after       AfterFunc
	statusDelay time.Duration
	modalDelay  time.Duration
}

// Option customises a store.
type Option func(*options)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithAfterFunc replaces the timer used for delayed state clears.
func WithAfterFunc(after AfterFunc) Option {
	return func(o *options) { o.after = after }
}

// WithStatusClearDelay sets how long an announced status stays visible.
func WithStatusClearDelay(d time.Duration) Option {
	return func(o *options) { o.statusDelay = d }
}

// WithModalCloseDelay sets how long closed modal content is kept for animations.
func WithModalCloseDelay(d time.Duration) Option {
	return func(o *options) { o.modalDelay = d }
}

func buildOptions(opts []Option) options {
	o := options{
		now:         time.Now,
		log:         zap.NewNop(),
		after:       realAfterFunc,
		statusDelay: DefaultStatusClearDelay,
		modalDelay:  DefaultModalCloseDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}
