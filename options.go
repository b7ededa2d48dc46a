package evalonce

import (
	"time"

	"go.uber.org/zap"
)

// Option configures an Eval created by Defer or DeferTTL.
// Options are ignored when an existing Eval is re-armed.
type Option func(*options)

type options struct {
	name     string
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithObserver attaches an Observer that receives hit, miss, dedup, expire
// and invalidate events for the lifetime of the Eval.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithLogger sets the logger used to report producer failures and
// recomputations. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(opts *options) {
		if l != nil {
			opts.logger = l
		}
	}
}

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		if now != nil {
			opts.now = now
		}
	}
}

// WithName labels the Eval in events and log fields.
func WithName(name string) Option {
	return func(opts *options) {
		opts.name = name
	}
}
