package perf

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Timer.
type Option func(*Timer)

// WithLogger sets where restarts, orphan stops and completed runs are reported.
func WithLogger(l *zap.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithMinDuration suppresses the completion log for faster runs.
func WithMinDuration(d time.Duration) Option {
	return func(t *Timer) {
		t.minDuration = d
	}
}
