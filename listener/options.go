package listener

import "go.uber.org/zap"

// Option configures a Manager created by New or NewWithHook.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger sets where handler and hook failures are reported.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
