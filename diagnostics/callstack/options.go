package callstack

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFilter keeps only frames whose fully qualified function name matches,
// typically a package prefix check.
func WithFilter(match func(function string) bool) Option {
	return func(a *Analyzer) {
		a.filter = match
	}
}

// WithLimit caps the number of reported frames. Must be at least 1.
func WithLimit(n int) Option {
	return func(a *Analyzer) {
		a.limit = n
	}
}

// WithSeparator sets the string placed between formatted frames.
func WithSeparator(sep string) Option {
	return func(a *Analyzer) {
		a.separator = sep
	}
}

// WithFormat sets how each frame is rendered.
func WithFormat(format func(Frame) string) Option {
	return func(a *Analyzer) {
		a.format = format
	}
}
