// Package fn curries and partially applies two-argument functions.
//
// Predicates are plain func(T, U) bool values, so ApplyFirst and ApplySecond
// cover them as well.
package fn

// ApplyFirst fixes the first argument of f.
func ApplyFirst[T, U, R any](f func(T, U) R, t T) func(U) R {
	return func(u U) R { return f(t, u) }
}

// ApplySecond fixes the second argument of f.
func ApplySecond[T, U, R any](f func(T, U) R, u U) func(T) R {
	return func(t T) R { return f(t, u) }
}

// ConsumeFirst fixes the first argument of a function with no result.
func ConsumeFirst[T, U any](f func(T, U), t T) func(U) {
	return func(u U) { f(t, u) }
}

// ConsumeSecond fixes the second argument of a function with no result.
func ConsumeSecond[T, U any](f func(T, U), u U) func(T) {
	return func(t T) { f(t, u) }
}

// CurryFirst turns f into a chain taking the first argument, then the second.
func CurryFirst[T, U, R any](f func(T, U) R) func(T) func(U) R {
	return func(t T) func(U) R {
		return ApplyFirst(f, t)
	}
}

// CurrySecond turns f into a chain taking the second argument, then the first.
func CurrySecond[T, U, R any](f func(T, U) R) func(U) func(T) R {
	return func(u U) func(T) R {
		return ApplySecond(f, u)
	}
}
