// Package evalonce provides lazy, memoizing producers.
//
// An [Eval] wraps a producer and defers calling it until the first [Eval.Get].
// The result is cached and returned to every later caller until the cache is
// invalidated or, when created with [DeferTTL], until its time-to-live runs out.
//
//	cfg, err := evalonce.DeferFunc(loadConfig)
//	...
//	c, err := cfg.Get() // loadConfig runs here, once
//
// Concurrent callers share a single in-flight call, so the producer runs at
// most once per invalidation cycle and every caller of that cycle sees the same
// value or the same error. Errors are not cached, so a failed call can be retried.
//
// Deferring an [Eval] again does not nest it: the existing cache is invalidated
// and returned.
//
// The sibling packages cover the rest of the toolbox: [listener] dispatches
// events to ordered handlers, diagnostics/perf times code paths,
// diagnostics/callstack formats call stacks and fn curries two-argument
// functions.
//
// [listener]: https://pkg.go.dev/github.com/probablyarth/evalonce-go/listener
package evalonce
