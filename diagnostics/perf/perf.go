// Package perf times named code paths and logs how long they took.
//
// A Timer is an ordinary value owned by its caller; create one per component
// (or share one) and pass it where timing is needed.
//
//	t := perf.New(perf.WithLogger(logger))
//	t.Start("import")
//	runImport()
//	t.Stop("import") // logs "import completed in 1.2s"
package perf

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"

	"github.com/probablyarth/evalonce-go/diagnostics/callstack"
)

// DefaultMinDuration is the shortest run that gets logged.
const DefaultMinDuration = time.Millisecond

// Timer tracks start instants and run counts per id. Safe for concurrent use,
// but a given id is expected to be started and stopped by one goroutine at a time.
type Timer struct {
	mu      sync.Mutex
	started map[string]time.Time
	runs    map[string]int
	last    map[string]timespan.TimeSpan

	minDuration time.Duration
	log         *zap.Logger
	now         func() time.Time
}

// New returns an empty Timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		started:     make(map[string]time.Time),
		runs:        make(map[string]int),
		last:        make(map[string]timespan.TimeSpan),
		minDuration: DefaultMinDuration,
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start records the current instant for id. Starting an id that is
// already running restarts it and logs the fact.
func (t *Timer) Start(id string) {
	now := t.now()

	t.mu.Lock()
	_, running := t.started[id]
	t.started[id] = now
	t.mu.Unlock()

	if running {
		t.log.Info("monitor "+id+" was restarted without a stop event", zap.String("id", id))
	}
}

// Stop ends the run of id and returns its duration. ok is false, and the
// fact is logged, when id was never started. Every Stop counts as a run.
func (t *Timer) Stop(id string) (elapsed time.Duration, ok bool) {
	now := t.now()

	t.mu.Lock()
	start, ok := t.started[id]
	delete(t.started, id)
	t.runs[id]++
	run := t.runs[id]
	var span timespan.TimeSpan
	if ok {
		span = timespan.BetweenTimes(start, now)
		t.last[id] = span
	}
	t.mu.Unlock()

	if !ok {
		t.log.Info("monitor "+id+" was stopped without a start event", zap.String("id", id))
		return 0, false
	}

	elapsed = span.Duration()
	if elapsed >= t.minDuration {
		t.log.Info(summary(id, run, elapsed),
			zap.String("id", id),
			zap.Int("run", run),
			zap.Duration("elapsed", elapsed),
		)
	}
	return elapsed, true
}

// StartCaller starts a run named after the calling function, as
// "pkg.(*Type)->Method", and returns that id.
func (t *Timer) StartCaller() string {
	id := callerID(2)
	t.Start(id)
	return id
}

// StopCaller stops the run started by StartCaller in the same function.
func (t *Timer) StopCaller() (time.Duration, bool) {
	return t.Stop(callerID(2))
}

// Count reports how many times id was stopped.
func (t *Timer) Count(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs[id]
}

// Last returns the most recent completed run of id.
func (t *Timer) Last(id string) (timespan.TimeSpan, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	span, ok := t.last[id]
	return span, ok
}

// Running reports whether id has been started and not yet stopped.
func (t *Timer) Running(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.started[id]
	return ok
}

func summary(id string, run int, elapsed time.Duration) string {
	var sb strings.Builder
	sb.WriteString(id)
	if run > 1 {
		fmt.Fprintf(&sb, " run %d", run)
	}
	sb.WriteString(" completed in ")
	sb.WriteString(elapsed.String())
	return sb.String()
}

func callerID(skip int) string {
	f, ok := callstack.Caller(skip)
	if !ok {
		return "unknown"
	}
	i := strings.LastIndex(f.Function, ".")
	if i < 0 {
		return f.Function
	}
	return f.Function[:i] + "->" + f.Function[i+1:]
}
