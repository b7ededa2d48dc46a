package listener

import (
	"reflect"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager dispatches events to handlers, passing each of them the same subject.
//
// Add, Remove, RemoveAll and Dispose may be called from any goroutine,
// including from inside a handler. Notify works on a snapshot of the
// handler list taken when it starts: changes made while it runs apply to
// the next Notify.
type Manager[K comparable, S any] struct {
	id      uuid.UUID
	subject S
	hook    Hook[K]
	log     *zap.Logger

	mu sync.RWMutex
	// Lists are copy-on-write, never modified in place.
	handlers map[K][]*Handler[S]
}

// New creates a Manager for subject.
func New[K comparable, S any](subject S, opts ...Option) (*Manager[K, S], error) {
	return NewWithHook[K](subject, nil, opts...)
}

// NewWithHook creates a Manager for subject that runs hook before the
// handlers of every notified event. A nil hook is the same as New. The hook
// survives Dispose.
func NewWithHook[K comparable, S any](subject S, hook Hook[K], opts ...Option) (*Manager[K, S], error) {
	if isNil(subject) {
		return nil, ErrNilSubject
	}

	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Manager[K, S]{
		id:       uuid.New(),
		subject:  subject,
		hook:     hook,
		handlers: make(map[K][]*Handler[S]),
	}
	m.log = cfg.logger.With(zap.Stringer("manager", m.id))
	return m, nil
}

// MustNew is New that panics on error.
func MustNew[K comparable, S any](subject S, opts ...Option) *Manager[K, S] {
	return MustNewWithHook[K](subject, nil, opts...)
}

// MustNewWithHook is NewWithHook that panics on error.
func MustNewWithHook[K comparable, S any](subject S, hook Hook[K], opts ...Option) *Manager[K, S] {
	m, err := NewWithHook(subject, hook, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Subject returns the value passed to every handler.
func (m *Manager[K, S]) Subject() S {
	return m.subject
}

// Add appends h to the handlers of event. Adding the same handler twice
// makes it run twice.
func (m *Manager[K, S]) Add(event K, h *Handler[S]) error {
	if isNil(event) {
		return ErrNilEvent
	}
	if h == nil || h.fn == nil {
		return ErrNilHandler
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(slices.Clip(m.handlers[event]), h)
	return nil
}

// Remove removes every occurrence of h from event. An event left without
// handlers is dropped.
func (m *Manager[K, S]) Remove(event K, h *Handler[S]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(event, h)
}

// RemoveAll removes h from every event.
func (m *Manager[K, S]) RemoveAll(h *Handler[S]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for event := range m.handlers {
		m.remove(event, h)
	}
}

func (m *Manager[K, S]) remove(event K, h *Handler[S]) {
	list, ok := m.handlers[event]
	if !ok || !slices.Contains(list, h) {
		return
	}
	list = slices.DeleteFunc(slices.Clone(list), func(x *Handler[S]) bool { return x == h })
	if len(list) == 0 {
		delete(m.handlers, event)
		return
	}
	m.handlers[event] = list
}

// Notify runs the hook, if any, and then every handler of event with the
// subject. A failure (returned error or panic) is logged and does not stop
// the remaining handlers. Once all have run, Notify returns a *NotifyError
// carrying the first failure, or nil.
//
// An event nobody listens to only runs the hook.
func (m *Manager[K, S]) Notify(event K) error {
	if isNil(event) {
		return ErrNilEvent
	}

	var failures []error
	if m.hook != nil {
		if err := protect(func() error { return m.hook(event) }); err != nil {
			m.log.Error("event hook failed", zap.Any("event", event), zap.Error(err))
			failures = append(failures, err)
		}
	}

	handlers := m.snapshot(event)
	for i, h := range handlers {
		if err := protect(func() error { return h.fn(m.subject) }); err != nil {
			m.log.Error("event handler failed",
				zap.Any("event", event),
				zap.Stringer("handler", h),
				zap.Int("position", i),
				zap.Error(err),
			)
			failures = append(failures, err)
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return &NotifyError{Event: event, Err: failures[0], Suppressed: failures[1:]}
}

// Dispose removes every handler. The hook is kept.
func (m *Manager[K, S]) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.handlers)
	m.log.Debug("disposed")
}

// Len reports the number of handlers registered for event.
func (m *Manager[K, S]) Len(event K) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}

// Events returns the events that have at least one handler, in no particular order.
func (m *Manager[K, S]) Events() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]K, 0, len(m.handlers))
	for event := range m.handlers {
		events = append(events, event)
	}
	return events
}

func (m *Manager[K, S]) snapshot(event K) []*Handler[S] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handlers[event]
}

// protect runs f and turns a panic into a *PanicError.
func protect(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return f()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
