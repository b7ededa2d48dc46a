package listener

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrNilSubject is returned by New for a nil subject.
	ErrNilSubject = errors.New("listener: subject is nil")
	// ErrNilHandler is returned by Add for a nil handler.
	ErrNilHandler = errors.New("listener: handler is nil")
	// ErrNilEvent is returned for a nil pointer or nil interface event key.
	ErrNilEvent = errors.New("listener: event is nil")
)

// NotifyError reports that at least one handler (or the hook) failed.
// It unwraps to the first failure only.
type NotifyError struct {
	Event any
	// Err is the first failure, in dispatch order.
	Err error
	// Suppressed holds the remaining failures. They were logged already.
	Suppressed []error
}

func (e *NotifyError) Error() string {
	if len(e.Suppressed) == 0 {
		return fmt.Sprintf("listener: notify %v: %v", e.Event, e.Err)
	}
	return fmt.Sprintf("listener: notify %v: %v (suppressed: %v)", e.Event, e.Err, multierr.Combine(e.Suppressed...))
}

func (e *NotifyError) Unwrap() error { return e.Err }

// PanicError is a panic recovered from a handler or hook.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("listener: handler panicked: %v", e.Value)
}

// Unwrap returns the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
