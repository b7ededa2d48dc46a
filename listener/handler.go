package listener

import "fmt"

// Handler processes an event using the manager's subject.
// Handlers are identified by pointer: the same *Handler can be added under
// several events and removed from all of them at once.
type Handler[S any] struct {
	name string
	fn   func(S) error
}

// NewHandler wraps fn. It returns nil when fn is nil.
func NewHandler[S any](fn func(S) error) *Handler[S] {
	return NewNamedHandler("", fn)
}

// NewNamedHandler is NewHandler with a name used in log fields.
func NewNamedHandler[S any](name string, fn func(S) error) *Handler[S] {
	if fn == nil {
		return nil
	}
	return &Handler[S]{name: name, fn: fn}
}

func (h *Handler[S]) String() string {
	if h.name != "" {
		return h.name
	}
	return fmt.Sprintf("handler@%p", h)
}

// Hook runs before the handlers of every notified event and receives the
// event key itself. Typically used for logging.
type Hook[K comparable] func(event K) error
