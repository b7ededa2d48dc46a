package evalonce

// Observer receives cache lifecycle events. Implementations must be safe
// for concurrent use when the Eval is accessed from multiple goroutines.
type Observer interface {
	On(eventData EventData)
}

// ObserverFunc adapts an ordinary function to an Observer.
type ObserverFunc func(EventData)

// On calls f.
func (f ObserverFunc) On(eventData EventData) { f(eventData) }

// Event represents a cache event type.
type Event int

const (
	// EventHit is emitted when a Get call finds a valid cached value.
	EventHit Event = iota
	// EventMiss is emitted when a Get call invokes the producer.
	EventMiss
	// EventDedup is emitted when a concurrent caller shares an in-flight
	// producer call instead of triggering a new one.
	EventDedup
	// EventExpire is emitted when a Get call finds a value past its TTL.
	EventExpire
	// EventInvalidate is emitted by Invalidate and by re-arming Defer calls.
	EventInvalidate
)

func (e Event) String() string {
	switch e {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventDedup:
		return "dedup"
	case EventExpire:
		return "expire"
	case EventInvalidate:
		return "invalidate"
	default:
		return "unknown"
	}
}

// EventData carries the details of a cache event.
type EventData struct {
	Event Event
	Name  string
}
