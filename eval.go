package evalonce

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// flightKey is the only singleflight key an Eval ever uses; the group is
// per instance, so unrelated Evals never contend.
const flightKey = "eval"

type state uint8

const (
	unpopulated state = iota
	populated
)

// Eval defers a producer until Get is called and caches its result.
// An Eval is safe for concurrent use. Create one with Defer or DeferTTL.
type Eval[T any] struct {
	producer Producer[T]
	ttl      time.Duration

	group singleflight.Group

	mu        sync.RWMutex
	state     state
	value     T
	expiresAt time.Time
	// gen is bumped by Invalidate; a producer call started under an older
	// generation does not store its result.
	gen uint64

	name     string
	observer Observer
	log      *zap.Logger
	now      func() time.Time
}

var _ Producer[int] = (*Eval[int])(nil)

// Defer returns an Eval that calls p the first time Get is called and
// then serves the cached result.
//
// If p is already an *Eval it is invalidated and returned as is, so
// deferring an Eval twice never stacks caches.
func Defer[T any](p Producer[T], opts ...Option) (*Eval[T], error) {
	if isNil(p) {
		return nil, ErrNilProducer
	}
	if e, ok := p.(*Eval[T]); ok {
		e.Invalidate()
		return e, nil
	}
	return newEval(p, 0, opts), nil
}

// DeferFunc is Defer for a plain function.
func DeferFunc[T any](f func() (T, error), opts ...Option) (*Eval[T], error) {
	if f == nil {
		return nil, ErrNilProducer
	}
	return Defer[T](ProducerFunc[T](f), opts...)
}

// DeferTTL is like Defer, but a cached value goes stale ttl after it was
// computed and the next Get calls p again.
//
// A ttl <= 0 disables caching: p itself is returned and every Get reaches it.
// Re-arming an existing *Eval keeps the TTL it was created with; a different
// requested ttl is reported at warn level on the Eval's logger.
func DeferTTL[T any](p Producer[T], ttl time.Duration, opts ...Option) (Producer[T], error) {
	if isNil(p) {
		return nil, ErrNilProducer
	}
	if ttl <= 0 {
		return p, nil
	}
	if e, ok := p.(*Eval[T]); ok {
		if e.ttl != ttl {
			e.log.Warn("re-armed eval keeps its ttl, requested ttl ignored",
				zap.Duration("ttl", e.ttl),
				zap.Duration("requested_ttl", ttl),
			)
		}
		e.Invalidate()
		return e, nil
	}
	return newEval(p, ttl, opts), nil
}

// MustDefer is Defer that panics on error.
func MustDefer[T any](p Producer[T], opts ...Option) *Eval[T] {
	e, err := Defer(p, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// MustDeferTTL is DeferTTL that panics on error.
func MustDeferTTL[T any](p Producer[T], ttl time.Duration, opts ...Option) Producer[T] {
	pp, err := DeferTTL(p, ttl, opts...)
	if err != nil {
		panic(err)
	}
	return pp
}

func newEval[T any](p Producer[T], ttl time.Duration, opts []Option) *Eval[T] {
	o := newOptions(opts)
	return &Eval[T]{
		producer: p,
		ttl:      ttl,
		name:     o.name,
		observer: o.observer,
		log:      o.log(),
		now:      o.now,
	}
}

func (o options) log() *zap.Logger {
	if o.name == "" {
		return o.logger
	}
	return o.logger.With(zap.String("eval", o.name))
}

// Get returns the cached value, calling the producer when the cache is
// empty, invalidated or expired. Concurrent callers block on and receive the
// result of a single producer call. Errors are not cached. A panicking
// producer re-panics in every caller sharing the call and leaves the cache
// empty.
func (e *Eval[T]) Get() (T, error) {
	// Fast path: already cached.
	v, ok, expired := e.load()
	if ok {
		e.emit(EventHit)
		return v, nil
	}
	if expired {
		e.emit(EventExpire)
	}

	// Slow path: singleflight dedup.
	var ran bool
	val, err, shared := e.group.Do(flightKey, func() (any, error) {
		// Double-check: another goroutine may have cached while we waited.
		if v, ok, _ := e.load(); ok {
			return v, nil
		}

		ran = true
		e.emit(EventMiss)
		gen := e.generation()
		result, err := e.producer.Get()
		if err != nil {
			e.log.Debug("producer failed, value not cached", zap.Error(err))
			return result, err
		}
		e.store(result, gen)
		return result, nil
	})
	switch {
	case ran:
	case shared:
		e.emit(EventDedup)
	default:
		e.emit(EventHit)
	}

	if err != nil {
		var zero T
		return zero, err
	}
	// A nil interface value does not survive the any round trip as T.
	res, _ := val.(T)
	return res, nil
}

// Peek returns the cached value without calling the producer. ok is false
// when nothing valid is cached. A producer that returned a nil or zero value
// counts as cached: Peek then reports (zero, true).
func (e *Eval[T]) Peek() (v T, ok bool) {
	v, ok, _ = e.load()
	return v, ok
}

// Invalidate drops the cached value so the next Get calls the producer again.
// A Get already past its validity check may still return the old value, and
// a producer call in flight still answers the callers waiting on it, but its
// result is not cached.
func (e *Eval[T]) Invalidate() {
	e.mu.Lock()
	var zero T
	e.state = unpopulated
	e.value = zero
	e.expiresAt = time.Time{}
	e.gen++
	e.mu.Unlock()

	// Callers arriving from now on start a new flight instead of joining one
	// that began before the invalidation.
	e.group.Forget(flightKey)

	e.emit(EventInvalidate)
}

// TTL reports the time-to-live, or 0 if cached values never expire.
func (e *Eval[T]) TTL() time.Duration {
	return e.ttl
}

func (e *Eval[T]) load() (v T, ok, expired bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state != populated {
		return v, false, false
	}
	if e.ttl > 0 && !e.now().Before(e.expiresAt) {
		return v, false, true
	}
	return e.value, true, false
}

func (e *Eval[T]) generation() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gen
}

func (e *Eval[T]) store(v T, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.gen {
		e.log.Debug("invalidated during producer call, value not cached")
		return
	}
	e.value = v
	e.state = populated
	if e.ttl > 0 {
		e.expiresAt = e.now().Add(e.ttl)
		e.log.Debug("value cached", zap.Time("expires_at", e.expiresAt))
	}
}

func (e *Eval[T]) emit(event Event) {
	if e.observer == nil {
		return
	}
	e.observer.On(EventData{
		Event: event,
		Name:  e.name,
	})
}
