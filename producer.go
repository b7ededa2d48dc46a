package evalonce

// Producer yields a value of type T with no input. It may fail.
type Producer[T any] interface {
	Get() (T, error)
}

// ProducerFunc adapts an ordinary function to a Producer.
type ProducerFunc[T any] func() (T, error)

// Get calls f.
func (f ProducerFunc[T]) Get() (T, error) {
	return f()
}

func isNil[T any](p Producer[T]) bool {
	switch p := p.(type) {
	case nil:
		return true
	case ProducerFunc[T]:
		return p == nil
	case *Eval[T]:
		return p == nil
	}
	return false
}
