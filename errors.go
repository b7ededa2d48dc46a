package evalonce

import "errors"

// ErrNilProducer is returned when a nil producer is deferred.
var ErrNilProducer = errors.New("evalonce: producer is nil")
