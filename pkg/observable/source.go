package observable

import (
	"errors"
	"sync/atomic"
)

var (
	// ErrNoValue is returned by Handle.Value when the source has not produced
	// a value yet, or the subscriber did not ask to fetch it.
	ErrNoValue = errors.New("observable: no value")

	// ErrTypeMismatch is returned by Emit when the value has the wrong type.
	ErrTypeMismatch = errors.New("observable: value type mismatch")
)

// Source is a push-based value stream.
type Source interface {
	// Subscribe registers fn to receive every future value. owner identifies
	// the subscriber for introspection only. With fetch set, the returned
	// handle gives access to the current value.
	Subscribe(fn func(any), owner any, fetch bool) Handle
}

// Handle is returned by Subscribe.
type Handle interface {
	// Value returns the current value of the source.
	Value() (any, error)
}

// Emitter is a source that accepts values from the outside, such as the
// text of an input pushed back by a publish binding.
type Emitter interface {
	Emit(v any) error
}

// globalIDCounter is the source of unique IDs for observables and
// subscriptions. IDs are never reused for the lifetime of the process.
var globalIDCounter atomic.Uint64

func nextID() uint64 {
	return globalIDCounter.Add(1)
}

// Canceler is implemented by handles whose subscription can be removed.
type Canceler interface {
	Cancel()
}
