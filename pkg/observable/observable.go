package observable

import (
	"fmt"
	"reflect"
	"sync"
)

// subscription is one registered callback.
type subscription struct {
	id    uint64
	fn    func(any)
	owner any
}

// Observable is a reactive value container.
type Observable[T any] struct {
	id uint64

	mu       sync.RWMutex
	value    T
	hasValue bool
	equal    func(T, T) bool

	subMu sync.RWMutex
	subs  []*subscription
}

// New creates an observable holding initial.
func New[T any](initial T) *Observable[T] {
	return &Observable[T]{
		id:       nextID(),
		value:    initial,
		hasValue: true,
	}
}

// NewEmpty creates an observable that has no value until the first Set.
func NewEmpty[T any]() *Observable[T] {
	return &Observable[T]{id: nextID()}
}

// ID returns the unique identifier for this observable.
func (o *Observable[T]) ID() uint64 {
	return o.id
}

// WithEquals returns the observable configured with a custom equality
// function used to suppress emissions of unchanged values.
func (o *Observable[T]) WithEquals(fn func(T, T) bool) *Observable[T] {
	o.equal = fn
	return o
}

// Get returns the current value and whether one has been produced.
func (o *Observable[T]) Get() (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value, o.hasValue
}

// Peek returns the current value, or the zero value if there is none.
func (o *Observable[T]) Peek() T {
	v, _ := o.Get()
	return v
}

// Set updates the value and notifies subscribers if it changed.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	changed := !o.hasValue || !o.equals(o.value, value)
	o.value = value
	o.hasValue = true
	o.mu.Unlock()

	if changed {
		o.notify(value)
	}
}

// Update atomically reads and updates the value.
func (o *Observable[T]) Update(fn func(T) T) {
	o.mu.Lock()
	old := o.value
	next := fn(old)
	changed := !o.hasValue || !o.equals(old, next)
	o.value = next
	o.hasValue = true
	o.mu.Unlock()

	if changed {
		o.notify(next)
	}
}

// Notify re-delivers the current value to all subscribers, whether or not
// it changed. It is a no-op on an empty observable.
func (o *Observable[T]) Notify() {
	v, ok := o.Get()
	if ok {
		o.notify(v)
	}
}

// Emit implements Emitter.
func (o *Observable[T]) Emit(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: got %T, want %T", ErrTypeMismatch, v, o.value)
	}
	o.Set(tv)
	return nil
}

// Subscribe implements Source.
func (o *Observable[T]) Subscribe(fn func(any), owner any, fetch bool) Handle {
	sub := &subscription{id: nextID(), fn: fn, owner: owner}

	o.subMu.Lock()
	o.subs = append(o.subs, sub)
	o.subMu.Unlock()

	return &handle[T]{src: o, sub: sub, fetch: fetch}
}

// SubscriberCount returns the number of live subscriptions.
func (o *Observable[T]) SubscriberCount() int {
	o.subMu.RLock()
	defer o.subMu.RUnlock()
	return len(o.subs)
}

func (o *Observable[T]) unsubscribe(sub *subscription) {
	o.subMu.Lock()
	defer o.subMu.Unlock()

	for i, s := range o.subs {
		if s.id == sub.id {
			o.subs = append(o.subs[:i], o.subs[i+1:]...)
			return
		}
	}
}

// notify delivers v to a copy of the subscriber list so callbacks may
// subscribe or cancel without deadlocking.
func (o *Observable[T]) notify(v T) {
	o.subMu.RLock()
	subs := make([]*subscription, len(o.subs))
	copy(subs, o.subs)
	o.subMu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}

func (o *Observable[T]) equals(a, b T) bool {
	if o.equal != nil {
		return o.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common comparable types and reflect.DeepEqual
// for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// handle is the Handle returned by Observable.Subscribe.
type handle[T any] struct {
	src   *Observable[T]
	sub   *subscription
	fetch bool
}

// Value implements Handle.
func (h *handle[T]) Value() (any, error) {
	if !h.fetch {
		return nil, ErrNoValue
	}
	v, ok := h.src.Get()
	if !ok {
		return nil, ErrNoValue
	}
	return v, nil
}

// Cancel removes the subscription from its source.
func (h *handle[T]) Cancel() {
	h.src.unsubscribe(h.sub)
}

// Derive returns an observable whose value is fn applied to src's value.
// It updates whenever src emits.
func Derive[T, U any](src *Observable[T], fn func(T) U) *Observable[U] {
	var out *Observable[U]
	if v, ok := src.Get(); ok {
		out = New(fn(v))
	} else {
		out = NewEmpty[U]()
	}
	src.Subscribe(func(v any) {
		out.Set(fn(v.(T)))
	}, out, false)
	return out
}
