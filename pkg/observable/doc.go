// Package observable provides the push-based reactive sources that weft
// nodes subscribe to.
//
// A Source delivers every new value to its subscribers synchronously, on the
// goroutine that called Set. Subscribing returns a Handle from which the
// current value can be fetched; a source that has not produced a value yet
// reports ErrNoValue.
//
//	count := observable.New(0)
//	h := count.Subscribe(func(v any) { fmt.Println("count:", v) }, nil, true)
//	v, _ := h.Value() // 0
//	count.Set(1)      // prints "count: 1"
//
// Observable[T] is the generic implementation. Derive builds a read-only
// source whose value is computed from another one.
package observable
