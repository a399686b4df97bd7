package node

import (
	"sort"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/observable"
)

// registry holds a node's subscriptions. A key lives in exactly one of
// eager or deferred and is never reused.
type registry struct {
	keys       []uint64
	eager      map[uint64][]Callback
	deferred   map[uint64][]Callback
	positional map[uint64][]any
	named      map[uint64]map[string]any
}

func newRegistry() *registry {
	return &registry{
		eager:      make(map[uint64][]Callback),
		deferred:   make(map[uint64][]Callback),
		positional: make(map[uint64][]any),
		named:      make(map[uint64]map[string]any),
	}
}

// callbacks returns the callback list registered for key.
func (r *registry) callbacks(key uint64) []Callback {
	if fs, ok := r.eager[key]; ok {
		return fs
	}
	return r.deferred[key]
}

// args returns copies of the cached arguments for key.
func (r *registry) args(key uint64) ([]any, map[string]any) {
	pos := append([]any(nil), r.positional[key]...)
	named := make(map[string]any, len(r.named[key]))
	for k, v := range r.named[key] {
		named[k] = v
	}
	return pos, named
}

// slotRef identifies the cached argument an emission updates.
type slotRef struct {
	index int
	name  string
	named bool
}

// Subscribe registers cb as an eager binding: it runs when the node starts
// and again whenever a source among args emits.
func (n *Node) Subscribe(cb Callback, args ...any) *Node {
	n.subscribe(cb, args, nil, false)
	return n
}

// SubscribeKV is Subscribe with named arguments.
func (n *Node) SubscribeKV(cb Callback, named map[string]any, args ...any) *Node {
	n.subscribe(cb, args, named, false)
	return n
}

// SubscribeDeferred registers cb as a deferred binding: it does not run
// when the node starts, only on emissions after that.
func (n *Node) SubscribeDeferred(cb Callback, args ...any) *Node {
	n.subscribe(cb, args, nil, true)
	return n
}

// SubscribeDeferredKV is SubscribeDeferred with named arguments.
func (n *Node) SubscribeDeferredKV(cb Callback, named map[string]any, args ...any) *Node {
	n.subscribe(cb, args, named, true)
	return n
}

// subscribe allocates a fresh key, stores cb and caches the arguments,
// subscribing to every source among them.
func (n *Node) subscribe(cb Callback, args []any, named map[string]any, deferred bool) uint64 {
	r := n.reg
	key := nextBindingKey()
	r.keys = append(r.keys, key)

	if deferred {
		r.deferred[key] = append(r.deferred[key], cb)
	} else {
		r.eager[key] = append(r.eager[key], cb)
	}

	r.positional[key] = make([]any, 0, len(args))
	for _, arg := range args {
		idx := len(r.positional[key])
		r.positional[key] = append(r.positional[key], arg)
		if src, ok := arg.(observable.Source); ok {
			r.positional[key][idx] = n.fetch(src, key, slotRef{index: idx})
		}
	}

	r.named[key] = make(map[string]any, len(named))
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		arg := named[name]
		r.named[key][name] = arg
		if src, ok := arg.(observable.Source); ok {
			r.named[key][name] = n.fetch(src, key, slotRef{name: name, named: true})
		}
	}

	return key
}

// fetch subscribes to src on behalf of key and returns its current value,
// or "" when the source has none yet.
func (n *Node) fetch(src observable.Source, key uint64, ref slotRef) any {
	h := src.Subscribe(func(v any) {
		n.replay(v, key, ref)
	}, n, true)
	if h == nil {
		return ""
	}
	v, err := h.Value()
	if err != nil {
		n.swallow(errors.New("W060").WithNode(n.id, n.kind).Wrap(err))
		return ""
	}
	return v
}

// replay is called by a source emission. It updates the cached argument
// and, once the node has started, runs the callbacks registered for key.
func (n *Node) replay(v any, key uint64, ref slotRef) {
	r := n.reg
	if ref.named {
		r.named[key][ref.name] = v
	} else {
		pos := r.positional[key]
		for len(pos) <= ref.index {
			pos = append(pos, "")
		}
		pos[ref.index] = v
		r.positional[key] = pos
	}

	if !n.started {
		n.b.notifyReplayed(n, key, false)
		return
	}

	fs := r.callbacks(key)
	_ = n.b.Scope(n, func(*Node) error {
		for _, f := range fs {
			args, named := r.args(key)
			f(args, named)
		}
		return nil
	})
	n.b.notifyReplayed(n, key, true)
}
