package node

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
)

// Tag kinds with special handling during construction.
const (
	KindText         = "txt"
	KindRouterOutlet = "router-outlet"
	KindStyle        = "style"
)

// defaultTextFields maps tag kinds to the element property holding their
// text. Kinds not listed use "text".
var defaultTextFields = map[string]string{
	"input":    "value",
	"textarea": "value",
}

// defaultUnqueued lists document-metadata kinds that never start.
var defaultUnqueued = []string{"head", "script", "style"}

// Builder owns the construction stack and the deferred-start queue.
// It is not safe for concurrent use.
type Builder struct {
	root    *Node
	stack   []*Node
	pending []*Node

	factories map[string]Factory
	index     map[dom.Element]*Node

	newElement func(tag string) dom.Element
	textFields map[string]string
	unqueued   map[string]bool
	compact    bool

	logger    *slog.Logger
	observers []Observer
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for swallowed errors.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithObserver adds lifecycle observers.
func WithObserver(obs ...Observer) Option {
	return func(b *Builder) {
		for _, o := range obs {
			if o != nil {
				b.observers = append(b.observers, o)
			}
		}
	}
}

// WithElementFactory sets the function used by Create to make platform
// elements. The default creates dom.Elem values.
func WithElementFactory(fn func(tag string) dom.Element) Option {
	return func(b *Builder) {
		if fn != nil {
			b.newElement = fn
		}
	}
}

// WithTextField overrides the property holding the text of a tag kind.
func WithTextField(kind, field string) Option {
	return func(b *Builder) {
		b.textFields[strings.ToLower(kind)] = field
	}
}

// WithCompact disables the newline text nodes inserted between siblings.
func WithCompact(compact bool) Option {
	return func(b *Builder) {
		b.compact = compact
	}
}

// WithConfig applies the node section of a project configuration.
func WithConfig(cfg *config.Config) Option {
	return func(b *Builder) {
		if cfg == nil {
			return
		}
		for kind, field := range cfg.Nodes.TextFields {
			b.textFields[strings.ToLower(kind)] = field
		}
		if len(cfg.Nodes.Unqueued) > 0 {
			b.unqueued = make(map[string]bool, len(cfg.Nodes.Unqueued))
			for _, k := range cfg.Nodes.Unqueued {
				b.unqueued[strings.ToLower(k)] = true
			}
		}
		b.compact = cfg.Nodes.Compact
	}
}

// NewBuilder creates a Builder whose construction stack holds a root node
// wrapping rootEl. The root is never queued and never popped.
func NewBuilder(rootEl dom.Element, opts ...Option) *Builder {
	b := &Builder{
		factories:  make(map[string]Factory),
		index:      make(map[dom.Element]*Node),
		newElement: func(tag string) dom.Element { return dom.New(tag) },
		textFields: make(map[string]string, len(defaultTextFields)),
		unqueued:   make(map[string]bool, len(defaultUnqueued)),
		logger:     slog.Default(),
	}
	for k, v := range defaultTextFields {
		b.textFields[k] = v
	}
	for _, k := range defaultUnqueued {
		b.unqueued[k] = true
	}
	for _, opt := range opts {
		opt(b)
	}

	if rootEl == nil {
		rootEl = b.newElement("body")
	}
	b.root = &Node{
		id:      nextNodeID(),
		b:       b,
		el:      rootEl,
		kind:    rootEl.Tag(),
		reg:     newRegistry(),
		cache:   make(map[string]string),
		started: true,
	}
	b.index[rootEl] = b.root
	b.stack = []*Node{b.root}
	return b
}

// Define associates tag with a component factory. Nodes of that kind start
// a fresh component subtree.
func (b *Builder) Define(tag string, f Factory) {
	b.factories[strings.ToLower(tag)] = f
}

// Root returns the root node.
func (b *Builder) Root() *Node { return b.root }

// Top returns the current parent: the top of the construction stack.
func (b *Builder) Top() *Node { return b.stack[len(b.stack)-1] }

// Depth returns the construction stack depth. It is 1 when no scope is open.
func (b *Builder) Depth() int { return len(b.stack) }

// Pending returns the number of nodes waiting to start.
func (b *Builder) Pending() int { return len(b.pending) }

// Lookup returns the node wrapping el.
func (b *Builder) Lookup(el dom.Element) (*Node, bool) {
	n, ok := b.index[el]
	return n, ok
}

// Enter pushes n onto the construction stack, or re-pushes the current top
// when n is nil, and returns the pushed node.
func (b *Builder) Enter(n *Node) *Node {
	if n == nil {
		n = b.Top()
	}
	b.stack = append(b.stack, n)
	return n
}

// Exit pops the entry pushed by the matching Enter. When err is nil the
// deferred-start queue is drained; otherwise queued nodes are left for an
// enclosing scope. err is returned unchanged, or wrapped in a W040 error
// on underflow.
func (b *Builder) Exit(err error) error {
	if !b.pop() {
		if err != nil {
			return errors.New("W040").Wrap(err)
		}
		return errors.New("W040")
	}
	if err == nil {
		b.drain()
	}
	return err
}

// Scope runs body with n (or the current top when n is nil) as the current
// parent. The stack entry is popped on every exit path, panics included.
// The deferred-start queue is drained only when body returns nil.
func (b *Builder) Scope(n *Node, body func(n *Node) error) (err error) {
	top := b.Enter(n)
	returned := false
	defer func() {
		if !returned {
			b.pop()
		}
	}()
	err = body(top)
	returned = true
	return b.Exit(err)
}

// Nest runs body with n as the current parent without draining the
// deferred-start queue on exit.
func (b *Builder) Nest(n *Node, body func(n *Node) error) error {
	top := b.Enter(n)
	defer b.pop()
	return body(top)
}

// Flush drains the deferred-start queue.
func (b *Builder) Flush() {
	b.drain()
}

func (b *Builder) pop() bool {
	if len(b.stack) <= 1 {
		return false
	}
	b.stack[len(b.stack)-1] = nil
	b.stack = b.stack[:len(b.stack)-1]
	return true
}

// drain starts queued nodes, most recently queued first. Nodes queued while
// draining are started by the same loop.
func (b *Builder) drain() {
	for len(b.pending) > 0 {
		last := len(b.pending) - 1
		n := b.pending[last]
		b.pending[last] = nil
		b.pending = b.pending[:last]
		n.start()
	}
}

func (b *Builder) enqueue(n *Node) {
	b.pending = append(b.pending, n)
}

func (b *Builder) textField(kind string) string {
	if f, ok := b.textFields[kind]; ok {
		return f
	}
	return "text"
}

// forget drops index entries for el's subtree.
func (b *Builder) forget(el dom.Element) {
	delete(b.index, el)
	for _, c := range el.Children() {
		b.forget(c)
	}
}
