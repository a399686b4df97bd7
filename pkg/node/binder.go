package node

import (
	"fmt"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
)

// eventFunc is the normalised form of an event handler.
type eventFunc func(ev dom.Event, args []any)

// adaptHandler normalises the handler shapes accepted by event bindings.
// withEvent selects whether the event is passed through.
func adaptHandler(h any, withEvent bool) (eventFunc, error) {
	switch fn := h.(type) {
	case nil:
		return nil, errors.New("W021").WithDetail("handler is nil")
	case func():
		return func(dom.Event, []any) { fn() }, nil
	case func(...any):
		if withEvent {
			return func(ev dom.Event, args []any) { fn(append([]any{ev}, args...)...) }, nil
		}
		return func(_ dom.Event, args []any) { fn(args...) }, nil
	case func(dom.Event):
		return func(ev dom.Event, _ []any) { fn(ev) }, nil
	case func(dom.Event, ...any):
		return func(ev dom.Event, args []any) { fn(ev, args...) }, nil
	case Callback:
		return adaptHandler((func([]any, map[string]any))(fn), withEvent)
	case func([]any, map[string]any):
		if withEvent {
			return func(ev dom.Event, args []any) { fn(append([]any{ev}, args...), nil) }, nil
		}
		return func(_ dom.Event, args []any) { fn(args, nil) }, nil
	default:
		return nil, errors.New("W021").WithDetail(fmt.Sprintf("handler has type %T", h))
	}
}

// nodeMethods are the node methods reachable through "*name" directives.
// Each entry builds a Binder bound to the node.
var nodeMethods = map[string]func(n *Node) Binder{
	"fmt": func(n *Node) Binder {
		return func(h any, args ...any) error {
			n.Format(append([]any{h}, args...)...)
			return nil
		}
	},
	"fmtvalue": func(n *Node) Binder {
		return func(h any, args ...any) error {
			n.FmtValue(append([]any{h}, args...)...)
			return nil
		}
	},
	"display": func(n *Node) Binder {
		return func(h any, args ...any) error {
			n.Display(h)
			return nil
		}
	},
	"render": func(n *Node) Binder {
		return func(h any, args ...any) error {
			switch fn := h.(type) {
			case Callback:
				n.Render().Call(fn, args...)
			case func([]any, map[string]any):
				n.Render().Call(fn, args...)
			default:
				return errors.New("W021").WithDetail(fmt.Sprintf("render function has type %T", h))
			}
			return nil
		}
	},
}
