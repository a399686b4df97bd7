package node

import (
	"fmt"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/observable"
)

// PublishFunc receives a published field value.
type PublishFunc func(value string, from *Node)

// Pub pushes the node's text field to every sink when event fires. A sink
// is an observable.Emitter or a PublishFunc; other values are ignored.
func (n *Node) Pub(event string, sinks ...any) *Node {
	n.el.AddEventListener(event, func(dom.Event) {
		n.publish(n.Text(), sinks)
	})
	return n
}

// PubAttr is Pub for a named property or attribute instead of the text
// field.
func (n *Node) PubAttr(event, attr string, sinks ...any) *Node {
	n.el.AddEventListener(event, func(dom.Event) {
		v := n.el.Property(attr)
		if v == "" {
			v, _ = n.el.GetAttribute(attr)
		}
		n.publish(v, sinks)
	})
	return n
}

// PubSub subscribes cb to the sinks and publishes the text field to them
// when event fires.
func (n *Node) PubSub(event string, cb Callback, sinks ...any) *Node {
	n.Subscribe(cb, sinks...)
	return n.Pub(event, sinks...)
}

func (n *Node) publish(v string, sinks []any) {
	for _, s := range sinks {
		switch sink := s.(type) {
		case observable.Emitter:
			if err := sink.Emit(v); err != nil {
				n.report(errors.New("W061").WithNode(n.id, n.kind).Wrap(err))
			}
		case PublishFunc:
			sink(v, n)
		case func(string, *Node):
			sink(v, n)
		case observable.Source:
			n.report(errors.New("W061").WithNode(n.id, n.kind).
				WithDetail(fmt.Sprintf("%T is read-only", s)))
		}
	}
}

// FmtEvtHelper formats the text field from sources and publishes it back
// to them on an event.
type FmtEvtHelper struct {
	n     *Node
	event string
}

// FmtEvt returns a bi-directional text binding helper.
//
//	n.FmtEvt().Event("change").Call(title)
func (n *Node) FmtEvt() *FmtEvtHelper {
	return &FmtEvtHelper{n: n}
}

// Event sets the event that publishes the field.
func (h *FmtEvtHelper) Event(name string) *FmtEvtHelper {
	h.event = name
	return h
}

// Call formats with args and publishes to them on the event.
func (h *FmtEvtHelper) Call(args ...any) *Node {
	if h.event == "" {
		h.n.report(errors.New("W023").WithNode(h.n.id, h.n.kind).WithDetail("no event name"))
		return h.n
	}
	h.n.Format(args...)
	return h.n.Pub(h.event, args...)
}

// FmtValue binds the text field of an input-like node both ways on the
// "input" event.
func (n *Node) FmtValue(args ...any) *Node {
	return n.FmtEvt().Event("input").Call(args...)
}
