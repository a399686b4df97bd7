package node

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
)

// EventHelper binds a platform event to a handler. The handler arguments
// are cached like any other binding, so a source passed as an argument
// delivers its latest value when the event fires.
type EventHelper struct {
	n         *Node
	event     string
	withEvent bool
}

// Bind returns an event helper whose handler receives the event first.
//
//	n.Bind().Event("input").Call(func(ev dom.Event, args ...any) { ... })
func (n *Node) Bind() *EventHelper {
	return &EventHelper{n: n, withEvent: true}
}

// BindX returns an event helper whose handler does not receive the event.
//
//	n.BindX().Event("click").Call(func() { count.Update(inc) })
func (n *Node) BindX() *EventHelper {
	return &EventHelper{n: n}
}

// Event sets the target event.
func (h *EventHelper) Event(name string) *EventHelper {
	h.event = name
	return h
}

// On binds event directly.
func (h *EventHelper) On(event string, fn any, args ...any) *Node {
	return h.Event(event).Call(fn, args...)
}

// Call binds the handler with args. Failures are reported, and the node
// is returned either way.
func (h *EventHelper) Call(fn any, args ...any) *Node {
	if err := h.call(fn, args...); err != nil {
		h.n.report(errors.FromError(err, "W021").WithNode(h.n.id, h.n.kind))
	}
	return h.n
}

// Binder returns the helper as a Binder for component resolution.
func (h *EventHelper) Binder() Binder {
	return h.call
}

func (h *EventHelper) call(fn any, args ...any) error {
	if h.event == "" {
		return errors.New("W023").WithDetail("no event name")
	}
	handler, err := adaptHandler(fn, h.withEvent)
	if err != nil {
		return err
	}

	n := h.n
	key := n.subscribe(func([]any, map[string]any) {}, args, nil, false)
	n.el.AddEventListener(h.event, func(ev dom.Event) {
		cached, _ := n.reg.args(key)
		handler(ev, cached)
	})
	return nil
}

// toggleTarget is shared by the attribute and style helpers.
type toggleTarget struct {
	n    *Node
	name string
}

func onOff(values []string) (on, off string) {
	on, off = "true", ""
	if len(values) > 0 {
		on = values[0]
	}
	if len(values) > 1 {
		off = values[1]
	}
	return on, off
}

// AttrHelper toggles an attribute from a trigger value or source.
type AttrHelper struct{ toggleTarget }

// Attr returns an attribute-presence helper.
//
//	n.Attr().Name("disabled").Apply(busy)
func (n *Node) Attr() *AttrHelper {
	return &AttrHelper{toggleTarget{n: n}}
}

// Name sets the target attribute.
func (h *AttrHelper) Name(name string) *AttrHelper {
	h.name = name
	return h
}

// Toggle binds the named attribute directly.
func (h *AttrHelper) Toggle(name string, trigger any, values ...string) *Node {
	return h.Name(name).Apply(trigger, values...)
}

// Apply subscribes to trigger. values are the "on" literal (default
// "true") and the "off" literal (default ""). An empty literal removes the
// attribute.
func (h *AttrHelper) Apply(trigger any, values ...string) *Node {
	n, name := h.n, h.name
	if name == "" {
		n.report(errors.New("W023").WithNode(n.id, n.kind).WithDetail("no attribute name"))
		return n
	}
	on, off := onOff(values)
	return n.Subscribe(func(args []any, _ map[string]any) {
		v := off
		if truthy(first(args)) {
			v = on
		}
		if v == "" {
			n.el.RemoveAttribute(name)
			return
		}
		if err := n.el.SetAttribute(name, v); err != nil {
			n.swallow(errors.New("W080").WithNode(n.id, n.kind).Wrap(err))
		}
	}, trigger)
}

// StyleHelper toggles a style property from a trigger value or source.
type StyleHelper struct{ toggleTarget }

// Style returns a style-toggle helper.
//
//	n.Style().Name("color").Apply(alert, "red", "")
func (n *Node) Style() *StyleHelper {
	return &StyleHelper{toggleTarget{n: n}}
}

// Name sets the target style property.
func (h *StyleHelper) Name(prop string) *StyleHelper {
	h.name = prop
	return h
}

// Toggle binds the named style property directly.
func (h *StyleHelper) Toggle(prop string, trigger any, values ...string) *Node {
	return h.Name(prop).Apply(trigger, values...)
}

// Apply subscribes to trigger. Style assignments the platform refuses are
// swallowed.
func (h *StyleHelper) Apply(trigger any, values ...string) *Node {
	n, prop := h.n, h.name
	if prop == "" {
		n.report(errors.New("W023").WithNode(n.id, n.kind).WithDetail("no style property"))
		return n
	}
	on, off := onOff(values)
	return n.Subscribe(func(args []any, _ map[string]any) {
		v := off
		if truthy(first(args)) {
			v = on
		}
		n.setStyle(prop, v)
	}, trigger)
}

func (n *Node) setStyle(prop, value string) {
	if err := n.el.Style().Set(prop, value); err != nil {
		n.swallow(errors.New("W081").WithNode(n.id, n.kind).
			WithDetail(fmt.Sprintf("%s: %q", prop, value)).Wrap(err))
	}
}

// ClassHelper toggles class tokens from a trigger value or source.
type ClassHelper struct {
	n     *Node
	names []string
}

// Class returns a class-toggle helper.
//
//	n.Class().Name("active").Name("bold").Apply(selected)
func (n *Node) Class() *ClassHelper {
	return &ClassHelper{n: n}
}

// Name appends target class tokens.
func (h *ClassHelper) Name(names ...string) *ClassHelper {
	h.names = append(h.names, names...)
	return h
}

// Toggle binds a single class token directly.
func (h *ClassHelper) Toggle(name string, trigger any) *Node {
	return h.Name(name).Apply(trigger)
}

// Apply subscribes to trigger: a truthy value adds every token, a falsy
// value removes them.
func (h *ClassHelper) Apply(trigger any) *Node {
	n := h.n
	if len(h.names) == 0 {
		n.report(errors.New("W023").WithNode(n.id, n.kind).WithDetail("no class name"))
		return n
	}
	names := append([]string(nil), h.names...)
	return n.Subscribe(func(args []any, _ map[string]any) {
		n.setClasses(truthy(first(args)), names...)
	}, trigger)
}

// setClasses adds or removes tokens from the class list without creating
// duplicates.
func (n *Node) setClasses(add bool, tokens ...string) {
	classes := strings.Fields(n.el.ClassName())
	changed := false
	for _, tok := range tokens {
		idx := indexOf(classes, tok)
		switch {
		case add && idx < 0:
			classes = append(classes, tok)
			changed = true
		case !add && idx >= 0:
			classes = append(classes[:idx], classes[idx+1:]...)
			changed = true
		}
	}
	if changed {
		n.el.SetClassName(strings.Join(classes, " "))
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// RenderHelper rebuilds the node's children when its arguments change.
type RenderHelper struct {
	n     *Node
	eager bool
}

// Render returns a conditional re-render helper.
//
//	ul.Render().Call(func(args []any, _ map[string]any) {
//	    for _, item := range args[0].([]string) {
//	        b.Create("li").SetTextTemplate(item)
//	    }
//	}, items)
func (n *Node) Render() *RenderHelper {
	return &RenderHelper{n: n}
}

// Eager makes the rebuild also run when the node starts.
func (h *RenderHelper) Eager() *RenderHelper {
	h.eager = true
	return h
}

// Call registers fn. By default the binding is deferred: fn first runs on
// the first emission after the node has started.
func (h *RenderHelper) Call(fn func(args []any, named map[string]any), args ...any) *Node {
	return h.CallKV(fn, nil, args...)
}

// CallKV is Call with named arguments.
func (h *RenderHelper) CallKV(fn func(args []any, named map[string]any), named map[string]any, args ...any) *Node {
	n := h.n
	action := func(a []any, kw map[string]any) {
		n.clearChildren()
		fn(a, kw)
	}
	n.subscribe(action, args, named, !h.eager)
	return n
}

// clearChildren removes every child element and forgets their nodes.
func (n *Node) clearChildren() {
	for _, c := range n.el.Children() {
		n.b.forget(c)
	}
	n.el.Clear()
}

// truthy mirrors the usual dynamic-language notion of truth for the value
// shapes sources emit.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case uint64:
		return x != 0
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan, reflect.String:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128, reflect.Bool:
		return !rv.IsZero()
	}
	return true
}

func first(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
