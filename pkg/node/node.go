package node

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
)

// RouteLink is a construction-time route link descriptor.
type RouteLink struct {
	Path        string
	Params      map[string]string
	ActiveClass string
}

// Node wraps one platform element.
type Node struct {
	id     uint64
	b      *Builder
	el     dom.Element
	kind   string
	parent *Node

	component Component
	wrapped   bool
	link      *RouteLink
	started   bool

	template    string
	templateSet bool

	reg   *registry
	cache map[string]string
}

// CreateOption configures a node at construction.
type CreateOption func(*createOptions)

type createOptions struct {
	attrs    []dom.Attr
	link     *RouteLink
	compArgs []any
	wrapped  bool
}

// WithAttr sets a platform attribute (or a directive) before interception.
func WithAttr(name, value string) CreateOption {
	return func(o *createOptions) {
		o.attrs = append(o.attrs, dom.Attr{Name: name, Value: value})
	}
}

// WithAttrs sets attributes from name/value pairs. A trailing name without
// a value gets "".
func WithAttrs(pairs ...string) CreateOption {
	return func(o *createOptions) {
		for i := 0; i < len(pairs); i += 2 {
			a := dom.Attr{Name: pairs[i]}
			if i+1 < len(pairs) {
				a.Value = pairs[i+1]
			}
			o.attrs = append(o.attrs, a)
		}
	}
}

// WithRouteLink makes the node navigate to path when clicked.
func WithRouteLink(path string, params map[string]string) CreateOption {
	return func(o *createOptions) {
		if o.link == nil {
			o.link = &RouteLink{}
		}
		o.link.Path = path
		o.link.Params = params
	}
}

// WithActiveClass sets the class toggled while the node's route link matches
// the current route.
func WithActiveClass(class string) CreateOption {
	return func(o *createOptions) {
		if o.link == nil {
			o.link = &RouteLink{}
		}
		o.link.ActiveClass = class
	}
}

// WithComponentArgs passes arguments to the component factory of the tag.
func WithComponentArgs(args ...any) CreateOption {
	return func(o *createOptions) {
		o.compArgs = args
	}
}

// AsWrapper marks the node as an internally generated component wrapper:
// it is not inserted into its parent and its component loads immediately.
func AsWrapper() CreateOption {
	return func(o *createOptions) {
		o.wrapped = true
	}
}

// Create makes a new element of the given tag and intercepts it.
func (b *Builder) Create(tag string, opts ...CreateOption) *Node {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}
	el := b.newElement(strings.ToLower(tag))
	for _, a := range o.attrs {
		_ = el.SetAttribute(a.Name, a.Value)
	}
	return b.intercept(el, o)
}

// Wrap intercepts an existing platform element. Attributes already present
// on el are parsed for directives.
func (b *Builder) Wrap(el dom.Element, opts ...CreateOption) *Node {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}
	for _, a := range o.attrs {
		_ = el.SetAttribute(a.Name, a.Value)
	}
	return b.intercept(el, o)
}

// El creates a node and runs body with it as the current parent. Nodes
// created in body are queued but not started; the enclosing Scope starts
// them.
func (b *Builder) El(tag string, body func(n *Node) error, opts ...CreateOption) (*Node, error) {
	n := b.Create(tag, opts...)
	if body == nil {
		return n, nil
	}
	return n, b.Nest(n, body)
}

// Tag creates a node the way end-user code does for custom tags: when the
// tag spawns a component, the component is loaded here.
func (b *Builder) Tag(name string, opts ...CreateOption) *Node {
	n := b.Create(name, opts...)
	if _, ok := b.factories[n.kind]; ok && !n.wrapped && n.component != nil {
		n.component.Load()
	}
	return n
}

// intercept runs once per node, before any user body executes.
func (b *Builder) intercept(el dom.Element, o createOptions) *Node {
	kind := el.Tag()
	n := &Node{
		id:      nextNodeID(),
		b:       b,
		el:      el,
		kind:    kind,
		parent:  b.Top(),
		wrapped: o.wrapped,
		link:    o.link,
		reg:     newRegistry(),
		cache:   make(map[string]string),
	}
	b.index[el] = n

	// Queued before component rendering so component children start first.
	if !b.unqueued[kind] {
		b.enqueue(n)
	}

	if factory, ok := b.factories[kind]; ok {
		_ = b.Nest(n, func(*Node) error {
			n.component = factory(o.compArgs...)
			return nil
		})
		if n.component != nil {
			n.component.Render(n)
		}
	} else {
		if kind != KindStyle {
			n.component = n.parent.component
		}
		if kind != KindRouterOutlet {
			n.tagComponent()
		}
	}

	n.parseDirectives()

	if !n.wrapped {
		parent := n.parent.el
		if kind != KindText && !b.compact && hasElementChildren(parent) {
			parent.AppendText("\n")
		}
		parent.AppendChild(el)
	}

	b.notifyCreated(n)

	// Wrappers load once their own directives are bound.
	if n.wrapped && n.component != nil {
		n.component.Load()
	}
	return n
}

// tagComponent marks the element with its component's style-scoping
// attribute. Failures are expected for some kinds and are swallowed.
func (n *Node) tagComponent() {
	if n.component == nil {
		n.swallow(errors.New("W080").WithNode(n.id, n.kind).
			WithDetail("no component to scope the node to"))
		return
	}
	if err := n.el.SetAttribute(n.component.CIDName(), ""); err != nil {
		n.swallow(errors.New("W080").WithNode(n.id, n.kind).Wrap(err))
	}
}

// parseDirectives consumes directive attributes and turns them into
// bindings. A failing directive is reported and skipped; the remaining
// directives are still processed.
func (n *Node) parseDirectives() {
	var (
		positional []string
		named      map[string]string
	)

	for _, a := range n.el.Attributes() {
		d, ok := ParseDirective(a.Name, a.Value)
		if !ok {
			continue
		}
		n.el.RemoveAttribute(a.Name)

		switch d.Kind {
		case DirectivePositional:
			positional = append(positional, d.Name)
		case DirectiveNamed:
			if named == nil {
				named = make(map[string]string)
			}
			named[d.Name] = d.Value
		case DirectiveMalformed:
			n.report(errors.New("W001").WithNode(n.id, n.kind).
				WithDetail("attribute " + a.Name))
		default:
			if err := n.bindDirective(d); err != nil {
				n.report(err)
			}
		}
	}

	if len(positional) == 0 && len(named) == 0 {
		return
	}
	if n.component == nil {
		n.report(errors.New("W002").WithNode(n.id, n.kind))
		return
	}
	if err := n.component.Format(n.formatWith, positional, named); err != nil {
		n.report(errors.FromError(err, "W020").WithNode(n.id, n.kind))
	}
}

func (n *Node) bindDirective(d Directive) error {
	if n.component == nil {
		return errors.New("W002").WithNode(n.id, n.kind)
	}

	var binder Binder
	switch d.Kind {
	case DirectiveEvent:
		binder = n.BindX().Event(d.Name).Binder()
	case DirectiveEventWithArg:
		binder = n.Bind().Event(d.Name).Binder()
	case DirectiveMethod:
		m, ok := nodeMethods[strings.ToLower(d.Name)]
		if !ok {
			return errors.New("W003").WithNode(n.id, n.kind).WithDetail("method " + d.Name)
		}
		binder = m(n)
	}

	lambdize := d.Kind != DirectiveMethod && strings.HasSuffix(d.Value, ")")
	if err := n.component.Bind(binder, d.Value, lambdize); err != nil {
		return errors.FromError(err, "W020").WithNode(n.id, n.kind)
	}
	return nil
}

func hasElementChildren(el dom.Element) bool {
	for _, c := range el.Children() {
		if c.Tag() != dom.TextTag {
			return true
		}
	}
	return false
}

// ID returns the process-unique node id.
func (n *Node) ID() uint64 { return n.id }

// Parent returns the node that was the current parent at construction.
// It is nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Element returns the wrapped platform element.
func (n *Node) Element() dom.Element { return n.el }

// Kind returns the lower-cased tag name.
func (n *Node) Kind() string { return n.kind }

// Component returns the owning component, or nil.
func (n *Node) Component() Component { return n.component }

// Started reports whether the node has been activated.
func (n *Node) Started() bool { return n.started }

// Wrapped reports whether the node is an internal component wrapper.
func (n *Node) Wrapped() bool { return n.wrapped }

// Builder returns the builder that created the node.
func (n *Node) Builder() *Builder { return n.b }

// TextField returns the element property that holds the node's text.
func (n *Node) TextField() string { return n.b.textField(n.kind) }

// Text returns the current value of the node's text field.
func (n *Node) Text() string { return n.el.Property(n.TextField()) }

// TextTemplate returns the format template for the text field. It is
// resolved when the node starts.
func (n *Node) TextTemplate() string { return n.template }

// SetTextTemplate sets the format template explicitly, before or after
// the node starts.
func (n *Node) SetTextTemplate(tmpl string) *Node {
	n.template = tmpl
	n.templateSet = true
	return n
}

// CacheGet reads a node-local transient value.
func (n *Node) CacheGet(key string) (string, bool) {
	v, ok := n.cache[key]
	return v, ok
}

// CacheSet stores a node-local transient value.
func (n *Node) CacheSet(key, value string) {
	n.cache[key] = value
}

// Bindings returns the number of subscriptions the node holds.
func (n *Node) Bindings() int { return len(n.reg.keys) }

// swallow records an expected, non-fatal failure.
func (n *Node) swallow(err error) {
	n.b.logger.Debug("weft: swallowed error",
		slog.Uint64("node_id", n.id),
		slog.String("tag", n.kind),
		slog.String("category", string(errors.CategoryOf(err))),
		slog.Any("error", err))
	n.b.notifySwallowed(n, err)
}

// report records a failure that the caller should see in the logs.
func (n *Node) report(err error) {
	n.b.logger.Warn("weft: binding failed",
		slog.Uint64("node_id", n.id),
		slog.String("tag", n.kind),
		slog.String("category", string(errors.CategoryOf(err))),
		slog.Any("error", err))
	n.b.notifySwallowed(n, err)
}
