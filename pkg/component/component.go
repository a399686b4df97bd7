package component

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/observable"
)

// DefaultScopePrefix prefixes the style-scoping attribute of every component.
const DefaultScopePrefix = "_weft-c"

var componentIDCounter atomic.Uint64

// RenderFunc builds the component's children under root. It runs inside a
// construction scope on root.
type RenderFunc func(c *Component, root *node.Node) error

// Component implements node.Component with name-indexed handler and value
// tables.
type Component struct {
	id     uint64
	name   string
	prefix string

	handlers map[string]any
	values   map[string]any

	router node.Router
	render RenderFunc
	onLoad func(c *Component)

	root   *node.Node
	loaded bool
	logger *slog.Logger
}

// Option configures a Component.
type Option func(*Component)

// WithHandler registers fn under name.
func WithHandler(name string, fn any) Option {
	return func(c *Component) {
		c.handlers[name] = fn
	}
}

// WithBinding registers a reactive source under name.
func WithBinding(name string, src observable.Source) Option {
	return func(c *Component) {
		c.values[name] = src
	}
}

// WithValue registers a plain value under name.
func WithValue(name string, v any) Option {
	return func(c *Component) {
		c.values[name] = v
	}
}

// WithRouter sets the router route links resolve against.
func WithRouter(r node.Router) Option {
	return func(c *Component) {
		c.router = r
	}
}

// WithRender sets the function that builds the component's children.
func WithRender(fn RenderFunc) Option {
	return func(c *Component) {
		c.render = fn
	}
}

// WithLoad sets a hook that runs after the component has rendered.
func WithLoad(fn func(c *Component)) Option {
	return func(c *Component) {
		c.onLoad = fn
	}
}

// WithScopePrefix overrides DefaultScopePrefix.
func WithScopePrefix(prefix string) Option {
	return func(c *Component) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for render failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Component) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a component.
func New(name string, opts ...Option) *Component {
	c := &Component{
		id:       componentIDCounter.Add(1),
		name:     name,
		prefix:   DefaultScopePrefix,
		handlers: make(map[string]any),
		values:   make(map[string]any),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory adapts a constructor to node.Factory.
func Factory(fn func(args ...any) *Component) node.Factory {
	return func(args ...any) node.Component {
		return fn(args...)
	}
}

// Define registers fn as the component factory for tag.
func Define(b *node.Builder, tag string, fn func(args ...any) *Component) {
	b.Define(tag, Factory(fn))
}

// ID returns the component id.
func (c *Component) ID() uint64 { return c.id }

// Name returns the component name.
func (c *Component) Name() string { return c.name }

// Root returns the node the component was rendered into, or nil.
func (c *Component) Root() *node.Node { return c.root }

// Loaded reports whether Load has run.
func (c *Component) Loaded() bool { return c.loaded }

// Handle registers fn under name after construction.
func (c *Component) Handle(name string, fn any) *Component {
	c.handlers[name] = fn
	return c
}

// Set registers a value under name after construction.
func (c *Component) Set(name string, v any) *Component {
	c.values[name] = v
	return c
}

// Value returns the value registered under name.
func (c *Component) Value(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Render implements node.Component.
func (c *Component) Render(n *node.Node) {
	c.root = n
}

// Load implements node.Component. It runs the render function with the
// root node as the current parent, then the load hook. Nodes created by the
// render are started by the enclosing scope, or here when no scope is open.
// Later calls do nothing.
func (c *Component) Load() {
	if c.loaded || c.root == nil {
		return
	}
	c.loaded = true

	if c.render != nil {
		b := c.root.Builder()
		outermost := b.Depth() == 1
		err := b.Nest(c.root, func(n *node.Node) error {
			return c.render(c, n)
		})
		if err == nil && outermost {
			b.Flush()
		}
		if err != nil {
			c.logger.Warn("weft: component render failed",
				slog.String("component", c.name),
				slog.Uint64("node_id", c.root.ID()),
				slog.Any("error", err))
		}
	}
	if c.onLoad != nil {
		c.onLoad(c)
	}
}

// Bind implements node.Component.
func (c *Component) Bind(binder node.Binder, raw string, lambdize bool) error {
	name, argExprs, err := parseCall(raw, lambdize)
	if err != nil {
		return err
	}

	h, ok := c.handlers[name]
	if !ok {
		if h, ok = c.values[name]; !ok {
			return errors.New("W020").
				WithDetail("no handler named " + strconv.Quote(name) + " in component " + c.name)
		}
	}

	args := make([]any, 0, len(argExprs))
	for _, expr := range argExprs {
		v, err := c.resolveArg(expr)
		if err != nil {
			return err
		}
		args = append(args, v)
	}
	return binder(h, args...)
}

// Format implements node.Component.
func (c *Component) Format(fn node.FormatBinder, positional []string, named map[string]string) error {
	args := make([]any, 0, len(positional))
	for _, name := range positional {
		v, err := c.resolveArg(name)
		if err != nil {
			return err
		}
		args = append(args, v)
	}

	var kw map[string]any
	if len(named) > 0 {
		kw = make(map[string]any, len(named))
		for field, name := range named {
			v, err := c.resolveArg(name)
			if err != nil {
				return err
			}
			kw[field] = v
		}
	}

	fn(args, kw)
	return nil
}

// CIDName implements node.Component.
func (c *Component) CIDName() string {
	return c.prefix + strconv.FormatUint(c.id, 10)
}

// Router implements node.Component.
func (c *Component) Router() node.Router {
	return c.router
}

// resolveArg looks expr up in the value table, then parses it as a literal.
func (c *Component) resolveArg(expr string) (any, error) {
	if v, ok := c.values[expr]; ok {
		return v, nil
	}
	if v, ok := parseLiteral(expr); ok {
		return v, nil
	}
	return nil, errors.New("W020").
		WithDetail("no value named " + strconv.Quote(expr) + " in component " + c.name)
}
