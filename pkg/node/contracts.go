package node

// Component is the logical component that owns a subtree of nodes.
type Component interface {
	// Load is called once the component node has been attached.
	Load()

	// Render hands the component its root node.
	Render(n *Node)

	// Bind resolves raw (a handler name, or "name(arg, ...)" when lambdize is
	// set) and feeds the result to binder.
	Bind(binder Binder, raw string, lambdize bool) error

	// Format resolves template argument names and feeds them to fn.
	Format(fn FormatBinder, positional []string, named map[string]string) error

	// CIDName returns the attribute name used to scope styles to the component.
	CIDName() string

	// Router returns the router links resolve against, or nil.
	Router() Router
}

// Factory instantiates the component for a tag that spawns one.
type Factory func(args ...any) Component

// Router is the navigation surface used by route links.
type Router interface {
	// Resolve returns the canonical target for a link specification.
	Resolve(link string) string

	// Navigate routes to a resolved target.
	Navigate(target string, params map[string]string)

	// RegisterActive asks the router to call toggle whenever the match
	// state of target changes.
	RegisterActive(target string, toggle func(active bool, class string), class string)
}

// Binder is a binding entry point a component feeds with a resolved
// handler (or value) and arguments.
type Binder func(handler any, args ...any) error

// FormatBinder receives resolved text template arguments.
type FormatBinder func(args []any, named map[string]any) *Node

// Callback is a subscription callback. args and named are copies of the
// cached arguments for the subscription.
type Callback func(args []any, named map[string]any)
