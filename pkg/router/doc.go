// Package router implements client-side routing for weft node trees.
//
// The router provides:
//   - Link resolution with path canonicalisation (absolute and relative links)
//   - A radix tree mapping route patterns to component tags
//   - Parameter extraction for ":name" and "*rest" segments
//   - Active-link registration toggled by the current route
//   - Outlets that re-render the matched component on navigation
//
// # Patterns
//
//	/                 → index
//	/todos            → static segment
//	/todos/:id        → id parameter
//	/files/*path      → catch-all, joined with "/"
//
// # Usage
//
//	r := router.New("/")
//	r.Handle("/", "home-page")
//	r.Handle("/todos/:id", "todo-detail")
//
//	b.Scope(app, func(*node.Node) error {
//	    b.Create("a", node.WithRouteLink("/todos/1", nil), node.WithActiveClass("active"))
//	    r.Outlet(b.Create(node.KindRouterOutlet))
//	    return nil
//	})
//
// The component for a matched tag receives the route parameters as its
// single factory argument (a map[string]string).
//
// A Router is not safe for concurrent use; navigate from the goroutine that
// owns the node tree.
package router
