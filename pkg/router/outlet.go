package router

import (
	"log/slog"

	"github.com/vango-dev/weft/pkg/node"
)

// Outlet makes n render the component of the route matching the current
// path, and re-render it after every navigation. The matched tag is created
// with the route parameters as its factory argument.
func (r *Router) Outlet(n *node.Node) *node.Node {
	b := n.Builder()
	return n.Render().Eager().Call(func(args []any, _ map[string]any) {
		path, _ := args[0].(string)
		m, err := r.Match(path)
		if err != nil {
			r.logger.Debug("weft: outlet has no route", slog.String("path", path))
			return
		}
		b.Tag(m.Route.Tag, node.WithComponentArgs(m.Params))
	}, r.current)
}
