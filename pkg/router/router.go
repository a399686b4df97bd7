package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/observable"
)

// Routing errors.
var (
	ErrDuplicateRoute = errors.New("route already registered")
	ErrNoRoute        = errors.New("no route matches path")
)

// Route maps a pattern to the component tag rendered in outlets.
type Route struct {
	Pattern string
	Tag     string
}

// Match is the result of matching a path.
type Match struct {
	Route  *Route
	Path   string
	Params map[string]string
}

// Router implements node.Router.
type Router struct {
	base    string
	tree    *routeNode
	routes  []*Route
	current *observable.Observable[string]
	query   url.Values
	history []string
	exact   bool
	logger  *slog.Logger
}

var _ node.Router = (*Router)(nil)

// Option configures a Router.
type Option func(*Router)

// WithExactActive makes links active only on an exact path match. By
// default a link is also active for paths below it.
func WithExactActive() Option {
	return func(r *Router) {
		r.exact = true
	}
}

// WithInitialPath sets the path the router starts on. The default is base.
func WithInitialPath(path string) Option {
	return func(r *Router) {
		if p, _, err := CanonicalizePath(path); err == nil {
			r.current.Set(p)
		}
	}
}

// WithLogger sets the logger used for rejected links.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a router rooted at base.
func New(base string, opts ...Option) *Router {
	b, _, err := CanonicalizePath(base)
	if err != nil {
		b = "/"
	}
	r := &Router{
		base:    b,
		tree:    &routeNode{},
		current: observable.New(b),
		query:   url.Values{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Base returns the canonical base path.
func (r *Router) Base() string { return r.base }

// Current returns the observable current path.
func (r *Router) Current() *observable.Observable[string] { return r.current }

// Path returns the current path.
func (r *Router) Path() string { return r.current.Peek() }

// Query returns a copy of the current query parameters.
func (r *Router) Query() url.Values {
	out := make(url.Values, len(r.query))
	for k, v := range r.query {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Handle registers tag as the component rendered for pattern. Patterns are
// relative to base.
func (r *Router) Handle(pattern, tag string) error {
	p, _, err := CanonicalizePath(joinPath(r.base, strings.TrimPrefix(pattern, "/")))
	if err != nil {
		return fmt.Errorf("router: pattern %q: %w", pattern, err)
	}
	n := r.tree.insert(p)
	if n.route != nil {
		return fmt.Errorf("router: pattern %q: %w", pattern, ErrDuplicateRoute)
	}
	n.route = &Route{Pattern: p, Tag: strings.ToLower(tag)}
	r.routes = append(r.routes, n.route)
	return nil
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	for i, rt := range r.routes {
		out[i] = *rt
	}
	return out
}

// Match matches path against the registered routes.
func (r *Router) Match(path string) (Match, error) {
	p, _, err := CanonicalizePath(path)
	if err != nil {
		return Match{}, err
	}
	params := make(map[string]string)
	n, ok := r.tree.match(splitPath(p), params)
	if !ok {
		return Match{Path: p}, fmt.Errorf("router: %s: %w", p, ErrNoRoute)
	}
	return Match{Route: n.route, Path: p, Params: params}, nil
}

// Resolve implements node.Router. Absolute links are taken relative to
// base, relative links relative to the current path. A link that cannot be
// canonicalised resolves to base.
func (r *Router) Resolve(link string) string {
	if link == "" {
		return r.Path()
	}
	if isExternal(link) {
		r.logger.Warn("weft: external route link ignored", slog.String("link", link))
		return r.base
	}

	var joined string
	if strings.HasPrefix(link, "/") {
		joined = joinPath(r.base, strings.TrimPrefix(link, "/"))
	} else {
		joined = joinPath(r.Path(), link)
	}

	p, q, err := CanonicalizePath(joined)
	if err != nil {
		r.logger.Warn("weft: route link rejected",
			slog.String("link", link),
			slog.Any("error", err))
		return r.base
	}
	if q != "" {
		return p + "?" + q
	}
	return p
}

// Navigate implements node.Router. params are merged into the query of
// target. The current path is updated last, so subscribers see the new
// query.
func (r *Router) Navigate(target string, params map[string]string) {
	p, q, err := CanonicalizePath(target)
	if err != nil {
		r.logger.Warn("weft: navigation rejected",
			slog.String("target", target),
			slog.Any("error", err))
		return
	}

	query, _ := url.ParseQuery(q)
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		query.Set(k, params[k])
	}
	r.query = query

	r.history = append(r.history, r.Path())
	r.current.Set(p)
}

// Back returns to the previous path. It reports false when there is no
// history.
func (r *Router) Back() bool {
	if len(r.history) == 0 {
		return false
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	r.query = url.Values{}
	r.current.Set(prev)
	return true
}

// RegisterActive implements node.Router. toggle is called immediately with
// the current match state and again after every navigation.
func (r *Router) RegisterActive(target string, toggle func(active bool, class string), class string) {
	target, _, _ = strings.Cut(target, "?")
	r.current.Subscribe(func(v any) {
		path, _ := v.(string)
		toggle(r.IsActive(target, path), class)
	}, toggle, false)
	toggle(r.IsActive(target, r.Path()), class)
}

// IsActive reports whether a link to target is active on path.
func (r *Router) IsActive(target, path string) bool {
	if target == path {
		return true
	}
	if r.exact || target == r.base {
		return false
	}
	return strings.HasPrefix(path, strings.TrimSuffix(target, "/")+"/")
}
