// Package demo builds the sample applications used by the weft CLI: a
// counter, a todo list and a navigation shell with a router outlet.
package demo

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/component"
	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/observable"
	"github.com/vango-dev/weft/pkg/router"
)

// App is a built demo.
type App struct {
	Name    string
	Builder *node.Builder
	Root    *node.Node

	Count  *observable.Observable[int]
	Todos  *observable.Observable[[]string]
	Draft  *observable.Observable[string]
	Router *router.Router

	logger *slog.Logger
}

type builderFunc func(a *App, prefix string) *node.Node

var demos = map[string]builderFunc{
	"counter": buildCounter,
	"todo":    buildTodo,
	"nav":     buildNav,
}

// Names returns the available demo names in order.
func Names() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the demo called name into a fresh body element. cfg may be
// nil; extra options are applied after the configuration.
func New(name string, cfg *config.Config, logger *slog.Logger, opts ...node.Option) (*App, error) {
	build, ok := demos[name]
	if !ok {
		return nil, errors.New("W160").
			WithDetail("unknown demo " + strconv.Quote(name)).
			WithSuggestion("Available demos: " + strings.Join(Names(), ", "))
	}
	if cfg == nil {
		cfg = config.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	all := append([]node.Option{node.WithConfig(cfg), node.WithLogger(logger)}, opts...)
	a := &App{
		Name:    name,
		Builder: node.NewBuilder(dom.New("body"), all...),
		Count:   observable.New(0),
		Todos:   observable.New([]string{}),
		Draft:   observable.New(""),
		logger:  logger,
	}
	a.Root = build(a, cfg.Nodes.ScopePrefix)
	return a, nil
}

// HTML renders the whole document body.
func (a *App) HTML() string {
	return dom.HTML(a.Builder.Root().Element())
}

// Click dispatches a click on the first element in the tree with tag and,
// when class is not empty, that class. It reports whether one was found.
func (a *App) Click(tag, class string) bool {
	root := a.Builder.Root().Element().(*dom.Elem)
	el := root.Find(func(e *dom.Elem) bool {
		if e.Tag() != tag {
			return false
		}
		return class == "" || hasClass(e.ClassName(), class)
	})
	if el == nil {
		return false
	}
	el.Dispatch(dom.Event{Type: "click"})
	return true
}

func hasClass(list, class string) bool {
	for _, c := range strings.Fields(list) {
		if c == class {
			return true
		}
	}
	return false
}

func defineCounter(a *App, prefix string) {
	component.Define(a.Builder, "counter", func(...any) *component.Component {
		return component.New("counter",
			component.WithScopePrefix(prefix),
			component.WithBinding("count", a.Count),
			component.WithHandler("inc", func() {
				a.Count.Update(func(v int) int { return v + 1 })
			}),
			component.WithHandler("add", func(args ...any) {
				d, _ := args[0].(int)
				a.Count.Update(func(v int) int { return v + d })
			}),
			component.WithHandler("reset", func() { a.Count.Set(0) }),
			component.WithRender(func(c *component.Component, root *node.Node) error {
				b := root.Builder()
				b.Create("h2", node.WithAttr("[]", "count")).SetTextTemplate("Count: {}")
				b.Create("button", node.WithAttrs("class", "inc", "(click)", "inc")).
					SetTextTemplate("+1").Format()
				b.Create("button", node.WithAttrs("class", "dec", "(click)", "add(-1)")).
					SetTextTemplate("-1").Format()
				b.Create("button", node.WithAttrs("class", "reset", "(click)", "reset")).
					SetTextTemplate("reset").Format()

				big := observable.Derive(a.Count, func(v int) bool { return v >= 10 })
				b.Create("p", node.WithAttr("class", "hint")).
					Display(big, "block", "none").
					SetTextTemplate("That is a lot of clicks.").Format()
				return nil
			}),
		)
	})
}

func buildCounter(a *App, prefix string) *node.Node {
	defineCounter(a, prefix)
	return a.Builder.Tag("counter")
}

func defineTodo(a *App, prefix string) {
	component.Define(a.Builder, "todo-list", func(...any) *component.Component {
		return component.New("todo-list",
			component.WithScopePrefix(prefix),
			component.WithBinding("todos", a.Todos),
			component.WithBinding("draft", a.Draft),
			component.WithHandler("add", func() {
				text := strings.TrimSpace(a.Draft.Peek())
				if text == "" {
					return
				}
				a.Todos.Update(func(list []string) []string {
					return append(append([]string(nil), list...), text)
				})
				a.Draft.Set("")
			}),
			component.WithHandler("clear", func() { a.Todos.Set([]string{}) }),
			component.WithRender(func(c *component.Component, root *node.Node) error {
				b := root.Builder()
				b.Create("input", node.WithAttrs("placeholder", "What needs doing?", "*fmtvalue", "draft"))
				b.Create("button", node.WithAttrs("class", "add", "(click)", "add")).
					SetTextTemplate("Add").Format()

				list := b.Create("ul")
				list.Render().Eager().Call(func(args []any, _ map[string]any) {
					for i, item := range args[0].([]string) {
						li := b.Create("li", node.WithAttr("data-index", strconv.Itoa(i)))
						li.SetTextTemplate(item).Format()
					}
				}, a.Todos)

				b.Create("p", node.WithAttr("class", "remaining")).
					FormatFunc(func(args []any, _ map[string]any) any {
						n := len(args[0].([]string))
						if n == 1 {
							return "1 item"
						}
						return strconv.Itoa(n) + " items"
					}, a.Todos)

				empty := observable.Derive(a.Todos, func(list []string) bool { return len(list) == 0 })
				b.Create("button", node.WithAttrs("class", "clear", "(click)", "clear")).
					SetTextTemplate("Clear").Format().
					Attr().Name("disabled").Apply(empty)
				return nil
			}),
		)
	})
}

func buildTodo(a *App, prefix string) *node.Node {
	defineTodo(a, prefix)
	return a.Builder.Tag("todo-list")
}

func buildNav(a *App, prefix string) *node.Node {
	r := router.New("/", router.WithLogger(a.logger))
	r.Handle("/", "home-page")
	r.Handle("/counter", "counter")
	r.Handle("/todos", "todo-list")
	a.Router = r

	defineCounter(a, prefix)
	defineTodo(a, prefix)
	component.Define(a.Builder, "home-page", func(...any) *component.Component {
		return component.New("home-page",
			component.WithScopePrefix(prefix),
			component.WithRender(func(c *component.Component, root *node.Node) error {
				root.Builder().Create("h1").SetTextTemplate("weft demo").Format()
				return nil
			}))
	})
	component.Define(a.Builder, "app", func(...any) *component.Component {
		return component.New("app",
			component.WithScopePrefix(prefix),
			component.WithRouter(r),
			component.WithRender(func(c *component.Component, root *node.Node) error {
				b := root.Builder()
				_, err := b.El("nav", func(*node.Node) error {
					for _, l := range []struct{ path, label string }{
						{"/", "Home"},
						{"/counter", "Counter"},
						{"/todos", "Todos"},
					} {
						b.Create("a",
							node.WithAttrs("href", l.path, "class", "link"),
							node.WithRouteLink(l.path, nil),
							node.WithActiveClass("active"),
						).SetTextTemplate(l.label).Format()
					}
					return nil
				})
				if err != nil {
					return err
				}
				r.Outlet(b.Create(node.KindRouterOutlet))
				return nil
			}))
	})
	return a.Builder.Tag("app")
}

// Tick advances the demo by one simulated interaction: the counter
// increments, the todo list gains an item, and the nav shell moves to the
// next route.
func (a *App) Tick() {
	switch a.Name {
	case "counter":
		a.Click("button", "inc")
	case "todo":
		a.Draft.Set("task " + strconv.Itoa(len(a.Todos.Peek())+1))
		a.Click("button", "add")
	case "nav":
		routes := a.Router.Routes()
		next := routes[0].Pattern
		for i, r := range routes {
			if r.Pattern == a.Router.Path() && i+1 < len(routes) {
				next = routes[i+1].Pattern
			}
		}
		a.Router.Navigate(next, nil)
	}
}
