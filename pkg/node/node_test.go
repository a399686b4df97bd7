package node

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
)

// fakeComponent resolves handler and value names from maps.
type fakeComponent struct {
	id       int
	handlers map[string]any
	values   map[string]any
	router   Router
	root     *Node
	loads    int
}

func (c *fakeComponent) Load()          { c.loads++ }
func (c *fakeComponent) Render(n *Node) { c.root = n }
func (c *fakeComponent) CIDName() string {
	return fmt.Sprintf("_c%d", c.id)
}
func (c *fakeComponent) Router() Router { return c.router }

func (c *fakeComponent) Bind(binder Binder, raw string, lambdize bool) error {
	name := raw
	var args []any
	if lambdize {
		open := strings.IndexByte(raw, '(')
		name = raw[:open]
		for _, a := range strings.Split(strings.TrimSuffix(raw[open+1:], ")"), ",") {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, c.resolve(a))
			}
		}
	}
	h, ok := c.handlers[name]
	if !ok {
		if v, ok := c.values[name]; ok {
			return binder(v, args...)
		}
		return fmt.Errorf("no handler %q", name)
	}
	return binder(h, args...)
}

func (c *fakeComponent) Format(fn FormatBinder, positional []string, named map[string]string) error {
	args := make([]any, 0, len(positional))
	for _, p := range positional {
		args = append(args, c.resolve(p))
	}
	kw := make(map[string]any, len(named))
	for k, v := range named {
		kw[k] = c.resolve(v)
	}
	fn(args, kw)
	return nil
}

func (c *fakeComponent) resolve(name string) any {
	if v, ok := c.values[name]; ok {
		return v
	}
	return name
}

type fakeRouter struct {
	navigated []string
	active    map[string]func(bool, string)
}

func (r *fakeRouter) Resolve(link string) string { return "/app" + link }

func (r *fakeRouter) Navigate(target string, _ map[string]string) {
	r.navigated = append(r.navigated, target)
}

func (r *fakeRouter) RegisterActive(target string, toggle func(bool, string), class string) {
	if r.active == nil {
		r.active = make(map[string]func(bool, string))
	}
	r.active[target] = func(on bool, _ string) { toggle(on, class) }
}

// recorder is an Observer that records lifecycle events.
type recorder struct {
	created   []*Node
	started   []*Node
	swallowed []error
	replays   int
}

func (r *recorder) NodeCreated(n *Node)                   { r.created = append(r.created, n) }
func (r *recorder) NodeStarted(n *Node, _ time.Duration)  { r.started = append(r.started, n) }
func (r *recorder) Replayed(*Node, uint64, bool)          { r.replays++ }
func (r *recorder) Swallowed(_ *Node, err error)          { r.swallowed = append(r.swallowed, err) }

func hasCode(errs []error, code string) bool {
	for _, err := range errs {
		if e, ok := err.(*errors.Error); ok && e.Code == code {
			return true
		}
	}
	return false
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBuilder(opts ...Option) (*Builder, *recorder) {
	rec := &recorder{}
	opts = append([]Option{WithLogger(quietLogger()), WithObserver(rec)}, opts...)
	return NewBuilder(dom.New("body"), opts...), rec
}

// withComponent defines an "app" tag backed by comp and returns its node.
func withComponent(b *Builder, comp *fakeComponent) *Node {
	b.Define("app", func(...any) Component { return comp })
	return b.Tag("app")
}

func elem(n *Node) *dom.Elem {
	return n.Element().(*dom.Elem)
}
