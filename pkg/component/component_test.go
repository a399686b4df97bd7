package component

import (
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/observable"
)

func newBuilder() *node.Builder {
	return node.NewBuilder(dom.New("body"),
		node.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestParseCall(t *testing.T) {
	tests := []struct {
		raw      string
		lambdize bool
		name     string
		args     []string
		wantErr  bool
	}{
		{"inc", false, "inc", nil, false},
		{"  inc ", false, "inc", nil, false},
		{"", false, "", nil, true},
		{"pick()", true, "pick", nil, false},
		{"pick(item)", true, "pick", []string{"item"}, false},
		{"pick(item, 2, 'a,b')", true, "pick", []string{"item", "2", "'a,b'"}, false},
		{"(x)", true, "", nil, true},
		{"pick(a,,b)", true, "", nil, true},
		{"pick('open)", true, "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			name, args, err := parseCall(tt.raw, tt.lambdize)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCall(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if name != tt.name {
				t.Errorf("name = %q, want %q", name, tt.name)
			}
			if diff := cmp.Diff(tt.args, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		expr string
		want any
		ok   bool
	}{
		{`"hi"`, "hi", true},
		{`'it\'s'`, "it's", true},
		{"42", 42, true},
		{"-1.5", -1.5, true},
		{"true", true, true},
		{"inf", nil, false},
		{"item", nil, false},
	}
	for _, tt := range tests {
		got, ok := parseLiteral(tt.expr)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseLiteral(%q) = %v, %v; want %v, %v", tt.expr, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBindResolvesHandlersAndArgs(t *testing.T) {
	item := observable.New("apple")
	c := New("list",
		WithHandler("pick", "handler"),
		WithBinding("item", item),
	)

	var gotHandler any
	var gotArgs []any
	binder := func(h any, args ...any) error {
		gotHandler, gotArgs = h, args
		return nil
	}

	if err := c.Bind(binder, "pick(item, 3)", true); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if gotHandler != "handler" {
		t.Errorf("handler = %v", gotHandler)
	}
	if len(gotArgs) != 2 || gotArgs[0] != item || gotArgs[1] != 3 {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestBindFallsBackToValues(t *testing.T) {
	visible := observable.New(true)
	c := New("panel", WithBinding("visible", visible))

	var got any
	err := c.Bind(func(h any, _ ...any) error { got = h; return nil }, "visible", false)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if got != visible {
		t.Error("Bind should pass the registered source")
	}
}

func TestBindErrors(t *testing.T) {
	c := New("empty")
	noop := func(any, ...any) error { return nil }

	tests := []struct {
		raw      string
		lambdize bool
		code     string
	}{
		{"missing", false, "W020"},
		{"missing(x)", true, "W020"},
		{"(", true, "W022"},
	}
	for _, tt := range tests {
		err := c.Bind(noop, tt.raw, tt.lambdize)
		e, ok := err.(*errors.Error)
		if !ok || e.Code != tt.code {
			t.Errorf("Bind(%q) error = %v, want %s", tt.raw, err, tt.code)
		}
	}
}

func TestFormatResolvesNames(t *testing.T) {
	count := observable.New(1)
	c := New("counter", WithBinding("count", count), WithValue("unit", "px"))

	var args []any
	var named map[string]any
	err := c.Format(func(a []any, kw map[string]any) *node.Node {
		args, named = a, kw
		return nil
	}, []string{"count", "7"}, map[string]string{"u": "unit"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if len(args) != 2 || args[0] != count || args[1] != 7 {
		t.Errorf("args = %v", args)
	}
	if diff := cmp.Diff(map[string]any{"u": "px"}, named); diff != "" {
		t.Errorf("named mismatch (-want +got):\n%s", diff)
	}

	if err := c.Format(func([]any, map[string]any) *node.Node { return nil }, []string{"nope"}, nil); err == nil {
		t.Error("Format() should fail on an unknown name")
	}
}

func TestCIDName(t *testing.T) {
	a := New("a")
	b := New("b", WithScopePrefix("_x"))

	if a.CIDName() == b.CIDName() {
		t.Error("components should have distinct scope names")
	}
	if got, want := b.CIDName(), "_x"+strconv.FormatUint(b.ID(), 10); got != want {
		t.Errorf("CIDName() = %q, want %q", got, want)
	}
}

func TestComponentInTree(t *testing.T) {
	b := newBuilder()
	count := observable.New(0)
	var loadedHook bool

	Define(b, "counter", func(...any) *Component {
		return New("counter",
			WithBinding("count", count),
			WithHandler("inc", func() { count.Update(func(v int) int { return v + 1 }) }),
			WithRender(func(c *Component, root *node.Node) error {
				b := root.Builder()
				b.Create("span", node.WithAttr("[]", "count"))
				b.Create("button", node.WithAttr("(click)", "inc"))
				return nil
			}),
			WithLoad(func(*Component) { loadedHook = true }),
		)
	})

	root := b.Tag("counter")
	c := root.Component().(*Component)

	if !c.Loaded() || !loadedHook {
		t.Fatal("component should be loaded by Tag")
	}
	if c.Root() != root {
		t.Error("Root() should be the counter node")
	}

	el := root.Element().(*dom.Elem)
	span, button := el.ByTag("span"), el.ByTag("button")
	if span == nil || button == nil {
		t.Fatalf("children not rendered: %s", dom.HTML(el))
	}
	if span.Property("text") != "0" {
		t.Errorf("span text = %q, want 0", span.Property("text"))
	}
	if _, ok := span.GetAttribute(c.CIDName()); !ok {
		t.Error("children should carry the scope attribute")
	}

	button.Dispatch(dom.Event{Type: "click"})
	if span.Property("text") != "1" {
		t.Errorf("span text = %q, want 1", span.Property("text"))
	}

	c.Load()
	if n := len(el.Children()); n != 3 {
		t.Errorf("second Load rendered again: %d children", n)
	}
}

func titled(title *observable.Observable[string]) func(...any) *Component {
	return func(...any) *Component {
		return New("titled",
			WithBinding("title", title),
			WithRender(func(c *Component, root *node.Node) error {
				root.Builder().Create("span")
				return nil
			}),
		)
	}
}

func TestWrapperTextDirectiveRendersAtStart(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *node.Builder) *node.Node
	}{
		{"in scope", func(b *node.Builder) *node.Node {
			var app *node.Node
			_ = b.Scope(nil, func(*node.Node) error {
				app = b.Create("app", node.AsWrapper(), node.WithAttr("[]", "title"))
				return nil
			})
			return app
		}},
		{"top level", func(b *node.Builder) *node.Node {
			return b.Create("app", node.AsWrapper(), node.WithAttr("[]", "title"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder()
			title := observable.New("hello")
			Define(b, "app", titled(title))

			app := tt.build(b)
			if !app.Started() {
				t.Fatal("wrapper should be started")
			}
			if got := app.Text(); got != "hello" {
				t.Errorf("text = %q, want hello", got)
			}

			title.Set("bye")
			if got := app.Text(); got != "bye" {
				t.Errorf("text = %q, want bye", got)
			}
		})
	}
}

func TestTagInsideElDoesNotStartParent(t *testing.T) {
	b := newBuilder()
	Define(b, "item", titled(observable.New("x")))

	var div, item *node.Node
	var startedMid bool
	err := b.Scope(nil, func(*node.Node) error {
		_, err := b.El("div", func(d *node.Node) error {
			div = d
			item = b.Tag("item")
			startedMid = div.Started() || item.Started()
			return nil
		})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	if startedMid {
		t.Error("nodes started while the enclosing body was still running")
	}
	if !div.Started() || !item.Started() {
		t.Error("nodes should start when the outer scope exits")
	}
	if !item.Component().(*Component).Loaded() {
		t.Error("item component should be loaded")
	}
}
