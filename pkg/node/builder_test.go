package node

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/weft/internal/config"
	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
)

func TestNewBuilder(t *testing.T) {
	b, _ := newTestBuilder()

	if b.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", b.Depth())
	}
	if b.Top() != b.Root() {
		t.Error("Top() should be the root")
	}
	if !b.Root().Started() {
		t.Error("root should be started")
	}
	if b.Root().Kind() != "body" {
		t.Errorf("root Kind() = %q, want body", b.Root().Kind())
	}
}

func TestScopeBalance(t *testing.T) {
	b, _ := newTestBuilder()
	boom := stderrors.New("boom")

	if err := b.Scope(nil, func(*Node) error { return nil }); err != nil {
		t.Errorf("Scope() error = %v", err)
	}
	if b.Depth() != 1 {
		t.Errorf("after clean scope Depth() = %d, want 1", b.Depth())
	}

	if err := b.Scope(nil, func(*Node) error { return boom }); err != boom {
		t.Errorf("Scope() error = %v, want boom", err)
	}
	if b.Depth() != 1 {
		t.Errorf("after failing scope Depth() = %d, want 1", b.Depth())
	}

	func() {
		defer func() {
			if r := recover(); r != "panic" {
				t.Errorf("recover() = %v, want panic", r)
			}
		}()
		b.Scope(nil, func(*Node) error { panic("panic") })
	}()
	if b.Depth() != 1 {
		t.Errorf("after panicking scope Depth() = %d, want 1", b.Depth())
	}
}

func TestScopeNested(t *testing.T) {
	b, _ := newTestBuilder()
	outer := b.Create("div")

	var depths []int
	var tops []*Node
	b.Scope(outer, func(n *Node) error {
		depths = append(depths, b.Depth())
		tops = append(tops, b.Top())
		inner := b.Create("span")
		return b.Scope(inner, func(*Node) error {
			depths = append(depths, b.Depth())
			tops = append(tops, b.Top())
			return nil
		})
	})

	if diff := cmp.Diff([]int{2, 3}, depths); diff != "" {
		t.Errorf("depths mismatch (-want +got):\n%s", diff)
	}
	if tops[0] != outer {
		t.Error("outer scope top should be outer")
	}
	if tops[1].Kind() != "span" || tops[1].Parent() != outer {
		t.Error("inner scope top should be the span created under outer")
	}
}

func TestExitUnderflow(t *testing.T) {
	b, _ := newTestBuilder()

	err := b.Exit(nil)
	e, ok := err.(*errors.Error)
	if !ok || e.Code != "W040" {
		t.Fatalf("Exit() error = %v, want W040", err)
	}
	if b.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", b.Depth())
	}

	cause := fmt.Errorf("body failed")
	err = b.Exit(cause)
	if e, ok := err.(*errors.Error); !ok || e.Code != "W040" {
		t.Fatalf("Exit(cause) error = %v, want W040", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("underflow should keep the body error")
	}
}

func TestEnterNilRepushesTop(t *testing.T) {
	b, _ := newTestBuilder()
	n := b.Create("div")
	b.Enter(n)
	if got := b.Enter(nil); got != n {
		t.Error("Enter(nil) should push the current top")
	}
	if b.Depth() != 3 {
		t.Errorf("Depth() = %d, want 3", b.Depth())
	}
	b.Exit(nil)
	b.Exit(nil)
	if b.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", b.Depth())
	}
}

func TestDrainOrder(t *testing.T) {
	b, rec := newTestBuilder()

	err := b.Scope(nil, func(*Node) error {
		_, err := b.El("section", func(*Node) error {
			_, err := b.El("div", func(*Node) error {
				b.Create("span")
				return nil
			})
			return err
		})
		return err
	})
	if err != nil {
		t.Fatalf("Scope() error = %v", err)
	}

	var got []string
	for _, n := range rec.started {
		got = append(got, n.Kind())
	}
	if diff := cmp.Diff([]string{"span", "div", "section"}, got); diff != "" {
		t.Errorf("start order mismatch (-want +got):\n%s", diff)
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", b.Pending())
	}
}

func TestElDoesNotDrain(t *testing.T) {
	b, rec := newTestBuilder()

	b.El("div", func(*Node) error {
		b.Create("span")
		return nil
	})

	if len(rec.started) != 0 {
		t.Errorf("started %d nodes, want 0 before a scope drains", len(rec.started))
	}
	if b.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", b.Pending())
	}
	b.Flush()
	if len(rec.started) != 2 {
		t.Errorf("started %d nodes after Flush, want 2", len(rec.started))
	}
}

func TestFailedScopeKeepsQueue(t *testing.T) {
	b, _ := newTestBuilder()

	b.Scope(nil, func(*Node) error {
		b.Create("div")
		return stderrors.New("body failed")
	})
	if b.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", b.Pending())
	}
}

func TestUnqueuedKinds(t *testing.T) {
	b, _ := newTestBuilder()

	b.Create("script")
	b.Create("style")
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", b.Pending())
	}
	b.Create("p")
	if b.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", b.Pending())
	}
}

func TestNewlineBetweenSiblings(t *testing.T) {
	b, _ := newTestBuilder()
	b.Create("p")
	b.Create("p")
	b.Create("txt")

	children := b.Root().Element().Children()
	var tags []string
	for _, c := range children {
		tags = append(tags, c.Tag())
	}
	want := []string{"p", "#text", "p", "txt"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	compact, _ := newTestBuilder(WithCompact(true))
	compact.Create("p")
	compact.Create("p")
	if got := len(compact.Root().Element().Children()); got != 2 {
		t.Errorf("compact children = %d, want 2", got)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := config.New()
	cfg.Nodes.TextFields["select"] = "value"
	cfg.Nodes.Unqueued = []string{"template"}
	cfg.Nodes.Compact = true

	b, _ := newTestBuilder(WithConfig(cfg))

	if got := b.Create("select").TextField(); got != "value" {
		t.Errorf("select TextField() = %q, want value", got)
	}
	if got := b.Create("div").TextField(); got != "text" {
		t.Errorf("div TextField() = %q, want text", got)
	}
	before := b.Pending()
	b.Create("template")
	if b.Pending() != before {
		t.Error("template should not be queued")
	}
	b.Create("script")
	if b.Pending() != before+1 {
		t.Error("script should be queued once the unqueued list is replaced")
	}
}

func TestLookup(t *testing.T) {
	b, _ := newTestBuilder()
	n := b.Create("div")

	got, ok := b.Lookup(n.Element())
	if !ok || got != n {
		t.Error("Lookup() should find the created node")
	}
}

func TestWrapExistingElement(t *testing.T) {
	b, _ := newTestBuilder()
	clicks := 0
	comp := &fakeComponent{id: 1, handlers: map[string]any{"go": func() { clicks++ }}}
	app := withComponent(b, comp)

	el := dom.New("div")
	_ = el.SetAttribute("(click)", "go")
	_ = el.SetAttribute("id", "existing")

	var wrapped *Node
	b.Scope(app, func(*Node) error {
		wrapped = b.Wrap(el)
		return nil
	})

	if _, ok := el.GetAttribute("(click)"); ok {
		t.Error("directive attribute should be consumed by Wrap")
	}
	if v, _ := el.GetAttribute("id"); v != "existing" {
		t.Errorf("id = %q, want existing", v)
	}
	if el.Parent() != app.Element() {
		t.Error("wrapped element should be appended to the current parent")
	}
	el.Dispatch(dom.Event{Type: "click"})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if got, _ := b.Lookup(el); got != wrapped {
		t.Error("Lookup() should return the wrapping node")
	}
}

func TestComponentTags(t *testing.T) {
	b, _ := newTestBuilder()
	comp := &fakeComponent{id: 7}
	app := withComponent(b, comp)

	if comp.root != app {
		t.Error("component should be rendered into the app node")
	}
	if comp.loads != 1 {
		t.Errorf("loads = %d, want 1", comp.loads)
	}

	var child, outlet, style *Node
	b.Scope(app, func(*Node) error {
		child = b.Create("p")
		outlet = b.Create("router-outlet")
		style = b.Create("style")
		return nil
	})

	if child.Component() != comp {
		t.Error("child should inherit the component")
	}
	if _, ok := child.Element().GetAttribute("_c7"); !ok {
		t.Error("child should carry the scoping attribute")
	}
	if _, ok := outlet.Element().GetAttribute("_c7"); ok {
		t.Error("router-outlet should not carry the scoping attribute")
	}
	if style.Component() != nil {
		t.Error("style should not inherit the component")
	}
}

func TestWrapperComponentLoads(t *testing.T) {
	b, _ := newTestBuilder()
	comp := &fakeComponent{id: 2}
	b.Define("app", func(...any) Component { return comp })

	n := b.Create("app", AsWrapper())

	if comp.loads != 1 {
		t.Errorf("loads = %d, want 1", comp.loads)
	}
	if len(b.Root().Element().Children()) != 0 {
		t.Error("wrapper should not be inserted into its parent")
	}
	if !n.Wrapped() {
		t.Error("Wrapped() = false")
	}
}

func TestComponentArgs(t *testing.T) {
	b, _ := newTestBuilder()
	var got []any
	b.Define("item", func(args ...any) Component {
		got = args
		return &fakeComponent{id: 3}
	})

	b.Tag("item", WithComponentArgs("a", 1))

	if diff := cmp.Diff([]any{"a", 1}, got); diff != "" {
		t.Errorf("factory args mismatch (-want +got):\n%s", diff)
	}
}
