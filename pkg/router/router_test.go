package router

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolve(t *testing.T) {
	r := New("/app", WithInitialPath("/app/todos"), quiet())

	tests := []struct {
		link string
		want string
	}{
		{"/about", "/app/about"},
		{"/", "/app"},
		{"3", "/app/todos/3"},
		{"../settings", "/app/settings"},
		{"./", "/app/todos"},
		{"", "/app/todos"},
		{"/search?q=x", "/app/search?q=x"},
		{"https://example.com", "/app"},
		{"../../../../x", "/app"},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.link); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestNavigate(t *testing.T) {
	r := New("/", quiet())

	var seen []string
	r.Current().Subscribe(func(v any) { seen = append(seen, v.(string)) }, nil, false)

	r.Navigate("/todos?filter=open", map[string]string{"page": "2"})
	if r.Path() != "/todos" {
		t.Errorf("Path() = %q, want /todos", r.Path())
	}
	if got := r.Query().Encode(); got != "filter=open&page=2" {
		t.Errorf("Query() = %q", got)
	}

	r.Navigate("/a\\b", nil)
	if r.Path() != "/todos" {
		t.Errorf("rejected navigation changed the path to %q", r.Path())
	}

	if !r.Back() {
		t.Fatal("Back() = false")
	}
	if r.Path() != "/" {
		t.Errorf("Path() after Back = %q, want /", r.Path())
	}
	if r.Back() {
		t.Error("Back() with empty history should be false")
	}

	if diff := cmp.Diff([]string{"/todos", "/"}, seen); diff != "" {
		t.Errorf("emissions mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleAndMatch(t *testing.T) {
	r := New("/", quiet())
	for pattern, tag := range map[string]string{
		"/":            "home",
		"/todos":       "todo-list",
		"/todos/new":   "todo-new",
		"/todos/:id":   "todo-detail",
		"/files/*rest": "file-view",
	} {
		if err := r.Handle(pattern, tag); err != nil {
			t.Fatalf("Handle(%q) error = %v", pattern, err)
		}
	}

	tests := []struct {
		path   string
		tag    string
		params map[string]string
	}{
		{"/", "home", map[string]string{}},
		{"/todos/", "todo-list", map[string]string{}},
		{"/todos/new", "todo-new", map[string]string{}},
		{"/todos/42", "todo-detail", map[string]string{"id": "42"}},
		{"/files/a/b.txt", "file-view", map[string]string{"rest": "a/b.txt"}},
	}
	for _, tt := range tests {
		m, err := r.Match(tt.path)
		if err != nil {
			t.Errorf("Match(%q) error = %v", tt.path, err)
			continue
		}
		if m.Route.Tag != tt.tag {
			t.Errorf("Match(%q) tag = %q, want %q", tt.path, m.Route.Tag, tt.tag)
		}
		if diff := cmp.Diff(tt.params, m.Params); diff != "" {
			t.Errorf("Match(%q) params mismatch (-want +got):\n%s", tt.path, diff)
		}
	}

	if _, err := r.Match("/nope/x"); !errors.Is(err, ErrNoRoute) {
		t.Errorf("Match(/nope/x) error = %v, want ErrNoRoute", err)
	}
	if err := r.Handle("/todos/:id", "other"); !errors.Is(err, ErrDuplicateRoute) {
		t.Errorf("duplicate Handle error = %v, want ErrDuplicateRoute", err)
	}
	if got := len(r.Routes()); got != 5 {
		t.Errorf("len(Routes()) = %d, want 5", got)
	}
}

func TestRegisterActive(t *testing.T) {
	r := New("/", quiet())

	type call struct {
		active bool
		class  string
	}
	var calls []call
	r.RegisterActive("/todos", func(active bool, class string) {
		calls = append(calls, call{active, class})
	}, "on")

	r.Navigate("/todos", nil)
	r.Navigate("/todos/3", nil)
	r.Navigate("/about", nil)

	want := []call{{false, "on"}, {true, "on"}, {true, "on"}, {false, "on"}}
	if diff := cmp.Diff(want, calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestIsActive(t *testing.T) {
	r := New("/", quiet())
	exact := New("/", WithExactActive(), quiet())

	tests := []struct {
		target, path    string
		want, wantExact bool
	}{
		{"/todos", "/todos", true, true},
		{"/todos", "/todos/1", true, false},
		{"/todos", "/todosx", false, false},
		{"/", "/todos", false, false},
		{"/", "/", true, true},
	}
	for _, tt := range tests {
		if got := r.IsActive(tt.target, tt.path); got != tt.want {
			t.Errorf("IsActive(%q, %q) = %v, want %v", tt.target, tt.path, got, tt.want)
		}
		if got := exact.IsActive(tt.target, tt.path); got != tt.wantExact {
			t.Errorf("exact IsActive(%q, %q) = %v, want %v", tt.target, tt.path, got, tt.wantExact)
		}
	}
}
