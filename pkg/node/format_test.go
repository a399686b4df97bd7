package node

import (
	"testing"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/observable"
)

func TestFormatTemplate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		args    []any
		named   map[string]any
		want    string
		wantErr bool
	}{
		{"auto", "{} and {}", []any{1, "two"}, nil, "1 and two", false},
		{"manual", "{1}{0}{1}", []any{"a", "b"}, nil, "bab", false},
		{"named", "hi {who}", nil, map[string]any{"who": "ann"}, "hi ann", false},
		{"escaped", "{{}} {}", []any{"x"}, nil, "{} x", false},
		{"plain", "no fields", nil, nil, "no fields", false},
		{"missing positional", "{} {}", []any{1}, nil, "", true},
		{"missing named", "{who}", nil, nil, "", true},
		{"mixed numbering", "{} {0}", []any{1}, nil, "", true},
		{"unclosed", "{", nil, nil, "", true},
		{"stray close", "a}b", nil, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatTemplate(tt.tmpl, tt.args, tt.named)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatTemplate(%q) error = %v, wantErr %v", tt.tmpl, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatTemplate(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestFormatDefaultTemplate(t *testing.T) {
	b, _ := newTestBuilder()
	count := observable.New(5)
	n := b.Create("span").Format(count)
	b.Flush()

	if n.TextTemplate() != "{}" {
		t.Errorf("TextTemplate() = %q, want {}", n.TextTemplate())
	}
	if n.Text() != "5" {
		t.Errorf("Text() = %q, want 5", n.Text())
	}
	count.Set(6)
	if n.Text() != "6" {
		t.Errorf("Text() = %q, want 6", n.Text())
	}
}

func TestFormatExplicitTemplate(t *testing.T) {
	b, _ := newTestBuilder()
	n := b.Create("span").SetTextTemplate("{a}-{b}")
	n.FormatKV(map[string]any{"a": 1, "b": observable.New("x")})
	b.Flush()

	if n.Text() != "1-x" {
		t.Errorf("Text() = %q, want 1-x", n.Text())
	}
}

func TestFormatInputUsesValue(t *testing.T) {
	b, _ := newTestBuilder()
	n := b.Create("input").Format(observable.New("typed"))
	b.Flush()

	if got := n.Element().Property("value"); got != "typed" {
		t.Errorf("value = %q, want typed", got)
	}
}

func TestFormatFunc(t *testing.T) {
	b, _ := newTestBuilder()
	items := observable.New([]string{"a", "b"})
	n := b.Create("span").FormatFunc(func(args []any, _ map[string]any) any {
		return len(args[0].([]string))
	}, items)
	b.Flush()

	if n.Text() != "2" {
		t.Errorf("Text() = %q, want 2", n.Text())
	}
	items.Set([]string{"a"})
	if n.Text() != "1" {
		t.Errorf("Text() = %q, want 1", n.Text())
	}
}

func TestFormatErrorIsReported(t *testing.T) {
	b, rec := newTestBuilder()
	n := b.Create("span").SetTextTemplate("{} {}")
	n.Format(1)
	before := len(rec.swallowed)
	b.Flush()

	if len(rec.swallowed) != before+1 {
		t.Fatalf("reported %d errors, want 1", len(rec.swallowed)-before)
	}
	e, ok := rec.swallowed[before].(*errors.Error)
	if !ok || e.Code != "W024" || e.Origin == nil || e.Origin.NodeID != n.ID() {
		t.Errorf("reported %v, want W024 on the node", rec.swallowed[before])
	}
	if n.Text() != "" {
		t.Errorf("Text() = %q, want unchanged", n.Text())
	}
}

// refusingElement rejects every property write.
type refusingElement struct{ *dom.Elem }

func (refusingElement) SetProperty(string, string) error { return dom.ErrNoAttributes }

func TestFormatRefusedTextIsCoded(t *testing.T) {
	b, rec := newTestBuilder()
	n := b.Wrap(refusingElement{dom.New("span")}).Format("x")
	b.Flush()

	if !hasCode(rec.swallowed, "W082") {
		t.Errorf("swallowed %v, want W082", rec.swallowed)
	}
	if n.Text() != "" {
		t.Errorf("Text() = %q, want unchanged", n.Text())
	}
}
