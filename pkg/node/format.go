package node

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/weft/internal/errors"
)

// FormatTemplate substitutes args and named into tmpl. "{}" takes the next
// positional argument, "{0}" a positional argument by index, "{name}" a
// named one; "{{" and "}}" are literal braces. Values are written with
// fmt.Sprint.
func FormatTemplate(tmpl string, args []any, named map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))
	next := 0
	manual := false

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed '{' at offset %d", i)
			}
			field := tmpl[i+1 : i+1+end]
			i += end + 1

			var v any
			switch {
			case field == "":
				if manual {
					return "", fmt.Errorf("cannot mix automatic and manual field numbering")
				}
				if next >= len(args) {
					return "", fmt.Errorf("positional argument %d missing", next)
				}
				v = args[next]
				next++
			case isIndex(field):
				if next > 0 {
					return "", fmt.Errorf("cannot mix automatic and manual field numbering")
				}
				manual = true
				idx, _ := strconv.Atoi(field)
				if idx >= len(args) {
					return "", fmt.Errorf("positional argument %d missing", idx)
				}
				v = args[idx]
			default:
				nv, ok := named[field]
				if !ok {
					return "", fmt.Errorf("named argument %q missing", field)
				}
				v = nv
			}
			b.WriteString(fmt.Sprint(v))
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				i++
			} else {
				return "", fmt.Errorf("single '}' at offset %d", i)
			}
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Format binds the node's text field to its text template, formatted with
// args. Any argument may be an observable.Source; the text updates with
// each emission.
func (n *Node) Format(args ...any) *Node {
	return n.Subscribe(n.formatText, args...)
}

// FormatKV is Format with named arguments.
func (n *Node) FormatKV(named map[string]any, args ...any) *Node {
	return n.SubscribeKV(n.formatText, named, args...)
}

// formatWith is the FormatBinder handed to components for template
// directives.
func (n *Node) formatWith(args []any, named map[string]any) *Node {
	return n.SubscribeKV(n.formatText, named, args...)
}

// FormatFunc formats the text field with the single value returned by fn.
func (n *Node) FormatFunc(fn func(args []any, named map[string]any) any, args ...any) *Node {
	return n.Subscribe(func(a []any, kw map[string]any) {
		n.formatText([]any{fn(a, kw)}, nil)
	}, args...)
}

// formatText writes the formatted template into the text field.
func (n *Node) formatText(args []any, named map[string]any) {
	text, err := FormatTemplate(n.template, args, named)
	if err != nil {
		n.report(errors.New("W024").WithNode(n.id, n.kind).
			WithDetail("template " + strconv.Quote(n.template)).Wrap(err))
		return
	}
	if err := n.el.SetProperty(n.TextField(), text); err != nil {
		n.swallow(errors.New("W082").WithNode(n.id, n.kind).
			WithDetail("field " + n.TextField()).Wrap(err))
	}
}
