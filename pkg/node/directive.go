package node

import "strings"

// DirectiveKind classifies an attribute name by its leading symbol.
type DirectiveKind uint8

const (
	// DirectiveNone is a plain platform attribute.
	DirectiveNone DirectiveKind = iota

	// DirectiveEvent is "(name)": the handler is called without the event.
	DirectiveEvent

	// DirectiveEventWithArg is "$name": the handler receives the event.
	DirectiveEventWithArg

	// DirectiveMethod is "*name": a node method fed with the resolved value.
	DirectiveMethod

	// DirectivePositional is "[name]" or "[]": a positional text template
	// argument.
	DirectivePositional

	// DirectiveNamed is "{name}": a named text template argument.
	DirectiveNamed

	// DirectiveMalformed starts like a directive but is not closed.
	DirectiveMalformed
)

// String returns a human-readable name for the directive kind.
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveNone:
		return "None"
	case DirectiveEvent:
		return "Event"
	case DirectiveEventWithArg:
		return "EventWithArg"
	case DirectiveMethod:
		return "Method"
	case DirectivePositional:
		return "Positional"
	case DirectiveNamed:
		return "Named"
	case DirectiveMalformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}

// Directive is a classified attribute.
type Directive struct {
	Kind DirectiveKind

	// Name is the event, method or template argument name. For a positional
	// argument with an empty name it is the attribute value.
	Name string

	// Value is the raw attribute value.
	Value string
}

// ParseDirective classifies the attribute name/value pair. ok is false for
// plain attributes, which must be left on the element.
func ParseDirective(name, value string) (d Directive, ok bool) {
	if name == "" {
		return Directive{}, false
	}
	d.Value = value

	switch name[0] {
	case '(':
		inner, closed := enclosed(name, '(', ')')
		if !closed || inner == "" {
			return malformed(value), true
		}
		d.Kind, d.Name = DirectiveEvent, inner

	case '$':
		inner := name[1:]
		if strings.HasPrefix(inner, "(") {
			var closed bool
			if inner, closed = enclosed(inner, '(', ')'); !closed {
				return malformed(value), true
			}
		}
		if inner == "" {
			return malformed(value), true
		}
		d.Kind, d.Name = DirectiveEventWithArg, inner

	case '*':
		if len(name) == 1 {
			return malformed(value), true
		}
		d.Kind, d.Name = DirectiveMethod, name[1:]

	case '[':
		inner, closed := enclosed(name, '[', ']')
		if !closed {
			return malformed(value), true
		}
		if inner == "" {
			inner = value
		}
		d.Kind, d.Name = DirectivePositional, inner

	case '{':
		inner, closed := enclosed(name, '{', '}')
		if !closed || inner == "" {
			return malformed(value), true
		}
		d.Kind, d.Name = DirectiveNamed, inner

	default:
		return Directive{}, false
	}

	return d, true
}

func enclosed(s string, open, close byte) (string, bool) {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func malformed(value string) Directive {
	return Directive{Kind: DirectiveMalformed, Value: value}
}
