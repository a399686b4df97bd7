package dom

import (
	"strings"
)

// Style is the style property surface of an element.
type Style interface {
	Get(prop string) string
	Set(prop, value string) error
	String() string
}

type styleEntry struct {
	prop  string
	value string
}

// styleMap keeps properties in first-assignment order so rendering is stable.
type styleMap struct {
	entries []styleEntry
}

// cssProperty normalises a property name to its kebab-case form.
// camelCase names ("backgroundColor") are accepted.
func cssProperty(prop string) (string, bool) {
	if prop == "" {
		return "", false
	}
	var b strings.Builder
	for i, r := range prop {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		case r == '-' || r == '_':
			b.WriteByte('-')
		default:
			return "", false
		}
	}
	return b.String(), true
}

// Get returns the value of prop, or "" if unset.
func (s *styleMap) Get(prop string) string {
	name, ok := cssProperty(prop)
	if !ok {
		return ""
	}
	for _, e := range s.entries {
		if e.prop == name {
			return e.value
		}
	}
	return ""
}

// Set assigns prop. An empty value removes the property.
func (s *styleMap) Set(prop, value string) error {
	name, ok := cssProperty(prop)
	if !ok || strings.ContainsAny(value, ";{}") {
		return ErrUnsupportedStyle
	}
	for i, e := range s.entries {
		if e.prop == name {
			if value == "" {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
			} else {
				s.entries[i].value = value
			}
			return nil
		}
	}
	if value != "" {
		s.entries = append(s.entries, styleEntry{prop: name, value: value})
	}
	return nil
}

// String renders the style as an attribute value ("a: b; c: d").
func (s *styleMap) String() string {
	parts := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		parts = append(parts, e.prop+": "+e.value)
	}
	return strings.Join(parts, "; ")
}
