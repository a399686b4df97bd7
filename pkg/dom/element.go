package dom

import (
	"errors"
	"strings"
)

var (
	// ErrNoAttributes is returned when attributes are set on a node kind
	// that cannot carry them (text nodes).
	ErrNoAttributes = errors.New("dom: node kind does not accept attributes")

	// ErrUnsupportedStyle is returned when a style property name is not a
	// valid CSS property identifier.
	ErrUnsupportedStyle = errors.New("dom: unsupported style property")
)

// TextTag is the tag reported by text nodes.
const TextTag = "#text"

// Attr is a single attribute on an element.
type Attr struct {
	Name  string
	Value string
}

// Element is the platform element contract.
type Element interface {
	// Tag returns the lower-cased tag name, or TextTag for text nodes.
	Tag() string

	// Attributes returns the element attributes in insertion order.
	Attributes() []Attr
	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string) error
	RemoveAttribute(name string)

	// Property reads a named field such as "text" or "value".
	Property(name string) string
	SetProperty(name, value string) error

	Parent() Element
	Children() []Element
	AppendChild(child Element)
	AppendText(text string)
	Clear()

	Style() Style
	ClassName() string
	SetClassName(name string)

	AddEventListener(event string, fn func(Event))
}

// Elem is the in-memory Element implementation.
type Elem struct {
	tag       string
	text      string
	attrs     []Attr
	props     map[string]string
	style     *styleMap
	parent    *Elem
	children  []*Elem
	listeners map[string][]func(Event)
}

// New creates an element with the given tag.
func New(tag string) *Elem {
	return &Elem{
		tag:   strings.ToLower(tag),
		style: &styleMap{},
	}
}

// Text creates a text node.
func Text(s string) *Elem {
	return &Elem{tag: TextTag, text: s}
}

// Tag implements Element.
func (e *Elem) Tag() string { return e.tag }

// IsText reports whether e is a text node.
func (e *Elem) IsText() bool { return e.tag == TextTag }

// Attributes implements Element. The returned slice is a copy.
func (e *Elem) Attributes() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// GetAttribute implements Element.
func (e *Elem) GetAttribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttribute implements Element.
func (e *Elem) SetAttribute(name, value string) error {
	if e.IsText() {
		return ErrNoAttributes
	}
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return nil
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
	return nil
}

// RemoveAttribute implements Element.
func (e *Elem) RemoveAttribute(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Property implements Element. "text" reads the text content of the
// subtree; every other name reads the stored property value.
func (e *Elem) Property(name string) string {
	if name == "text" {
		return e.textContent()
	}
	return e.props[name]
}

// SetProperty implements Element. Setting "text" replaces all children
// with a single text node.
func (e *Elem) SetProperty(name, value string) error {
	if e.IsText() {
		if name != "text" {
			return ErrNoAttributes
		}
		e.text = value
		return nil
	}
	if name == "text" {
		e.Clear()
		e.AppendText(value)
		return nil
	}
	if e.props == nil {
		e.props = make(map[string]string)
	}
	e.props[name] = value
	return nil
}

func (e *Elem) textContent() string {
	if e.IsText() {
		return e.text
	}
	var b strings.Builder
	for _, c := range e.children {
		b.WriteString(c.textContent())
	}
	return b.String()
}

// Parent implements Element.
func (e *Elem) Parent() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Children implements Element.
func (e *Elem) Children() []Element {
	out := make([]Element, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// AppendChild implements Element. Elements from other implementations are
// ignored; an element already attached elsewhere is moved.
func (e *Elem) AppendChild(child Element) {
	c, ok := child.(*Elem)
	if !ok || c == nil || e.IsText() {
		return
	}
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
}

// AppendText implements Element.
func (e *Elem) AppendText(text string) {
	e.AppendChild(Text(text))
}

// Clear implements Element.
func (e *Elem) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

func (e *Elem) removeChild(child *Elem) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// Style implements Element.
func (e *Elem) Style() Style {
	if e.style == nil {
		e.style = &styleMap{}
	}
	return e.style
}

// ClassName implements Element.
func (e *Elem) ClassName() string {
	v, _ := e.GetAttribute("class")
	return v
}

// SetClassName implements Element. An empty name removes the attribute.
func (e *Elem) SetClassName(name string) {
	if name == "" {
		e.RemoveAttribute("class")
		return
	}
	_ = e.SetAttribute("class", name)
}

// AddEventListener implements Element.
func (e *Elem) AddEventListener(event string, fn func(Event)) {
	if fn == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]func(Event))
	}
	e.listeners[event] = append(e.listeners[event], fn)
}

// Listeners returns the number of listeners registered for event.
func (e *Elem) Listeners(event string) int {
	return len(e.listeners[event])
}

// Dispatch fires every listener registered for ev.Type in registration
// order. Target is set to e when empty.
func (e *Elem) Dispatch(ev Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	fns := append([]func(Event){}, e.listeners[ev.Type]...)
	for _, fn := range fns {
		fn(ev)
	}
}

// Find returns the first element in e's subtree (e included) for which
// match returns true, in document order.
func (e *Elem) Find(match func(*Elem) bool) *Elem {
	if match(e) {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// ByTag returns the first element with the given tag in e's subtree.
func (e *Elem) ByTag(tag string) *Elem {
	return e.Find(func(x *Elem) bool { return x.tag == tag })
}
