package snapshot

import (
	"time"

	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/node"
)

// Version is the document format version.
const Version = 1

// Document is a captured tree.
type Document struct {
	Version  int       `json:"version"`
	Captured time.Time `json:"captured"`
	Root     Entry     `json:"root"`
	HTML     string    `json:"html,omitempty"`
}

// Entry is one element of a captured tree.
type Entry struct {
	Tag   string `json:"tag"`
	Text  string `json:"text,omitempty"`
	Attrs []Attr `json:"attrs,omitempty"`
	Style string `json:"style,omitempty"`

	// Set for elements wrapped by a node.
	NodeID    uint64 `json:"node_id,omitempty"`
	Started   bool   `json:"started,omitempty"`
	Bindings  int    `json:"bindings,omitempty"`
	Component string `json:"component,omitempty"`

	Children []Entry `json:"children,omitempty"`
}

// Attr is a captured attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Capture records the whole tree of b.
func Capture(b *node.Builder) *Document {
	return CaptureNode(b, b.Root())
}

// CaptureNode records the subtree of n.
func CaptureNode(b *node.Builder, n *node.Node) *Document {
	return &Document{
		Version:  Version,
		Captured: time.Now().UTC(),
		Root:     capture(b, n.Element()),
		HTML:     dom.HTML(n.Element()),
	}
}

func capture(b *node.Builder, el dom.Element) Entry {
	if el.Tag() == dom.TextTag {
		return Entry{Tag: dom.TextTag, Text: el.Property("text")}
	}

	e := Entry{
		Tag:   el.Tag(),
		Style: el.Style().String(),
	}
	for _, a := range el.Attributes() {
		e.Attrs = append(e.Attrs, Attr{Name: a.Name, Value: a.Value})
	}
	if n, ok := b.Lookup(el); ok {
		e.NodeID = n.ID()
		e.Started = n.Started()
		e.Bindings = n.Bindings()
		if c := n.Component(); c != nil {
			e.Component = c.CIDName()
		}
	}
	for _, c := range el.Children() {
		e.Children = append(e.Children, capture(b, c))
	}
	return e
}

// Count returns the number of entries in the subtree of e, e included.
func (e Entry) Count() int {
	n := 1
	for _, c := range e.Children {
		n += c.Count()
	}
	return n
}

// Find returns the first entry in document order wrapping nodeID.
func (e Entry) Find(nodeID uint64) (Entry, bool) {
	if e.NodeID == nodeID {
		return e, true
	}
	for _, c := range e.Children {
		if found, ok := c.Find(nodeID); ok {
			return found, true
		}
	}
	return Entry{}, false
}
