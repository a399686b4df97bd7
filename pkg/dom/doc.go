// Package dom defines the platform element surface that weft nodes wrap,
// and provides an in-memory implementation of it.
//
// The node engine only talks to elements through the Element interface:
// attribute enumeration and mutation, child insertion and clearing, a style
// surface, the class string, named properties (the text-bearing field of a
// node is one of them) and event listeners. Hosts with a real rendering
// surface implement Element themselves; Elem is used by tests, the demo
// application, the inspector and the snapshot writer.
//
//	root := dom.New("body")
//	p := dom.New("p")
//	root.AppendChild(p)
//	p.SetProperty("text", "hello")
//	dom.HTML(root) // <body><p>hello</p></body>
package dom
