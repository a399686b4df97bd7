package node

import "strings"

const (
	displayHidden   = "none"
	lastDisplayKey  = "lastdisplay"
	displayProperty = "display"
)

// Display binds the display style to trigger: show (default "") when
// truthy, hide (default "none") otherwise.
func (n *Node) Display(trigger any, values ...string) *Node {
	show, hide := "", displayHidden
	if len(values) > 0 {
		show = values[0]
	}
	if len(values) > 1 {
		hide = values[1]
	}
	return n.Subscribe(func(args []any, _ map[string]any) {
		v := hide
		if truthy(first(args)) {
			v = show
		}
		n.setStyle(displayProperty, v)
	}, trigger)
}

// ToggleDisplay hides a visible node, or restores the last visible display
// value of a hidden one.
func (n *Node) ToggleDisplay() *Node {
	cur := n.el.Style().Get(displayProperty)
	if cur == displayHidden {
		n.setStyle(displayProperty, n.lastDisplay())
	} else {
		n.setStyle(displayProperty, displayHidden)
	}
	n.rememberDisplay(cur)
	return n
}

// ShowDisplay shows or hides the node. Showing a hidden node restores its
// last visible display value.
func (n *Node) ShowDisplay(on bool) *Node {
	cur := n.el.Style().Get(displayProperty)
	switch {
	case on && cur == displayHidden:
		n.setStyle(displayProperty, n.lastDisplay())
	case !on && cur != displayHidden:
		n.setStyle(displayProperty, displayHidden)
	}
	n.rememberDisplay(cur)
	return n
}

// SetDisplay sets an explicit display value.
func (n *Node) SetDisplay(value string) *Node {
	cur := n.el.Style().Get(displayProperty)
	n.setStyle(displayProperty, value)
	n.rememberDisplay(cur)
	return n
}

func (n *Node) lastDisplay() string {
	v, _ := n.CacheGet(lastDisplayKey)
	if v == displayHidden {
		return ""
	}
	return v
}

// rememberDisplay keeps the last non-hidden value.
func (n *Node) rememberDisplay(v string) {
	if v != displayHidden {
		n.CacheSet(lastDisplayKey, v)
	}
}

// ClassAdd appends class tokens. "_" in a token becomes "-".
func (n *Node) ClassAdd(names ...string) *Node {
	n.setClasses(true, dashed(names)...)
	return n
}

// ClassRemove removes class tokens. "_" in a token becomes "-".
func (n *Node) ClassRemove(names ...string) *Node {
	n.setClasses(false, dashed(names)...)
	return n
}

func dashed(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, strings.ReplaceAll(name, "_", "-"))
	}
	return out
}
