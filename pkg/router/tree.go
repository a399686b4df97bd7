package router

import "strings"

// routeNode is a node in the route tree.
type routeNode struct {
	// segment is the static path segment this node matches.
	segment string

	isParam    bool
	isCatchAll bool
	paramName  string

	// route is set on nodes that terminate a registered pattern.
	route *Route

	children      []*routeNode
	paramChild    *routeNode
	catchAllChild *routeNode
}

func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &routeNode{segment: segment}
	n.children = append(n.children, child)
	return child
}

// insert returns the node terminating pattern, creating it if needed.
func (n *routeNode) insert(pattern string) *routeNode {
	current := n
	for _, seg := range splitPath(pattern) {
		switch {
		case strings.HasPrefix(seg, "*"):
			if current.catchAllChild == nil {
				current.catchAllChild = &routeNode{isCatchAll: true, paramName: seg[1:]}
			}
			return current.catchAllChild
		case strings.HasPrefix(seg, ":"):
			if current.paramChild == nil {
				current.paramChild = &routeNode{isParam: true, paramName: seg[1:]}
			}
			current = current.paramChild
		default:
			current = current.addChild(seg)
		}
	}
	return current
}

// match finds the node for segments. Static children win over parameters,
// parameters over catch-alls.
func (n *routeNode) match(segments []string, params map[string]string) (*routeNode, bool) {
	if len(segments) == 0 {
		if n.route != nil {
			return n, true
		}
		return nil, false
	}

	segment, remaining := segments[0], segments[1:]

	if child := n.findChild(segment); child != nil {
		if found, ok := child.match(remaining, params); ok {
			return found, true
		}
	}

	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		if found, ok := n.paramChild.match(remaining, params); ok {
			return found, true
		}
		delete(params, n.paramChild.paramName)
	}

	if n.catchAllChild != nil && n.catchAllChild.route != nil {
		params[n.catchAllChild.paramName] = strings.Join(segments, "/")
		return n.catchAllChild, true
	}

	return nil, false
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
