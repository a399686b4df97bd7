package node

import (
	"time"

	"github.com/vango-dev/weft/pkg/dom"
)

// Attributes read at activation when no route link was passed at
// construction.
const (
	AttrRouterLink       = "routerlink"
	AttrRouterLinkActive = "routerlinkactive"
)

// start activates the node. It runs once, when the deferred-start queue
// drains the node.
func (n *Node) start() {
	if n.started {
		return
	}
	began := time.Now()
	n.started = true

	n.startRouteLink()

	if !n.templateSet {
		n.template = n.Text()
		n.templateSet = true
	}
	if n.template == "" {
		n.template = "{}"
	}

	keys := append([]uint64(nil), n.reg.keys...)
	_ = n.b.Scope(n, func(*Node) error {
		for _, key := range keys {
			for _, f := range n.reg.eager[key] {
				args, named := n.reg.args(key)
				f(args, named)
			}
		}
		return nil
	})

	n.b.notifyStarted(n, time.Since(began))
}

// startRouteLink binds navigation for a route link and registers the
// active class with the router.
func (n *Node) startRouteLink() {
	link := n.link
	if link == nil {
		if path, ok := n.el.GetAttribute(AttrRouterLink); ok {
			link = &RouteLink{Path: path}
		}
	}
	if link == nil {
		return
	}
	if link.ActiveClass == "" {
		link.ActiveClass, _ = n.el.GetAttribute(AttrRouterLinkActive)
	}
	n.link = link

	if n.component == nil {
		return
	}
	router := n.component.Router()
	if router == nil {
		return
	}

	target := router.Resolve(link.Path)
	params := link.Params
	n.el.AddEventListener("click", func(dom.Event) {
		router.Navigate(target, params)
	})

	if link.ActiveClass != "" {
		router.RegisterActive(target, n.toggleActiveClass, link.ActiveClass)
	}
}

// toggleActiveClass adds or removes class from the element's class list.
func (n *Node) toggleActiveClass(active bool, class string) {
	n.setClasses(active, class)
}
