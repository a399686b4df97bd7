// Package component provides a table-driven implementation of the
// node.Component contract.
//
// A Component resolves the names used in directive attributes against two
// tables: handlers (functions bound to events or node methods) and values
// (plain values or observable sources used as arguments and template
// fields).
//
//	counter := component.New("counter",
//	    component.WithValue("count", count),
//	    component.WithHandler("inc", func() { count.Update(inc) }),
//	    component.WithRender(func(c *component.Component, root *node.Node) error {
//	        b := root.Builder()
//	        b.Create("span", node.WithAttr("[]", "count"))
//	        b.Create("button", node.WithAttr("(click)", "inc"))
//	        return nil
//	    }),
//	)
//
// Handler values may call a handler with arguments: "pick(item, 2)" binds
// pick with the value named item and the literal 2.
package component
