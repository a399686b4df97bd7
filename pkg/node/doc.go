// Package node is the reactive binding engine for weft element trees.
//
// A Builder owns two structures: the construction stack, whose top is the
// node new nodes are attached to, and the deferred-start queue of nodes
// waiting for their first activation. Tree structure comes from scope
// nesting rather than explicit parent arguments:
//
//	b := node.NewBuilder(dom.New("body"))
//	err := b.Scope(nil, func(root *node.Node) error {
//	    b.El("ul", func(ul *node.Node) error {
//	        b.Create("li").Format(count)
//	        return nil
//	    })
//	    return nil
//	})
//
// When the outermost Scope closes without error, queued nodes are started
// from the most recently constructed one backwards. Starting a node performs
// the first render of every eager binding it holds.
//
// # Bindings
//
// Every binding is a subscription stored in the node's registry under a
// fresh key. Arguments that are observable.Source values are subscribed to;
// plain values are cached as they are. When a source emits, the cached slot
// is updated and, once the node has started, the callbacks registered under
// that key run again with the merged arguments. Emissions that arrive before
// the node starts only update the cache.
//
// # Directives
//
// Attribute names with a leading directive symbol are consumed during
// construction and turned into bindings through the owning component:
//
//	(click)="save"     event, handler called without the event
//	$input="typed"     event, handler receives the event
//	*fmt="title"       node method fed with the resolved value
//	[]="name"          positional text template argument
//	{who}="user"       named text template argument
//
// # Concurrency
//
// A Builder and its nodes belong to one goroutine. Sources must emit on that
// goroutine; observable.Observable does so when Set is called there.
package node
