package node

import "time"

// Observer receives node lifecycle notifications. Implementations must not
// block; they run inline with construction and replay.
type Observer interface {
	// NodeCreated is called once the interceptor has finished with n.
	NodeCreated(n *Node)

	// NodeStarted is called after n's activation; elapsed covers the first
	// render of its eager bindings.
	NodeStarted(n *Node, elapsed time.Duration)

	// Replayed is called for every emission delivered to n. fired is false
	// when the node had not started and only the cache was updated.
	Replayed(n *Node, key uint64, fired bool)

	// Swallowed is called for non-fatal errors: refused attributes and
	// styles, sources without a value, and failed directive bindings.
	Swallowed(n *Node, err error)
}

func (b *Builder) notifyCreated(n *Node) {
	for _, o := range b.observers {
		o.NodeCreated(n)
	}
}

func (b *Builder) notifyStarted(n *Node, elapsed time.Duration) {
	for _, o := range b.observers {
		o.NodeStarted(n, elapsed)
	}
}

func (b *Builder) notifyReplayed(n *Node, key uint64, fired bool) {
	for _, o := range b.observers {
		o.Replayed(n, key, fired)
	}
}

func (b *Builder) notifySwallowed(n *Node, err error) {
	for _, o := range b.observers {
		o.Swallowed(n, err)
	}
}
