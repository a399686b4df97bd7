package node

import "sync/atomic"

// Node IDs and binding keys are process-wide, monotonically increasing and
// never reset. They start at 1 on process start.
var (
	nodeIDCounter     atomic.Uint64
	bindingKeyCounter atomic.Uint64
)

func nextNodeID() uint64 {
	return nodeIDCounter.Add(1)
}

func nextBindingKey() uint64 {
	return bindingKeyCounter.Add(1)
}
