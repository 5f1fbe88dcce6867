package dag

import "sync"

// Graph is a set of named nodes and their dependencies. All operations on the
// graph are concurrency-safe.
type Graph struct {
	// mutex protects nodes and order.
	mutex sync.RWMutex
	// nodes is keyed by node ID.
	nodes map[string]*node
	// order is the insertion order of node IDs. Waves and error messages
	// follow it so results are stable across runs.
	order []string
}

// node is a single vertex. It is unexported so callers work with string IDs.
type node struct {
	id string
	// deps are the nodes this node waits for.
	deps map[string]*node
	// dependents are the nodes waiting for this one.
	dependents map[string]*node
}
