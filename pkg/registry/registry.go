// Package registry maps node kind names to builder functions, so trees
// can be assembled from declarative documents and hosts can contribute
// their own node kinds.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/blackboard"
)

// BuilderFunc constructs a node of one kind. Children arrive already
// built; config carries the kind-specific settings from the document.
type BuilderFunc func(board *blackboard.Blackboard, config map[string]any, children []behaviour.Node) (behaviour.Node, error)

// Registry manages the available node kinds.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]BuilderFunc
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a builder for kind.
// If a builder with the same kind exists, it is overwritten.
func (r *Registry) Register(kind string, fn BuilderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[kind] = fn
}

// Build looks up a kind and constructs the node.
// Returns an error if the kind is not registered.
func (r *Registry) Build(kind string, board *blackboard.Blackboard, config map[string]any, children []behaviour.Node) (behaviour.Node, error) {
	r.mu.RLock()
	fn, ok := r.builders[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("node kind not registered: %s", kind)
	}
	return fn(board, config, children)
}

// Kinds returns the registered kind names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.builders))
	for kind := range r.builders {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
