package graph

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/spetersoncode/cyclegraph/event"
)

// Registry stores compiled graphs by name for dispatch from servers and
// tool adapters.
type Registry struct {
	mu     sync.RWMutex
	graphs map[string]*Graph
}

// NewRegistry creates a registry holding the given graphs.
func NewRegistry(graphs ...*Graph) *Registry {
	r := &Registry{graphs: make(map[string]*Graph, len(graphs))}
	for _, g := range graphs {
		r.Register(g)
	}
	return r
}

// Register adds a graph. A graph with the same name is replaced.
func (r *Registry) Register(g *Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.Name()] = g
}

// Get retrieves a graph by name.
func (r *Registry) Get(name string) (*Graph, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[name]
	return g, ok
}

// Names returns registered graph names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.graphs))
}

// Len returns the number of registered graphs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.graphs)
}

// Run executes the named graph.
func (r *Registry) Run(ctx context.Context, name string, cfg RunConfig, opts ...Option) (*Result, error) {
	g, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGraphNotFound, name)
	}
	return g.Run(ctx, cfg, opts...)
}

// RunStream executes the named graph and returns its event stream. An
// unknown name yields a stream holding a single RunError event.
func (r *Registry) RunStream(ctx context.Context, name string, cfg RunConfig, opts ...Option) <-chan event.Event {
	g, ok := r.Get(name)
	if !ok {
		ch := make(chan event.Event, 1)
		event.Emit(ch, event.Event{
			Type:  event.RunError,
			Error: fmt.Errorf("%w: %s", ErrGraphNotFound, name),
		})
		close(ch)
		return ch
	}
	return g.RunStream(ctx, cfg, opts...)
}
