package domain

import (
	"context"
	"fmt"
)

// ValueKind tags a constructed value as concrete or deferred.
type ValueKind int

const (
	// Eager values were produced by invoking a factory (or are literals).
	Eager ValueKind = iota
	// Deferred values are partially applied callables, invoked later by a consumer.
	Deferred
)

func (k ValueKind) String() string {
	if k == Deferred {
		return "deferred"
	}
	return "eager"
}

// Callable is implemented by deferred values.
// Arguments given to Call are merged over the ones captured in the document.
type Callable interface {
	Target() string
	Call(ctx context.Context, positional []any, named map[string]any) (any, error)
}

// Value is one entry of a resolved graph.
type Value struct {
	Kind ValueKind
	Data any
}

// Graph is the result of resolving a Document.
type Graph struct {
	Seed   int64
	order  []string
	values map[string]Value
}

// NewGraph creates an empty graph. Only the resolver adds to it.
func NewGraph(seed int64) *Graph {
	return &Graph{
		Seed:   seed,
		values: make(map[string]Value),
	}
}

// Put records a constructed node. Order of calls is the construction order.
func (g *Graph) Put(name string, v Value) {
	if _, exists := g.values[name]; !exists {
		g.order = append(g.order, name)
	}
	g.values[name] = v
}

// Value returns the tagged value for name.
func (g *Graph) Value(name string) (Value, bool) {
	v, ok := g.values[name]
	return v, ok
}

// Get returns the raw constructed value for name.
func (g *Graph) Get(name string) (any, bool) {
	v, ok := g.values[name]
	return v.Data, ok
}

// Callable returns the deferred callable stored under name.
func (g *Graph) Callable(name string) (Callable, error) {
	v, ok := g.values[name]
	if !ok {
		return nil, fmt.Errorf("node %q not in graph", name)
	}
	c, ok := v.Data.(Callable)
	if v.Kind != Deferred || !ok {
		return nil, fmt.Errorf("node %q is not deferred", name)
	}
	return c, nil
}

// Lookup resolves a path against the graph.
func (g *Graph) Lookup(p Path) (any, error) {
	v, ok := g.values[p.Root]
	if !ok {
		return nil, fmt.Errorf("node %q not in graph", p.Root)
	}
	return Traverse(v.Data, p.Steps)
}

// Order returns node names in construction order.
func (g *Graph) Order() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of constructed nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Values returns a plain name-to-value map, convenient for tests and encoders.
func (g *Graph) Values() map[string]any {
	out := make(map[string]any, len(g.values))
	for k, v := range g.values {
		out[k] = v.Data
	}
	return out
}

// Copier is implemented by constructed values that support `!copy`.
// Copy must return an independent value.
type Copier interface {
	Copy() any
}
