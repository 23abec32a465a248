package resolver

import (
	"container/heap"
	"fmt"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
)

// Plan is the outcome of every check that can run before construction.
type Plan struct {
	// Order lists node names in construction order; the seed node, if any, comes first.
	Order []string
	// Seed is the effective seed: the WithSeed override, else the seed node, else 0.
	Seed     int64
	SeedNode string
	// Deps maps each node to the nodes it references, in first-seen order.
	Deps map[string][]string
}

// Plan validates doc without invoking any factory. Checks run in this order,
// each over the nodes in document order, and the first failure is returned:
// unfilled placeholders, unknown references, unknown targets, cycles, and
// literal arguments that violate a factory's declared parameters.
func (e *Engine) Plan(doc *domain.Document) (*Plan, error) {
	names := doc.Names()
	specs := make([]domain.Spec, len(names))
	for i, name := range names {
		specs[i], _ = doc.Node(name)
	}

	for i, name := range names {
		if domain.HasPlaceholder(specs[i]) {
			return nil, domain.NewError(domain.ErrMissingPlaceholder, name, "value must be supplied through an override")
		}
	}

	deps := make(map[string][]string, len(names))
	for i, name := range names {
		deps[name] = domain.Dependencies(specs[i])
		for _, dep := range deps[name] {
			if _, ok := doc.Node(dep); !ok {
				return nil, domain.NewError(domain.ErrUnknownReference, name, "%q is not defined", dep)
			}
		}
	}

	for i, name := range names {
		for _, target := range domain.Targets(specs[i]) {
			if _, ok := e.registry.Lookup(target); !ok {
				return nil, domain.NewError(domain.ErrUnknownTarget, name, "no factory registered for %q", target)
			}
		}
	}

	order, err := topoOrder(names, deps)
	if err != nil {
		return nil, err
	}

	for i, name := range names {
		if err := e.checkArguments(name, specs[i]); err != nil {
			return nil, err
		}
	}

	plan := &Plan{Deps: deps, SeedNode: doc.SeedNode()}
	if plan.SeedNode != "" {
		spec, _ := doc.Node(plan.SeedNode)
		lit, ok := spec.(domain.Literal)
		seed, isInt := toInt64(lit.Value)
		if !ok || !isInt {
			return nil, domain.NewError(domain.ErrParse, plan.SeedNode, "seed must be an integer")
		}
		plan.Seed = seed
		plan.Order = append(plan.Order, plan.SeedNode)
	}
	if e.seed != nil {
		plan.Seed = *e.seed
	}
	for _, name := range order {
		if name != plan.SeedNode {
			plan.Order = append(plan.Order, name)
		}
	}
	return plan, nil
}

// checkArguments validates what can be known statically: argument names
// against declared parameters, literal values against their types, and, for
// eager constructors, that every required parameter is given.
func (e *Engine) checkArguments(name string, spec domain.Spec) error {
	var err error
	domain.Walk(spec, func(s domain.Spec) bool {
		if err != nil {
			return false
		}
		var (
			target         string
			named          *domain.Mapping
			complete, call bool
		)
		switch c := s.(type) {
		case domain.Constructor:
			target, named, complete, call = c.Target, c.Named, true, c.Apply
		case domain.FunctionRef:
			target, named = c.Target, c.Named
		default:
			return true
		}
		f, _ := e.registry.Lookup(target)
		if f == nil || f.Params == nil {
			return true
		}
		if f.Mode == registry.Lazy && !call {
			complete = false
		}
		err = staticArguments(name, f, named, complete)
		return true
	})
	return err
}

func staticArguments(node string, f *registry.Factory, named *domain.Mapping, complete bool) error {
	var keys []string
	if named != nil {
		keys = named.Keys
	}
	for _, key := range keys {
		typ, declared := f.Params[key]
		if !declared {
			return domain.NewError(domain.ErrArgumentMismatch, node, "%s: unknown parameter %q", f.Target, key)
		}
		if lit, ok := named.Values[key].(domain.Literal); ok {
			if err := typ.Validate(lit.Value); err != nil {
				return domain.NewError(domain.ErrArgumentMismatch, node, "%s: parameter %q: %v", f.Target, key, err)
			}
		}
	}
	if !complete {
		return nil
	}
	for _, param := range f.Params.Names() {
		if named != nil {
			if _, ok := named.Values[param]; ok {
				continue
			}
		}
		if f.Params[param].Validate(nil) != nil {
			return domain.NewError(domain.ErrArgumentMismatch, node, "%s: missing required parameter %q", f.Target, param)
		}
	}
	return nil
}

// topoOrder sorts names so that every node follows the nodes it references.
// The ready queue is a min-heap by document position, so the order is
// deterministic and stays close to the document's own order.
func topoOrder(names []string, deps map[string][]string) ([]string, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	indeg := make([]int, len(names))
	dependents := make([][]int, len(names))
	for i, n := range names {
		for _, d := range deps[n] {
			indeg[i]++
			dependents[index[d]] = append(dependents[index[d]], i)
		}
	}

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]string, 0, len(names))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		order = append(order, names[n])
		for _, m := range dependents[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	if len(order) == len(names) {
		return order, nil
	}

	cycle := cycleWitness(names, deps, indeg, index)
	be := domain.NewError(domain.ErrCyclicReference, cycle[0], "")
	be.Cycle = cycle
	return nil, be
}

// cycleWitness extracts one cycle among the nodes Kahn's algorithm could not
// order. Each of them still has an unordered dependency, so following the
// first such dependency from the earliest one must revisit a node.
func cycleWitness(names []string, deps map[string][]string, indeg []int, index map[string]int) []string {
	start := -1
	for i, d := range indeg {
		if d > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		panic(fmt.Sprintf("resolver: no unordered node among %d", len(names)))
	}

	seenAt := make(map[int]int)
	var path []int
	cur := start
	for {
		if at, seen := seenAt[cur]; seen {
			out := make([]string, 0, len(path)-at+1)
			for _, i := range path[at:] {
				out = append(out, names[i])
			}
			return append(out, names[cur])
		}
		seenAt[cur] = len(path)
		path = append(path, cur)
		for _, d := range deps[names[cur]] {
			if indeg[index[d]] > 0 {
				cur = index[d]
				break
			}
		}
	}
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
