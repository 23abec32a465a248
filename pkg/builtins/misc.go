package builtins

import (
	"sort"

	"github.com/aretw0/hpgraph/pkg/registry"
)

func uniform(call *registry.Call, args registry.Args) (any, error) {
	low, high := 0.0, 1.0
	if v, ok := args.Get("low"); ok && v != nil {
		low, _ = registry.ToFloat(v)
	}
	if v, ok := args.Get("high"); ok && v != nil {
		high, _ = registry.ToFloat(v)
	}
	return low + call.Rand.Float64()*(high-low), nil
}

// Checkpointer names the directory checkpoints are written to and the
// objects that get saved. It does not write anything itself.
type Checkpointer struct {
	Dir          string
	Recoverables map[string]any
}

func newCheckpointer(_ *registry.Call, args registry.Args) (any, error) {
	in := struct {
		Dir          string         `hp:"checkpoints_dir"`
		Recoverables map[string]any `hp:"recoverables"`
	}{}
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	return &Checkpointer{Dir: in.Dir, Recoverables: in.Recoverables}, nil
}

// Names returns the recoverable names, sorted.
func (c *Checkpointer) Names() []string {
	names := make([]string, 0, len(c.Recoverables))
	for k := range c.Recoverables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (c *Checkpointer) Field(name string) (any, bool) {
	switch name {
	case "checkpoints_dir":
		return c.Dir, true
	case "recoverables":
		names := c.Names()
		out := make([]any, len(names))
		for i, n := range names {
			out[i] = n
		}
		return out, true
	}
	return nil, false
}
