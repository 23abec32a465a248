package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// DiffManifests prints the changes between two recorded builds.
func (e *Env) DiffManifests(ctx context.Context, out io.Writer, oldID, newID string) error {
	if e.Store == nil {
		return fmt.Errorf("no manifest store configured")
	}
	older, err := e.Store.Load(ctx, oldID)
	if err != nil {
		return fmt.Errorf("load %s: %w", oldID, err)
	}
	newer, err := e.Store.Load(ctx, newID)
	if err != nil {
		return fmt.Errorf("load %s: %w", newID, err)
	}

	d := domain.Diff(older, newer)
	if d.IsEmpty() {
		PrintSystemMessage(out, "No changes between %s and %s", oldID, newID)
		return nil
	}

	if d.Seed != nil {
		fmt.Fprintf(out, "~ seed: %d -> %d\n", d.Seed.From, d.Seed.To)
	}
	for _, name := range d.Names() {
		delta := d.Nodes[name]
		switch {
		case delta.From == nil:
			fmt.Fprintf(out, "+ %s: %s\n", name, describeEntry(delta.To))
		case delta.To == nil:
			fmt.Fprintf(out, "- %s: %s\n", name, describeEntry(delta.From))
		default:
			fmt.Fprintf(out, "~ %s: %s -> %s\n", name, describeEntry(delta.From), describeEntry(delta.To))
		}
	}
	if d.OrderChanged {
		fmt.Fprintln(out, "~ construction order changed")
	}
	return nil
}

func describeEntry(e *domain.ManifestEntry) string {
	switch {
	case e.Value != nil:
		return fmt.Sprintf("%v", e.Value)
	case e.Target != "":
		return fmt.Sprintf("%s (%s)", e.Target, e.Type)
	default:
		return e.Type
	}
}
