package domain

import (
	"reflect"
	"sort"
)

// ManifestDiff represents the changes between two recorded builds.
// It is designed to be serialized to JSON.
type ManifestDiff struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Seed is set only when the seed changed.
	Seed *SeedDelta `json:"seed,omitempty"`

	// Nodes contains only added, removed or changed nodes.
	// For removals, To is nil; for additions, From is nil.
	Nodes map[string]EntryDelta `json:"nodes,omitempty"`

	// OrderChanged reports a different construction order over the nodes
	// both builds share.
	OrderChanged bool `json:"order_changed,omitempty"`
}

// SeedDelta holds the old and new seed.
type SeedDelta struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// EntryDelta holds both sides of a changed node.
type EntryDelta struct {
	From *ManifestEntry `json:"from,omitempty"`
	To   *ManifestEntry `json:"to,omitempty"`
}

// Diff calculates the difference between the old and new manifests.
// If old is nil, every node of new is reported as added.
func Diff(old, new *Manifest) *ManifestDiff {
	if new == nil {
		return nil
	}

	diff := &ManifestDiff{To: new.ID}
	if old != nil {
		diff.From = old.ID
		if old.Seed != new.Seed {
			diff.Seed = &SeedDelta{From: old.Seed, To: new.Seed}
		}
	}

	diff.Nodes = diffNodes(old, new)
	if old != nil {
		diff.OrderChanged = !reflect.DeepEqual(shared(old.Order, new.Nodes), shared(new.Order, old.Nodes))
	}
	return diff
}

func diffNodes(old, new *Manifest) map[string]EntryDelta {
	delta := make(map[string]EntryDelta)

	// Check for Added or Modified
	for name, newEntry := range new.Nodes {
		newEntry := newEntry
		if old == nil {
			delta[name] = EntryDelta{To: &newEntry}
			continue
		}
		oldEntry, exists := old.Nodes[name]
		if !exists || !reflect.DeepEqual(oldEntry, newEntry) {
			d := EntryDelta{To: &newEntry}
			if exists {
				d.From = &oldEntry
			}
			delta[name] = d
		}
	}

	// Check for Deletions
	if old != nil {
		for name, oldEntry := range old.Nodes {
			oldEntry := oldEntry
			if _, exists := new.Nodes[name]; !exists {
				delta[name] = EntryDelta{From: &oldEntry}
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// shared filters order down to the names present in other.
func shared(order []string, other map[string]ManifestEntry) []string {
	out := make([]string, 0, len(order))
	for _, name := range order {
		if _, ok := other[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Names returns the changed node names, sorted.
func (d *ManifestDiff) Names() []string {
	names := make([]string, 0, len(d.Nodes))
	for name := range d.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEmpty checks if the diff contains any changes.
func (d *ManifestDiff) IsEmpty() bool {
	return d.Seed == nil && len(d.Nodes) == 0 && !d.OrderChanged
}
