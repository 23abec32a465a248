package domain

import (
	"fmt"
	"time"
)

// Manifest records one successful build: the effective document (after
// overrides) and a printable summary of every constructed node.
type Manifest struct {
	ID        string                   `json:"id" yaml:"id"`
	Source    string                   `json:"source" yaml:"source"`
	CreatedAt time.Time                `json:"created_at" yaml:"created_at"`
	Seed      int64                    `json:"seed" yaml:"seed"`
	Overrides []string                 `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	Document  string                   `json:"document" yaml:"document"`
	Order     []string                 `json:"order" yaml:"order"`
	Nodes     map[string]ManifestEntry `json:"nodes" yaml:"nodes"`
}

// ManifestEntry summarises one node of a resolved graph.
type ManifestEntry struct {
	Spec   string `json:"spec" yaml:"spec"`
	Kind   string `json:"kind" yaml:"kind"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Type   string `json:"type" yaml:"type"`
	// Value is set only for plain data (scalars, lists and maps of scalars).
	Value any `json:"value,omitempty" yaml:"value,omitempty"`
}

// Summarize builds manifest entries for every node of g.
func Summarize(doc *Document, g *Graph) (map[string]ManifestEntry, []string) {
	entries := make(map[string]ManifestEntry, g.Len())
	for _, name := range g.Order() {
		v, _ := g.Value(name)
		entry := ManifestEntry{
			Kind: v.Kind.String(),
			Type: fmt.Sprintf("%T", v.Data),
		}
		if spec, ok := doc.Node(name); ok {
			entry.Spec = spec.Kind().String()
			switch s := spec.(type) {
			case Constructor:
				entry.Target = s.Target
			case FunctionRef:
				entry.Target = s.Target
			}
		}
		if v.Data == nil {
			entry.Type = "nil"
		}
		if IsPlainData(v.Data) {
			entry.Value = v.Data
		}
		entries[name] = entry
	}
	return entries, g.Order()
}

// IsPlainData reports whether v is built only from scalars, []any and
// map[string]any, so that it can be serialised faithfully.
func IsPlainData(v any) bool {
	switch t := v.(type) {
	case nil, string, bool, int, int64, float64:
		return true
	case []any:
		for _, item := range t {
			if !IsPlainData(item) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, item := range t {
			if !IsPlainData(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a copy of m that shares no slices or maps with it.
func (m *Manifest) Clone() *Manifest {
	if m == nil {
		return nil
	}
	c := *m
	c.Overrides = append([]string(nil), m.Overrides...)
	c.Order = append([]string(nil), m.Order...)
	if m.Nodes != nil {
		c.Nodes = make(map[string]ManifestEntry, len(m.Nodes))
		for k, v := range m.Nodes {
			c.Nodes[k] = v
		}
	}
	return &c
}
