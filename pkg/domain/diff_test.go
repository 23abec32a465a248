package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	base := func() *Manifest {
		return &Manifest{
			ID:    "m1",
			Seed:  1,
			Order: []string{"seed", "lr", "opt"},
			Nodes: map[string]ManifestEntry{
				"seed": {Spec: "literal", Kind: "eager", Type: "int", Value: 1},
				"lr":   {Spec: "literal", Kind: "eager", Type: "float64", Value: 0.1},
				"opt":  {Spec: "function", Kind: "partial", Target: "optim.adam", Type: "*registry.Partial"},
			},
		}
	}

	tests := []struct {
		name      string
		old       *Manifest
		new       func() *Manifest
		wantEmpty bool
		wantSeed  bool
		wantNodes []string
		wantOrder bool
	}{
		{
			name:      "Initial (Old is Nil)",
			old:       nil,
			new:       base,
			wantNodes: []string{"lr", "opt", "seed"},
		},
		{
			name:      "No Changes",
			old:       base(),
			new:       base,
			wantEmpty: true,
		},
		{
			name: "Seed and Value Change",
			old:  base(),
			new: func() *Manifest {
				m := base()
				m.ID = "m2"
				m.Seed = 2
				m.Nodes["lr"] = ManifestEntry{Spec: "literal", Kind: "eager", Type: "float64", Value: 0.5}
				return m
			},
			wantSeed:  true,
			wantNodes: []string{"lr"},
		},
		{
			name: "Added and Removed",
			old:  base(),
			new: func() *Manifest {
				m := base()
				delete(m.Nodes, "opt")
				m.Nodes["wd"] = ManifestEntry{Spec: "literal", Kind: "eager", Type: "float64", Value: 0.01}
				m.Order = []string{"seed", "lr", "wd"}
				return m
			},
			wantNodes: []string{"opt", "wd"},
		},
		{
			name: "Order Change",
			old:  base(),
			new: func() *Manifest {
				m := base()
				m.Order = []string{"seed", "opt", "lr"}
				return m
			},
			wantOrder: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new())
			if got == nil {
				t.Fatal("Diff returned nil")
			}
			if got.IsEmpty() != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got.IsEmpty(), tt.wantEmpty)
			}
			if (got.Seed != nil) != tt.wantSeed {
				t.Errorf("Seed = %+v, want changed=%v", got.Seed, tt.wantSeed)
			}
			if strings.Join(got.Names(), ",") != strings.Join(tt.wantNodes, ",") {
				t.Errorf("Names() = %v, want %v", got.Names(), tt.wantNodes)
			}
			if got.OrderChanged != tt.wantOrder {
				t.Errorf("OrderChanged = %v, want %v", got.OrderChanged, tt.wantOrder)
			}
		})
	}
}

func TestDiff_Sides(t *testing.T) {
	old := &Manifest{ID: "a", Nodes: map[string]ManifestEntry{"x": {Type: "int", Value: 1}}}
	new := &Manifest{ID: "b", Nodes: map[string]ManifestEntry{"y": {Type: "int", Value: 2}}}

	d := Diff(old, new)
	if d.Nodes["x"].From == nil || d.Nodes["x"].To != nil {
		t.Errorf("removed node x: got %+v", d.Nodes["x"])
	}
	if d.Nodes["y"].From != nil || d.Nodes["y"].To == nil {
		t.Errorf("added node y: got %+v", d.Nodes["y"])
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), `"seed"`) {
		t.Errorf("unchanged seed should be omitted: %s", data)
	}
}

func TestDiff_NilNew(t *testing.T) {
	if Diff(&Manifest{}, nil) != nil {
		t.Error("expected nil diff")
	}
}
