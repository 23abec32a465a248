package dsl

import (
	"github.com/aretw0/hpgraph/pkg/domain"
)

// Builder manages the document construction.
type Builder struct {
	source string
	names  []string
	nodes  map[string]*NodeBuilder
}

// New creates a new document builder. Source names the document in errors
// and manifests.
func New(source string) *Builder {
	if source == "" {
		source = "dsl"
	}
	return &Builder{
		source: source,
		nodes:  make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the document.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(name string) *NodeBuilder {
	if nb, ok := b.nodes[name]; ok {
		return nb
	}
	nb := &NodeBuilder{name: name}
	b.nodes[name] = nb
	b.names = append(b.names, name)
	return nb
}

// Build compiles the nodes, in the order they were added, into a document.
// Nodes that were added but never given a value are literal nulls.
func (b *Builder) Build() (*domain.Document, error) {
	doc := domain.NewDocument(b.source)
	for _, name := range b.names {
		nb := b.nodes[name]
		spec, err := nb.spec()
		if err != nil {
			return nil, err
		}
		if nb.seed {
			if prev := doc.SeedNode(); prev != "" {
				return nil, domain.NewError(domain.ErrParse, name, "more than one seed node (already %q)", prev)
			}
			doc.SetSeedNode(name)
		}
		doc.Set(name, spec)
	}
	return doc, nil
}
