package domain

// Document is an ordered mapping from node name to Spec.
// The compiler and the dsl package produce documents; the resolver only reads them.
type Document struct {
	// Source describes where the document came from (file path, "inline", ...).
	Source string

	names    []string
	nodes    map[string]Spec
	seedNode string
}

// NewDocument creates an empty document.
func NewDocument(source string) *Document {
	return &Document{
		Source: source,
		nodes:  make(map[string]Spec),
	}
}

// Set adds or replaces a node. New names are appended to the order.
func (d *Document) Set(name string, spec Spec) {
	if _, exists := d.nodes[name]; !exists {
		d.names = append(d.names, name)
	}
	d.nodes[name] = spec
}

// Node returns the spec for name.
func (d *Document) Node(name string) (Spec, bool) {
	s, ok := d.nodes[name]
	return s, ok
}

// Names returns node names in document order.
func (d *Document) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of nodes.
func (d *Document) Len() int {
	return len(d.names)
}

// Position returns the index of name in document order, or -1.
func (d *Document) Position(name string) int {
	for i, n := range d.names {
		if n == name {
			return i
		}
	}
	return -1
}

// SeedNode returns the name of the designated seed node, if any.
func (d *Document) SeedNode() string {
	return d.seedNode
}

// SetSeedNode designates name as the seed node. It must hold an integer literal.
func (d *Document) SetSeedNode(name string) {
	d.seedNode = name
}
