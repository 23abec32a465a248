package domain

// SpecKind identifies the variant of a Spec.
type SpecKind int

const (
	KindLiteral SpecKind = iota
	KindSequence
	KindMapping
	KindReference
	KindTemplate
	KindConstructor
	KindFunction
	KindCopy
	KindPlaceholder
)

var specKindNames = map[SpecKind]string{
	KindLiteral:     "literal",
	KindSequence:    "sequence",
	KindMapping:     "mapping",
	KindReference:   "reference",
	KindTemplate:    "template",
	KindConstructor: "constructor",
	KindFunction:    "function",
	KindCopy:        "copy",
	KindPlaceholder: "placeholder",
}

func (k SpecKind) String() string {
	if s, ok := specKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Spec is a node of a configuration document before resolution.
// The set of implementations is closed; switch on the concrete type.
type Spec interface {
	Kind() SpecKind
}

// Literal is a scalar value: int, float64, string, bool or nil.
type Literal struct {
	Value any
}

// Sequence is an ordered list of specs.
type Sequence struct {
	Items []Spec
}

// Mapping is an ordered set of named specs.
type Mapping struct {
	Keys   []string
	Values map[string]Spec
}

// Reference points at another node's constructed value, optionally
// descending into it (`!ref <model.encoder[0]>`).
type Reference struct {
	Path Path
}

// TemplatePart is either raw text or a reference.
type TemplatePart struct {
	Text string
	Ref  *Path
}

// Template interpolates one or more references into a string, or evaluates
// to a number when the surrounding text is pure arithmetic.
type Template struct {
	Raw   string
	Parts []TemplatePart
}

// Constructor invokes a registered factory (`!new:` and `!apply:`).
type Constructor struct {
	Target     string
	Positional []Spec
	Named      *Mapping
	// Apply records that the node was written as `!apply:`. It invokes
	// the factory even when the factory is registered as lazy.
	Apply bool
}

// FunctionRef captures a factory and its arguments without invoking it
// (`!name:`). It always resolves to a Deferred value.
type FunctionRef struct {
	Target     string
	Positional []Spec
	Named      *Mapping
}

// Copy produces an independent copy of another node's value (`!copy <name>`).
type Copy struct {
	Path Path
}

// Placeholder marks a value that must be supplied through overrides.
type Placeholder struct{}

func (Literal) Kind() SpecKind     { return KindLiteral }
func (Sequence) Kind() SpecKind    { return KindSequence }
func (Mapping) Kind() SpecKind     { return KindMapping }
func (Reference) Kind() SpecKind   { return KindReference }
func (Template) Kind() SpecKind    { return KindTemplate }
func (Constructor) Kind() SpecKind { return KindConstructor }
func (FunctionRef) Kind() SpecKind { return KindFunction }
func (Copy) Kind() SpecKind        { return KindCopy }
func (Placeholder) Kind() SpecKind { return KindPlaceholder }

// NewMapping returns an empty mapping ready for Set.
func NewMapping() *Mapping {
	return &Mapping{Values: make(map[string]Spec)}
}

// Set adds or replaces a key, preserving first-insertion order.
func (m *Mapping) Set(key string, spec Spec) {
	if m.Values == nil {
		m.Values = make(map[string]Spec)
	}
	if _, exists := m.Values[key]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.Values[key] = spec
}

// Len returns the number of keys, tolerating a nil mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// Walk visits spec and every spec nested inside it, depth first.
// Returning false from fn stops descent into that spec's children.
func Walk(spec Spec, fn func(Spec) bool) {
	if spec == nil || !fn(spec) {
		return
	}
	switch s := spec.(type) {
	case Sequence:
		for _, item := range s.Items {
			Walk(item, fn)
		}
	case *Mapping:
		walkMapping(s, fn)
	case Mapping:
		walkMapping(&s, fn)
	case Constructor:
		for _, item := range s.Positional {
			Walk(item, fn)
		}
		walkMapping(s.Named, fn)
	case FunctionRef:
		for _, item := range s.Positional {
			Walk(item, fn)
		}
		walkMapping(s.Named, fn)
	}
}

func walkMapping(m *Mapping, fn func(Spec) bool) {
	if m == nil {
		return
	}
	for _, k := range m.Keys {
		Walk(m.Values[k], fn)
	}
}

// Dependencies returns the distinct root node names referenced anywhere in
// spec, in first-seen order.
func Dependencies(spec Spec) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	Walk(spec, func(s Spec) bool {
		switch v := s.(type) {
		case Reference:
			add(v.Path.Root)
		case Copy:
			add(v.Path.Root)
		case Template:
			for _, p := range v.Parts {
				if p.Ref != nil {
					add(p.Ref.Root)
				}
			}
		}
		return true
	})
	return out
}

// Targets returns the distinct factory targets used anywhere in spec.
func Targets(spec Spec) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(spec, func(s Spec) bool {
		var target string
		switch v := s.(type) {
		case Constructor:
			target = v.Target
		case FunctionRef:
			target = v.Target
		default:
			return true
		}
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
		return true
	})
	return out
}

// HasPlaceholder reports whether spec contains an unfilled placeholder.
func HasPlaceholder(spec Spec) bool {
	found := false
	Walk(spec, func(s Spec) bool {
		if _, ok := s.(Placeholder); ok {
			found = true
		}
		return !found
	})
	return found
}
