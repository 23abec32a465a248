package dsl

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aretw0/hpgraph/internal/compiler"
	"github.com/aretw0/hpgraph/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
// The last value-setting call wins.
type NodeBuilder struct {
	name string

	value any
	call  *call
	seed  bool
	err   error
}

type call struct {
	kind       domain.SpecKind
	apply      bool
	target     string
	positional []any
	named      []namedArg
}

type namedArg struct {
	key   string
	value any
}

// The marker types below are compiled by Build so that errors name the
// failing node.
type refValue struct{ raw string }

type copyValue struct{ raw string }

type placeholderValue struct{}

// Ref returns an argument or value that references another node
// (`!ref <path>`). Text around the `<path>` turns it into a template.
func Ref(path string) any {
	return refValue{raw: "<" + path + ">"}
}

// Template returns a `!ref` template such as "<data_folder>/train.csv".
func Template(raw string) any {
	return refValue{raw: raw}
}

// CopyOf returns a value that is an independent copy of another node (`!copy`).
func CopyOf(path string) any {
	return copyValue{raw: path}
}

// Placeholder returns a value that must be supplied by an override.
func Placeholder() any {
	return placeholderValue{}
}

// Value sets the node to a plain value. Slices and maps are converted
// recursively; map keys are sorted.
func (n *NodeBuilder) Value(v any) *NodeBuilder {
	n.value, n.call = v, nil
	return n
}

// Seed marks the node as the document's seed.
func (n *NodeBuilder) Seed(seed int64) *NodeBuilder {
	n.value, n.call, n.seed = int(seed), nil, true
	return n
}

// Ref sets the node to a reference (see Ref).
func (n *NodeBuilder) Ref(path string) *NodeBuilder {
	return n.Value(Ref(path))
}

// Template sets the node to a template (see Template).
func (n *NodeBuilder) Template(raw string) *NodeBuilder {
	return n.Value(Template(raw))
}

// Copy sets the node to a copy of another node.
func (n *NodeBuilder) Copy(path string) *NodeBuilder {
	return n.Value(CopyOf(path))
}

// Placeholder marks the node as required from overrides.
func (n *NodeBuilder) Placeholder() *NodeBuilder {
	return n.Value(Placeholder())
}

// New constructs target with the given positional arguments (`!new:`).
func (n *NodeBuilder) New(target string, positional ...any) *NodeBuilder {
	n.call = &call{kind: domain.KindConstructor, target: target, positional: positional}
	n.value = nil
	return n
}

// Apply invokes target even when it is registered as lazy (`!apply:`).
func (n *NodeBuilder) Apply(target string, positional ...any) *NodeBuilder {
	n.New(target, positional...)
	n.call.apply = true
	return n
}

// Name captures target and its arguments without invoking it (`!name:`).
func (n *NodeBuilder) Name(target string, positional ...any) *NodeBuilder {
	n.call = &call{kind: domain.KindFunction, target: target, positional: positional}
	n.value = nil
	return n
}

// With adds a named argument to the node's New, Apply or Name call.
func (n *NodeBuilder) With(key string, value any) *NodeBuilder {
	if n.call == nil {
		n.err = fmt.Errorf("With(%q) before New, Apply or Name", key)
		return n
	}
	n.call.named = append(n.call.named, namedArg{key: key, value: value})
	return n
}

func (n *NodeBuilder) spec() (domain.Spec, error) {
	if n.err != nil {
		return nil, domain.WrapError(domain.ErrParse, n.name, n.err)
	}
	if n.call == nil {
		spec, err := toSpec(n.value)
		if err != nil {
			return nil, domain.WrapError(domain.ErrParse, n.name, err)
		}
		return spec, nil
	}

	positional := make([]domain.Spec, 0, len(n.call.positional))
	for _, v := range n.call.positional {
		spec, err := toSpec(v)
		if err != nil {
			return nil, domain.WrapError(domain.ErrParse, n.name, err)
		}
		positional = append(positional, spec)
	}
	named := domain.NewMapping()
	for _, arg := range n.call.named {
		spec, err := toSpec(arg.value)
		if err != nil {
			return nil, domain.WrapError(domain.ErrParse, n.name, fmt.Errorf("argument %q: %w", arg.key, err))
		}
		named.Set(arg.key, spec)
	}

	if n.call.kind == domain.KindFunction {
		return domain.FunctionRef{Target: n.call.target, Positional: positional, Named: named}, nil
	}
	return domain.Constructor{Target: n.call.target, Positional: positional, Named: named, Apply: n.call.apply}, nil
}

func toSpec(v any) (domain.Spec, error) {
	switch x := v.(type) {
	case nil:
		return domain.Literal{}, nil
	case domain.Spec:
		return x, nil
	case refValue:
		return compiler.ParseRef(x.raw)
	case copyValue:
		path, err := domain.ParsePath(x.raw)
		if err != nil {
			return nil, err
		}
		return domain.Copy{Path: path}, nil
	case placeholderValue:
		return domain.Placeholder{}, nil
	case string, bool, int, float64:
		return domain.Literal{Value: x}, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return domain.Literal{Value: int(rv.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return domain.Literal{Value: int(rv.Uint())}, nil
	case reflect.Float32:
		return domain.Literal{Value: rv.Float()}, nil
	case reflect.Slice, reflect.Array:
		seq := domain.Sequence{Items: make([]domain.Spec, 0, rv.Len())}
		for i := 0; i < rv.Len(); i++ {
			item, err := toSpec(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, item)
		}
		return seq, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map keys must be strings, got %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		m := domain.NewMapping()
		for _, k := range keys {
			item, err := toSpec(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return nil, err
			}
			m.Set(k, item)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}
