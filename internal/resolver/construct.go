package resolver

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
)

// build holds the state of one resolution pass.
type build struct {
	ctx    context.Context
	engine *Engine
	doc    *domain.Document
	graph  *domain.Graph
	rand   *rand.Rand
}

// node constructs a top-level node and tags the result.
func (b *build) node(name string, spec domain.Spec) (domain.Value, error) {
	data, err := b.value(name, spec)
	if err != nil {
		return domain.Value{}, err
	}
	kind := domain.Eager
	switch spec.(type) {
	case domain.FunctionRef, domain.Constructor, domain.Reference, domain.Copy:
		if _, deferred := data.(*registry.Partial); deferred {
			kind = domain.Deferred
		}
	}
	return domain.Value{Kind: kind, Data: data}, nil
}

// value resolves spec to a plain Go value, constructing nested nodes.
func (b *build) value(name string, spec domain.Spec) (any, error) {
	switch s := spec.(type) {
	case domain.Literal:
		return s.Value, nil
	case domain.Sequence:
		out := make([]any, len(s.Items))
		for i, item := range s.Items {
			v, err := b.value(name, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *domain.Mapping:
		return b.mapping(name, s)
	case domain.Mapping:
		return b.mapping(name, &s)
	case domain.Reference:
		return b.lookup(name, s.Path)
	case domain.Template:
		return b.template(name, s)
	case domain.Copy:
		v, err := b.lookup(name, s.Path)
		if err != nil {
			return nil, err
		}
		out, err := deepCopy(v)
		if err != nil {
			return nil, domain.WrapError(domain.ErrConstruction, name, fmt.Errorf("copy <%s>: %w", s.Path, err))
		}
		return out, nil
	case domain.Constructor:
		return b.construct(name, s.Target, s.Positional, s.Named, s.Apply, false)
	case domain.FunctionRef:
		return b.construct(name, s.Target, s.Positional, s.Named, false, true)
	case domain.Placeholder:
		return nil, domain.NewError(domain.ErrMissingPlaceholder, name, "value must be supplied through an override")
	default:
		return nil, domain.NewError(domain.ErrConstruction, name, "unsupported spec %T", spec)
	}
}

func (b *build) mapping(name string, m *domain.Mapping) (map[string]any, error) {
	out := make(map[string]any, m.Len())
	for _, k := range m.Keys {
		v, err := b.value(name, m.Values[k])
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (b *build) lookup(name string, path domain.Path) (any, error) {
	v, err := b.graph.Lookup(path)
	if err != nil {
		return nil, domain.NewError(domain.ErrUnknownReference, name, "<%s>: %v", path, err)
	}
	return v, nil
}

// construct resolves the arguments and either invokes the factory or, for
// `!name:` and `!new:` on lazy factories, captures a partial. `!apply:`
// always invokes.
func (b *build) construct(name, target string, positional []domain.Spec, named *domain.Mapping, apply, deferred bool) (any, error) {
	f, ok := b.engine.registry.Lookup(target)
	if !ok {
		return nil, domain.NewError(domain.ErrUnknownTarget, name, "no factory registered for %q", target)
	}

	args := registry.Args{Named: map[string]any{}}
	for _, p := range positional {
		v, err := b.value(name, p)
		if err != nil {
			return nil, err
		}
		args.Positional = append(args.Positional, v)
	}
	if named != nil {
		m, err := b.mapping(name, named)
		if err != nil {
			return nil, err
		}
		args.Named = m
	}

	call := &registry.Call{
		Context: b.ctx,
		Node:    name,
		Target:  target,
		Rand:    b.rand,
		Logger:  b.engine.logger.With("node", name, "target", target),
	}

	if deferred || (f.Mode == registry.Lazy && !apply) {
		if err := f.CheckPartial(args.Named); err != nil {
			return nil, mismatch(name, err)
		}
		return registry.NewPartial(f, call, args), nil
	}

	out, err := f.Invoke(call, args)
	if err != nil {
		if errors.Is(err, domain.ErrArgumentMismatch) {
			return nil, mismatch(name, err)
		}
		return nil, asBuildError(domain.ErrConstruction, name, fmt.Errorf("%s: %w", target, err))
	}
	return out, nil
}

func mismatch(node string, err error) error {
	be := domain.WrapError(domain.ErrArgumentMismatch, node, err)
	be.Cause = strings.TrimPrefix(be.Cause, domain.ErrArgumentMismatch.Error()+": ")
	return be
}
