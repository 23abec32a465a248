package registry

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Call carries everything a factory may consult besides its arguments.
type Call struct {
	Context context.Context
	// Node is the document node being built.
	Node   string
	Target string
	// Rand is the build's seeded random source. Never nil during resolution.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Args are the resolved arguments of a constructor node.
type Args struct {
	Positional []any
	Named      map[string]any
}

// Get returns a named argument.
func (a Args) Get(name string) (any, bool) {
	v, ok := a.Named[name]
	return v, ok
}

// Decode copies the named arguments into out (a pointer to a struct tagged
// with `hp:"name"`). Unknown names and incompatible values are reported as
// domain.ErrArgumentMismatch.
func (a Args) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		TagName:     "hp",
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	named := a.Named
	if named == nil {
		named = map[string]any{}
	}
	if err := dec.Decode(named); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrArgumentMismatch, err)
	}
	return nil
}

// Numbers returns the positional arguments as float64.
func (a Args) Numbers() ([]float64, error) {
	out := make([]float64, len(a.Positional))
	for i, v := range a.Positional {
		f, ok := ToFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: argument %d: expected number, got %T", domain.ErrArgumentMismatch, i, v)
		}
		out[i] = f
	}
	return out, nil
}

// ToFloat converts any Go numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func (a Args) clone() Args {
	out := Args{Named: make(map[string]any, len(a.Named))}
	out.Positional = append(out.Positional, a.Positional...)
	for k, v := range a.Named {
		out.Named[k] = v
	}
	return out
}
