package builtins

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
)

// Module is a constructed network component.
type Module interface {
	NParams() int
}

// Linear is a dense layer. Weights are drawn from the build's random source
// so two builds with the same seed produce the same layer.
type Linear struct {
	InputSize int
	NNeurons  int
	Bias      bool
	Weights   []float64
}

func newLinear(call *registry.Call, args registry.Args) (any, error) {
	in := struct {
		InputSize int   `hp:"input_size"`
		NNeurons  int   `hp:"n_neurons"`
		Bias      *bool `hp:"bias"`
	}{}
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if in.InputSize <= 0 || in.NNeurons <= 0 {
		return nil, fmt.Errorf("%w: input_size and n_neurons must be positive", domain.ErrArgumentMismatch)
	}

	l := &Linear{InputSize: in.InputSize, NNeurons: in.NNeurons, Bias: in.Bias == nil || *in.Bias}
	// Uniform(-k, k) with k = 1/sqrt(input_size).
	k := 1 / math.Sqrt(float64(in.InputSize))
	l.Weights = make([]float64, in.InputSize*in.NNeurons)
	for i := range l.Weights {
		l.Weights[i] = (call.Rand.Float64()*2 - 1) * k
	}
	call.Logger.Debug("linear layer", "input_size", l.InputSize, "n_neurons", l.NNeurons)
	return l, nil
}

func (l *Linear) NParams() int {
	n := l.InputSize * l.NNeurons
	if l.Bias {
		n += l.NNeurons
	}
	return n
}

func (l *Linear) Field(name string) (any, bool) {
	switch name {
	case "input_size":
		return l.InputSize, true
	case "n_neurons":
		return l.NNeurons, true
	case "bias":
		return l.Bias, true
	case "n_params":
		return l.NParams(), true
	}
	return nil, false
}

func (l *Linear) Copy() any {
	c := *l
	c.Weights = append([]float64(nil), l.Weights...)
	return &c
}

// Sequential chains modules.
type Sequential struct {
	Layers []Module
}

func newSequential(_ *registry.Call, args registry.Args) (any, error) {
	s := &Sequential{Layers: make([]Module, 0, len(args.Positional))}
	for i, v := range args.Positional {
		m, ok := v.(Module)
		if !ok {
			return nil, fmt.Errorf("%w: argument %d: expected module, got %T", domain.ErrArgumentMismatch, i, v)
		}
		s.Layers = append(s.Layers, m)
	}
	return s, nil
}

func (s *Sequential) NParams() int {
	n := 0
	for _, l := range s.Layers {
		n += l.NParams()
	}
	return n
}

// Field exposes "n_layers", "n_params" and layers by index.
func (s *Sequential) Field(name string) (any, bool) {
	switch name {
	case "n_layers":
		return len(s.Layers), true
	case "n_params":
		return s.NParams(), true
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(s.Layers) {
		return s.Layers[i], true
	}
	return nil, false
}

func (s *Sequential) Copy() any {
	c := &Sequential{Layers: make([]Module, len(s.Layers))}
	for i, l := range s.Layers {
		if cp, ok := l.(domain.Copier); ok {
			if m, ok := cp.Copy().(Module); ok {
				c.Layers[i] = m
				continue
			}
		}
		c.Layers[i] = l
	}
	return c
}
