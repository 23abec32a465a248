package builtins

import (
	"fmt"
	"math"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
)

// Adam holds optimizer settings bound to a module.
type Adam struct {
	LR          float64
	Betas       [2]float64
	Eps         float64
	WeightDecay float64
	// NParams is the size of the optimized module, 0 when none was given.
	NParams int
}

// newAdam runs when the partial is called. The module comes either as the
// first positional argument or as "params".
func newAdam(call *registry.Call, args registry.Args) (any, error) {
	in := struct {
		Params      any       `hp:"params"`
		LR          float64   `hp:"lr"`
		Betas       []float64 `hp:"betas"`
		Eps         *float64  `hp:"eps"`
		WeightDecay float64   `hp:"weight_decay"`
	}{}
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if in.Params == nil && len(args.Positional) > 0 {
		in.Params = args.Positional[0]
	}

	opt := &Adam{LR: in.LR, Betas: [2]float64{0.9, 0.999}, Eps: 1e-8, WeightDecay: in.WeightDecay}
	if in.Eps != nil {
		opt.Eps = *in.Eps
	}
	if in.Betas != nil {
		if len(in.Betas) != 2 {
			return nil, fmt.Errorf("%w: betas needs 2 values, got %d", domain.ErrArgumentMismatch, len(in.Betas))
		}
		copy(opt.Betas[:], in.Betas)
	}
	if m, ok := in.Params.(Module); ok {
		opt.NParams = m.NParams()
	} else if in.Params != nil {
		return nil, fmt.Errorf("%w: params: expected module, got %T", domain.ErrArgumentMismatch, in.Params)
	}
	return opt, nil
}

func (a *Adam) Field(name string) (any, bool) {
	switch name {
	case "lr":
		return a.LR, true
	case "betas":
		return []any{a.Betas[0], a.Betas[1]}, true
	case "eps":
		return a.Eps, true
	case "weight_decay":
		return a.WeightDecay, true
	case "n_params":
		return a.NParams, true
	}
	return nil, false
}

func (a *Adam) Copy() any {
	c := *a
	return &c
}

// Noam is the warmup schedule from "Attention Is All You Need".
type Noam struct {
	LRInitial    float64
	NWarmupSteps int
	ModelSize    int
}

func newNoam(_ *registry.Call, args registry.Args) (any, error) {
	in := struct {
		LRInitial    float64 `hp:"lr_initial"`
		NWarmupSteps int     `hp:"n_warmup_steps"`
		ModelSize    int     `hp:"model_size"`
	}{}
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if in.NWarmupSteps <= 0 {
		return nil, fmt.Errorf("%w: n_warmup_steps must be positive", domain.ErrArgumentMismatch)
	}
	return &Noam{LRInitial: in.LRInitial, NWarmupSteps: in.NWarmupSteps, ModelSize: in.ModelSize}, nil
}

// LR returns the learning rate at step (1-based). The peak, reached at the
// end of warmup, equals LRInitial.
func (n *Noam) LR(step int) float64 {
	if step < 1 {
		step = 1
	}
	s, w := float64(step), float64(n.NWarmupSteps)
	return n.LRInitial * math.Sqrt(w) * math.Min(1/math.Sqrt(s), s*math.Pow(w, -1.5))
}

func (n *Noam) Field(name string) (any, bool) {
	switch name {
	case "lr_initial":
		return n.LRInitial, true
	case "n_warmup_steps":
		return n.NWarmupSteps, true
	case "model_size":
		return n.ModelSize, true
	}
	return nil, false
}

func (n *Noam) Copy() any {
	c := *n
	return &c
}
