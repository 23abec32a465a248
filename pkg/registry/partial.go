package registry

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
)

// Partial is a factory with some arguments already bound. It is the value of
// `!name:` nodes and of `!new:` nodes on lazy factories.
type Partial struct {
	factory *Factory
	node    string
	args    Args
	logger  *slog.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

// NewPartial captures args for a later invocation of f. The partial draws
// its own random stream from call.Rand so that invoking it later does not
// disturb the build's stream.
func NewPartial(f *Factory, call *Call, args Args) *Partial {
	p := &Partial{
		factory: f,
		args:    args.clone(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if call != nil {
		p.node = call.Node
		if call.Logger != nil {
			p.logger = call.Logger
		}
		if call.Rand != nil {
			p.rand = rand.New(rand.NewPCG(call.Rand.Uint64(), call.Rand.Uint64()))
		}
	}
	if p.rand == nil {
		p.rand = rand.New(rand.NewPCG(0, 0))
	}
	return p
}

// Target returns the factory identifier.
func (p *Partial) Target() string {
	return p.factory.Target
}

// Bound returns a copy of the captured arguments.
func (p *Partial) Bound() Args {
	return p.args.clone()
}

// Call invokes the factory. Named arguments override captured ones and
// positional arguments are appended after the captured ones.
func (p *Partial) Call(ctx context.Context, positional []any, named map[string]any) (any, error) {
	args := p.args.clone()
	args.Positional = append(args.Positional, positional...)
	for k, v := range named {
		args.Named[k] = v
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.factory.Invoke(&Call{
		Context: ctx,
		Node:    p.node,
		Target:  p.factory.Target,
		Rand:    p.rand,
		Logger:  p.logger,
	}, args)
}

// Copy returns an independent partial with the same bound arguments and a
// random stream derived from this one.
func (p *Partial) Copy() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &Partial{
		factory: p.factory,
		node:    p.node,
		args:    p.args.clone(),
		logger:  p.logger,
		rand:    rand.New(rand.NewPCG(p.rand.Uint64(), p.rand.Uint64())),
	}
}
