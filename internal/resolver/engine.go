package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
)

// Engine resolves documents against a registry.
// An Engine holds no per-build state and may be shared between goroutines.
type Engine struct {
	registry *registry.Registry
	hooks    domain.Hooks
	logger   *slog.Logger
	seed     *int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSeed overrides the value of the document's seed node (or supplies one
// when the document has none).
func WithSeed(seed int64) EngineOption {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// NewEngine creates a new engine over reg.
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = registry.NewRegistry()
	}
	return e
}

// Registry returns the registry the engine resolves against.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Resolve plans doc and constructs every node in dependency order.
// On failure no graph is returned.
func (e *Engine) Resolve(ctx context.Context, doc *domain.Document) (*domain.Graph, error) {
	start := time.Now()
	if e.hooks.OnBuildStart != nil {
		e.hooks.OnBuildStart(ctx, &domain.BuildEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventBuildStart, Source: doc.Source},
			Nodes:     doc.Len(),
		})
	}

	g, err := e.resolve(ctx, doc)

	done := &domain.BuildEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBuildDone, Source: doc.Source},
		Nodes:     doc.Len(),
		Duration:  time.Since(start),
		Err:       err,
	}
	if g != nil {
		done.Seed = g.Seed
	}
	if e.hooks.OnBuildDone != nil {
		e.hooks.OnBuildDone(ctx, done)
	}

	if err != nil {
		e.logger.Error("build failed", "source", doc.Source, "kind", domain.KindName(err), "error", err)
		return nil, err
	}
	e.logger.Info("build complete", "source", doc.Source, "nodes", g.Len(), "seed", g.Seed, "duration", done.Duration)
	return g, nil
}

func (e *Engine) resolve(ctx context.Context, doc *domain.Document) (*domain.Graph, error) {
	plan, err := e.Plan(doc)
	if err != nil {
		return nil, err
	}

	b := &build{
		ctx:    ctx,
		engine: e,
		doc:    doc,
		graph:  domain.NewGraph(plan.Seed),
		rand:   rand.New(rand.NewPCG(uint64(plan.Seed), 0)),
	}

	for _, name := range plan.Order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resolve %s: %w", doc.Source, err)
		}
		spec, _ := doc.Node(name)

		nodeStart := time.Now()
		var v domain.Value
		if name == plan.SeedNode {
			v = domain.Value{Kind: domain.Eager, Data: int(plan.Seed)}
		} else {
			v, err = b.node(name, spec)
		}
		e.emitNode(ctx, doc.Source, name, spec, v, time.Since(nodeStart), err)
		if err != nil {
			return nil, err
		}
		b.graph.Put(name, v)
	}
	return b.graph, nil
}

func (e *Engine) emitNode(ctx context.Context, source, name string, spec domain.Spec, v domain.Value, d time.Duration, err error) {
	evt := &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeBuilt, Source: source},
		Node:      name,
		Spec:      spec.Kind(),
		Target:    targetOf(spec),
		Kind:      v.Kind,
		Duration:  d,
		Err:       err,
	}
	if err != nil {
		evt.Type = domain.EventNodeFailed
		if e.hooks.OnNodeFailed != nil {
			e.hooks.OnNodeFailed(ctx, evt)
		}
		return
	}
	e.logger.Debug("node built", "node", name, "spec", evt.Spec, "kind", v.Kind, "duration", d)
	if e.hooks.OnNodeBuilt != nil {
		e.hooks.OnNodeBuilt(ctx, evt)
	}
}

func targetOf(spec domain.Spec) string {
	switch s := spec.(type) {
	case domain.Constructor:
		return s.Target
	case domain.FunctionRef:
		return s.Target
	}
	return ""
}

// asBuildError attaches node to err unless it already is a BuildError.
func asBuildError(kind error, node string, err error) error {
	var be *domain.BuildError
	if errors.As(err, &be) {
		return err
	}
	return domain.WrapError(kind, node, err)
}
