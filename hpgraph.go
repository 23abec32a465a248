package hpgraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/hpgraph/internal/compiler"
	"github.com/aretw0/hpgraph/internal/resolver"
	"github.com/aretw0/hpgraph/pkg/builtins"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/ports"
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/google/uuid"
)

// Builder is the high-level entry point: it parses documents and resolves
// them against a registry.
// A Builder holds no per-document state and may be shared between goroutines.
type Builder struct {
	engine   *resolver.Engine
	parser   *compiler.Parser
	registry *registry.Registry
	store    ports.ManifestStore
	hooks    domain.Hooks
	logger   *slog.Logger
	seed     *int64
}

// Option defines a functional option for configuring the Builder.
type Option func(*Builder)

// WithRegistry sets the factories documents are resolved against.
// Defaults to the built-in factories.
func WithRegistry(reg *registry.Registry) Option {
	return func(b *Builder) {
		b.registry = reg
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(b *Builder) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithSeed overrides the seed node of every resolved document.
func WithSeed(seed int64) Option {
	return func(b *Builder) {
		b.seed = &seed
	}
}

// WithStore enables Record to persist manifests.
func WithStore(store ports.ManifestStore) Option {
	return func(b *Builder) {
		b.store = store
	}
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{parser: compiler.NewParser()}
	for _, opt := range opts {
		opt(b)
	}

	if b.registry == nil {
		b.registry = builtins.NewRegistry()
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	engineOpts := []resolver.EngineOption{
		resolver.WithHooks(b.hooks),
		resolver.WithLogger(b.logger),
	}
	if b.seed != nil {
		engineOpts = append(engineOpts, resolver.WithSeed(*b.seed))
	}
	b.engine = resolver.NewEngine(b.registry, engineOpts...)
	return b
}

// Registry returns the registry documents are resolved against.
func (b *Builder) Registry() *registry.Registry {
	return b.registry
}

// Parse compiles a YAML document. Overrides are YAML mappings merged over
// the document, in order, before compilation.
func (b *Builder) Parse(data []byte, source string, overrides ...string) (*domain.Document, error) {
	return b.parser.Parse(data, source, overrides...)
}

// Load reads and parses the document at path.
func (b *Builder) Load(path string, overrides ...string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return b.Parse(data, path, overrides...)
}

// Validate runs every check that does not need a factory call.
func (b *Builder) Validate(doc *domain.Document) error {
	_, err := b.engine.Plan(doc)
	return err
}

// Order returns the construction order of doc.
func (b *Builder) Order(doc *domain.Document) ([]string, error) {
	plan, err := b.engine.Plan(doc)
	if err != nil {
		return nil, err
	}
	return plan.Order, nil
}

// Resolve constructs every node of doc. On failure no graph is returned.
func (b *Builder) Resolve(ctx context.Context, doc *domain.Document) (*domain.Graph, error) {
	return b.engine.Resolve(ctx, doc)
}

// Build loads the document at path and resolves it.
func (b *Builder) Build(ctx context.Context, path string, overrides ...string) (*domain.Graph, error) {
	doc, err := b.Load(path, overrides...)
	if err != nil {
		return nil, err
	}
	return b.Resolve(ctx, doc)
}

// Format renders doc back to YAML. Overrides are already merged in, so the
// output is the effective document.
func (b *Builder) Format(doc *domain.Document) ([]byte, error) {
	return compiler.Format(doc)
}

// Record summarises a resolved graph as a manifest and, when a store is
// configured, saves it.
func (b *Builder) Record(ctx context.Context, doc *domain.Document, g *domain.Graph, overrides ...string) (*domain.Manifest, error) {
	text, err := compiler.Format(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to format document: %w", err)
	}

	nodes, order := domain.Summarize(doc, g)
	m := &domain.Manifest{
		ID:        uuid.NewString(),
		Source:    doc.Source,
		CreatedAt: time.Now().UTC(),
		Seed:      g.Seed,
		Overrides: overrides,
		Document:  string(text),
		Order:     order,
		Nodes:     nodes,
	}

	if b.store != nil {
		if err := b.store.Save(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to save manifest: %w", err)
		}
		b.logger.Info("manifest saved", "id", m.ID, "source", m.Source)
	}
	return m, nil
}
