package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/schema"
)

// Mode tells the resolver what a `!new:` node on this factory produces.
type Mode int

const (
	// Eager factories run during resolution and their result is stored.
	Eager Mode = iota
	// Lazy factories are captured as partials and run later by a consumer.
	Lazy
)

func (m Mode) String() string {
	if m == Lazy {
		return "lazy"
	}
	return "eager"
}

// FactoryFunc builds one value from resolved arguments.
type FactoryFunc func(call *Call, args Args) (any, error)

// Factory is a registered target.
type Factory struct {
	Target string
	Mode   Mode
	// Params, when set, is validated strictly before Fn runs.
	Params schema.Schema
	Doc    string
	Fn     FactoryFunc
}

// FactoryOption configures a factory at registration.
type FactoryOption func(*Factory)

// AsLazy registers the factory in Lazy mode.
func AsLazy() FactoryOption {
	return func(f *Factory) { f.Mode = Lazy }
}

// WithParams declares the factory's named parameters.
func WithParams(params schema.Schema) FactoryOption {
	return func(f *Factory) { f.Params = params }
}

// WithDoc attaches a one-line description shown by `hpgraph targets`.
func WithDoc(doc string) FactoryOption {
	return func(f *Factory) { f.Doc = doc }
}

// Invoke validates args against the declared parameters and runs the factory.
func (f *Factory) Invoke(call *Call, args Args) (any, error) {
	if f.Params != nil {
		if err := schema.Validate(f.Params, args.Named, true); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrArgumentMismatch, err)
		}
	}
	return f.Fn(call, args)
}

// CheckPartial validates the arguments captured by a partial: those present
// must have the right type and none may be undeclared. Missing ones are
// expected to arrive with the call.
func (f *Factory) CheckPartial(named map[string]any) error {
	if f.Params == nil {
		return nil
	}
	if err := schema.ValidatePresent(f.Params, named); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrArgumentMismatch, err)
	}
	for _, name := range sortedKeys(named) {
		if _, ok := f.Params[name]; !ok {
			return fmt.Errorf("%w: %w", domain.ErrArgumentMismatch,
				&schema.ValidationError{Key: name, Reason: "unknown parameter", Value: named[name]})
		}
	}
	return nil
}

// Info describes a factory for listings.
type Info struct {
	Target string        `json:"target"`
	Mode   string        `json:"mode"`
	Params schema.Schema `json:"params,omitempty"`
	Doc    string        `json:"doc,omitempty"`
}

// Registry maps target identifiers to factories.
// Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]*Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]*Factory),
	}
}

// Register adds a factory to the registry.
// If a factory with the same target exists, it is overwritten.
func (r *Registry) Register(target string, fn FactoryFunc, opts ...FactoryOption) {
	f := &Factory{Target: target, Fn: fn}
	for _, opt := range opts {
		opt(f)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[target] = f
}

// Lookup returns the factory registered for target.
func (r *Registry) Lookup(target string) (*Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[target]
	return f, ok
}

// Targets returns every registered target, sorted.
func (r *Registry) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Describe lists every factory, sorted by target.
func (r *Registry) Describe() []Info {
	targets := r.Targets()
	out := make([]Info, 0, len(targets))
	for _, t := range targets {
		f, ok := r.Lookup(t)
		if !ok {
			continue
		}
		out = append(out, Info{Target: f.Target, Mode: f.Mode.String(), Params: f.Params, Doc: f.Doc})
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
