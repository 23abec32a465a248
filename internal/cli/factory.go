package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/internal/config"
	"github.com/aretw0/hpgraph/pkg/adapters/file"
	"github.com/aretw0/hpgraph/pkg/adapters/memory"
	"github.com/aretw0/hpgraph/pkg/adapters/redis"
	"github.com/aretw0/hpgraph/pkg/builtins"
	"github.com/aretw0/hpgraph/pkg/observability"
	"github.com/aretw0/hpgraph/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Env bundles what every command needs: settings, logger, store, recipe
// catalog and a Builder wired to them.
type Env struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   ports.ManifestStore
	Recipes ports.DocumentLoader
	Builder *hpgraph.Builder
	Metrics *observability.Metrics

	closers []func() error
}

// EnvOptions are the command-line settings that take precedence over the
// configuration file and environment.
type EnvOptions struct {
	ConfigPath string
	Debug      bool
	Store      string
	Seed       *int64
	// Registerer enables build metrics.
	Registerer prometheus.Registerer
}

// NewEnv loads the configuration and wires the Builder.
func NewEnv(opts EnvOptions) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	if opts.Store != "" {
		cfg.Store.Backend = opts.Store
	}
	if opts.Seed != nil {
		cfg.Seed = opts.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newEnv(cfg, opts.Registerer)
}

func newEnv(cfg *config.Config, reg prometheus.Registerer) (*Env, error) {
	logger, err := createLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg, Logger: logger}

	store, closer, err := OpenStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	env.Store = store
	if closer != nil {
		env.closers = append(env.closers, closer)
	}

	env.Recipes, err = OpenRecipes(cfg.Recipes)
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	hooks := observability.LogHooks(logger)
	if reg != nil {
		env.Metrics = observability.NewMetrics(reg)
		hooks = hooks.Merge(env.Metrics.Hooks())
	}

	builderOpts := []hpgraph.Option{
		hpgraph.WithLogger(logger),
		hpgraph.WithHooks(hooks),
	}
	if store != nil {
		builderOpts = append(builderOpts, hpgraph.WithStore(store))
	}
	if cfg.Seed != nil {
		builderOpts = append(builderOpts, hpgraph.WithSeed(*cfg.Seed))
	}
	env.Builder = hpgraph.New(builderOpts...)
	return env, nil
}

// Close releases the store connection, if any.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	e.closers = nil
	return errors.Join(errs...)
}

// OpenStore creates the configured manifest store. The returned closer may be nil.
func OpenStore(cfg config.Store) (ports.ManifestStore, func() error, error) {
	switch cfg.Backend {
	case config.StoreNone:
		return nil, nil, nil
	case config.StoreMemory:
		return memory.NewStore(), nil, nil
	case config.StoreFile:
		return file.New(cfg.Dir), nil, nil
	case config.StoreRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// OpenRecipes returns the recipe catalog: dir when set, the built-in recipes otherwise.
func OpenRecipes(dir string) (ports.DocumentLoader, error) {
	if dir != "" {
		return file.NewLoader(dir), nil
	}
	loader, err := builtins.Recipes()
	if err != nil {
		return nil, fmt.Errorf("built-in recipes: %w", err)
	}
	return loader, nil
}
