package builtins

import (
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/aretw0/hpgraph/pkg/schema"
)

// Register adds every built-in factory to reg.
func Register(reg *registry.Registry) {
	registerMath(reg)
	registerText(reg)

	reg.Register("rand.uniform", uniform,
		registry.WithParams(schema.Schema{
			"low":  schema.Optional(schema.Float()),
			"high": schema.Optional(schema.Float()),
		}),
		registry.WithDoc("Draw a float in [low, high) from the build's random source."))

	reg.Register("nn.linear", newLinear,
		registry.WithParams(schema.Schema{
			"input_size": schema.Int(),
			"n_neurons":  schema.Int(),
			"bias":       schema.Optional(schema.Bool()),
		}),
		registry.WithDoc("Fully connected layer with seeded weights."))

	reg.Register("nn.sequential", newSequential,
		registry.WithParams(schema.Schema{}),
		registry.WithDoc("Stack the positional modules in order."))

	reg.Register("optim.adam", newAdam,
		registry.AsLazy(),
		registry.WithParams(schema.Schema{
			"params":       schema.Optional(schema.Any()),
			"lr":           schema.Float(),
			"betas":        schema.Optional(schema.Slice(schema.Float())),
			"eps":          schema.Optional(schema.Float()),
			"weight_decay": schema.Optional(schema.Float()),
		}),
		registry.WithDoc("Adam optimizer; called later with the module to optimize."))

	reg.Register("sched.noam", newNoam,
		registry.WithParams(schema.Schema{
			"lr_initial":     schema.Float(),
			"n_warmup_steps": schema.Int(),
			"model_size":     schema.Optional(schema.Int()),
		}),
		registry.WithDoc("Noam learning-rate schedule (warmup then inverse square root)."))

	reg.Register("ckpt.checkpointer", newCheckpointer,
		registry.WithParams(schema.Schema{
			"checkpoints_dir": schema.String(),
			"recoverables":    schema.Optional(schema.Map(schema.Any())),
		}),
		registry.WithDoc("Records where checkpoints go and which objects they hold."))
}

// NewRegistry returns a registry holding only the built-in factories.
func NewRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	Register(reg)
	return reg
}
