// Package builtins provides the factories the hpgraph CLI and servers resolve
// documents against, and a small catalog of example recipes.
//
// The factories are deterministic stand-ins: nn.linear draws its weights from
// the build's seeded random source, optim.adam is lazy and is bound to a
// module only when the consumer calls it, and the objects they return expose
// their settings to dotted references (`!ref <model.n_params>`).
package builtins
