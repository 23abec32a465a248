/*
Package domain contains the core models of the hpgraph builder.

It defines what a configuration document looks like before resolution, what a
resolved graph looks like afterwards, and the error taxonomy shared by every
layer. This package is kept pure and free of I/O, following the same
hexagonal layout as the rest of the module: parsers, registries and stores
depend on domain, never the other way around.

# Key Entities

  - Document: ordered mapping from node name to Spec, as written in YAML.
  - Spec: one node before resolution (Literal, Sequence, Mapping, Reference,
    Template, Constructor, FunctionRef, Copy, Placeholder).
  - Graph: node name to constructed Value, tagged Eager or Deferred.
  - BuildError: the single error type returned by parsing and resolution.
  - Manifest: a persisted summary of one build.
*/
package domain
