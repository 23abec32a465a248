/*
Package hpgraph builds object graphs from declarative YAML hyperparameter files.

A document is a mapping of named nodes. Plain values are literals; tagged
values reference other nodes or construct objects through factories looked
up by name in a registry. The builder orders the nodes so that every node is
constructed after the nodes it references, and returns the finished graph or
the first error, never a partial graph.

# Tags

  - !ref <name>, !ref <name.field[0]>: the value of another node, or a value inside it.
  - !ref <folder>/save, !ref <d_model> * 4: string interpolation, or arithmetic when the text is only numbers and operators.
  - !new:target, !apply:target: call a factory with the node's arguments.
  - !name:target: a partially applied factory, called later by the consumer.
  - !copy <name>: an independent copy of another node's value.
  - !seed 1234: the random seed, applied before any other node.
  - !PLACEHOLDER: a value that must be supplied through an override.

Lazy factories (registered with registry.AsLazy) behave like !name: when used
with !new:. Their nodes resolve to domain.Deferred values.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/hpgraph"
	)

	func main() {
		b := hpgraph.New() // built-in factories

		doc, err := b.Load("train.yaml", "data_folder: /data/librispeech")
		if err != nil {
			log.Fatal(err)
		}

		g, err := b.Resolve(context.Background(), doc)
		if err != nil {
			log.Fatal(err) // *domain.BuildError: errors.Is(err, domain.ErrCyclicReference), ...
		}

		model, _ := g.Get("model")
		fmt.Println(model)
	}

# Errors

Every failure is a *domain.BuildError naming the offending node. Its kind is
one of domain.ErrParse, ErrUnknownReference, ErrCyclicReference,
ErrUnknownTarget, ErrArgumentMismatch, ErrMissingPlaceholder or
ErrConstruction, and can be tested with errors.Is.
*/
package hpgraph
