// Package resolver plans and constructs the object graph of a document.
//
// Plan runs every check that does not need a factory (placeholders,
// references, targets, cycles, literal arguments) and fixes a deterministic
// construction order. Resolve then applies the seed node first and builds the
// remaining nodes one at a time, halting on the first error.
package resolver
