// Package rng wraps a PCG generator from golang.org/x/exp/rand in an explicit
// Context that is passed to whatever needs randomness.
//
// There is no package-level generator. A seeded run uses WithSeed, which
// snapshots the state, reseeds, runs, and restores, so callers sharing the
// Context see an undisturbed sequence afterwards.
//
// Gaussian and uniform deviates come from gonum's distuv distributions
// drawing from the Context's source.
package rng
