// Package cg implements Conditional Gaussian (CG) models over graphs that mix
// discrete and continuous variables.
//
// The cg package provides:
//
//   - Pm, the parametric model: category resolution, classification of every
//     node (pure, mixed-discrete, mixed-continuous), the row layout of the
//     mixed groups and the pure sub-models (bayes.Pm over the discrete-only
//     subgraph, sem.Pm over the continuous-only subgraph).
//   - Im, the instantiated model: probabilities, conditional moments,
//     coefficients and covariances held in flat tensor.Arena buffers, with
//     validated name-addressed accessors and reseeding from an older Im.
//   - Estimate, maximum-likelihood estimation from a dataset.Dataset.
//   - Simulate, forward sampling in topological order.
//   - DegreesOfFreedom, LogLikelihood and Properties for model scoring.
//
// Node classes:
//
//   - A discrete node with a continuous parent is mixed-discrete. Per parent
//     configuration (row) and category it stores P(category | row) and, for
//     each continuous parent, the mean and standard deviation of that parent
//     given (row, category).
//   - A continuous node with a discrete parent is mixed-continuous. Per row it
//     stores a linear regression on the continuous parents together with the
//     moments it was derived from. Slot 0 is the node itself.
//   - Every other node is pure and lives in one of the sub-models.
//
// Undetermined values:
//
// Rows or cells without supporting data are stored as NaN by Estimate; a NaN
// is never an error. Simulate samples an undetermined categorical row
// uniformly and lets NaN propagate through continuous equations.
//
// Randomness:
//
// All draws come from an injected rng.Context (WithRand). An Im keeps the
// context it was built with and Simulate uses it unless told otherwise.
// WithSeed runs a simulation on a fixed seed and restores the context state
// afterwards.
//
// Observability:
//
// Estimate and Simulate emit OpenTelemetry spans, log through log/slog
// (WithLogger) and record Prometheus metrics when WithMetrics is given.
//
// See the examples in this package for usage patterns.
package cg
