// Package sem is the linear-Gaussian sub-model over a graph of continuous
// variables: one linear equation with Gaussian error per node.
//
// A Pm fixes node and parent order (by name). An Im stores intercepts, error
// variances and edge coefficients in a tensor.Arena, one block per node.
// Estimate fits every equation by OLS (gonum/mat); Regress is exported for
// callers that need the same fit on a row subset.
package sem
