package sem

import "errors"

// Sentinel errors for the linear-Gaussian model.
var (
	// ErrGraphNil indicates a nil graph.
	ErrGraphNil = errors.New("sem: graph is nil")

	// ErrNotContinuous indicates a discrete variable in a linear-Gaussian model.
	ErrNotContinuous = errors.New("sem: variable is not continuous")

	// ErrNodeNotFound indicates a lookup by a name not in the model.
	ErrNodeNotFound = errors.New("sem: node not found")

	// ErrEdgeNotFound indicates a coefficient lookup for a missing edge.
	ErrEdgeNotFound = errors.New("sem: edge not found")

	// ErrNegativeVariance indicates an attempt to store a negative variance.
	ErrNegativeVariance = errors.New("sem: negative variance")

	// ErrColumnMissing indicates a model variable absent from the dataset.
	ErrColumnMissing = errors.New("sem: dataset column missing")

	// ErrCyclic indicates an operation that needs an acyclic graph.
	ErrCyclic = errors.New("sem: graph is cyclic")

	// ErrInsufficientData indicates fewer rows than regression coefficients.
	ErrInsufficientData = errors.New("sem: insufficient data")

	// ErrSingular indicates a rank-deficient design matrix.
	ErrSingular = errors.New("sem: singular design matrix")
)
