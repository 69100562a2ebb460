package bayes

import "errors"

// Sentinel errors for the categorical model.
var (
	// ErrGraphNil indicates a nil graph.
	ErrGraphNil = errors.New("bayes: graph is nil")

	// ErrNotDiscrete indicates a continuous variable in a categorical model.
	ErrNotDiscrete = errors.New("bayes: variable is not discrete")

	// ErrNoCategories indicates a discrete variable with zero categories.
	ErrNoCategories = errors.New("bayes: variable has no categories")

	// ErrTooManyRows indicates a parent-configuration count above the cap.
	ErrTooManyRows = errors.New("bayes: too many parent configurations")

	// ErrNodeNotFound indicates a lookup by a name not in the model.
	ErrNodeNotFound = errors.New("bayes: node not found")

	// ErrOutOfRange indicates a node, row or category index out of bounds.
	ErrOutOfRange = errors.New("bayes: index out of range")

	// ErrProbabilityDomain indicates a probability outside [0,1] that is not NaN.
	ErrProbabilityDomain = errors.New("bayes: probability outside [0,1]")

	// ErrColumnMissing indicates a model variable absent from the dataset.
	ErrColumnMissing = errors.New("bayes: dataset column missing")

	// ErrCategoryMismatch indicates two tables with different category counts.
	ErrCategoryMismatch = errors.New("bayes: category count mismatch")
)
