// SPDX-License-Identifier: MIT
// Package cg: sentinel error set.
// Structural and range violations are returned as these sentinels, wrapped
// at the detection site with the offending node, row, column and slot.
// Insufficient data is never an error: it is stored as NaN.

package cg

import (
	"errors"
	"fmt"
)

var (
	// ErrNilModel indicates a nil *Pm, *Im or *dataset.Dataset argument.
	ErrNilModel = errors.New("cg: nil model")

	// ErrGraphNil indicates a nil graph.
	ErrGraphNil = errors.New("cg: graph is nil")

	// ErrNoCategories indicates a discrete variable whose categories could not
	// be resolved (none declared, none inherited, none drawn).
	ErrNoCategories = errors.New("cg: discrete variable has no categories")

	// ErrNotDiscrete indicates a category operation on a continuous variable.
	ErrNotDiscrete = errors.New("cg: variable is not discrete")

	// ErrTooManyRows indicates a node whose parent configurations exceed the cap.
	ErrTooManyRows = errors.New("cg: too many parent configurations")

	// ErrNodeNotFound indicates a node name absent from the model.
	ErrNodeNotFound = errors.New("cg: node not found")

	// ErrNotMixed indicates a node that exists but is not in the requested
	// mixed group (discrete child with continuous parents, or continuous child
	// with discrete parents).
	ErrNotMixed = errors.New("cg: node is not in the requested mixed group")

	// ErrOutOfRange indicates a row, category or slot index outside the node's shape.
	ErrOutOfRange = errors.New("cg: index out of range")

	// ErrProbabilityDomain indicates a probability outside [0,1] that is not NaN.
	ErrProbabilityDomain = errors.New("cg: probability outside [0,1]")

	// ErrCorrelationDomain indicates a correlation outside [-1,1] that is not NaN.
	ErrCorrelationDomain = errors.New("cg: correlation outside [-1,1]")

	// ErrNegativeVariance indicates a negative variance or standard deviation
	// while bounds enforcement is active.
	ErrNegativeVariance = errors.New("cg: negative variance")

	// ErrCyclic indicates an operation that requires an acyclic graph.
	ErrCyclic = errors.New("cg: graph is cyclic")

	// ErrColumnMissing indicates a model variable absent from the dataset or
	// present with the wrong kind.
	ErrColumnMissing = errors.New("cg: dataset column missing")

	// ErrBadSampleSize indicates a non-positive simulation sample size.
	ErrBadSampleSize = errors.New("cg: sample size must be positive")
)

// imErrorf wraps an error with a uniform Im context and callsite indices.
func imErrorf(method, node string, row, col, slot int, err error) error {
	return fmt.Errorf("Im.%s(%s,%d,%d,%d): %w", method, node, row, col, slot, err)
}

// pmErrorf wraps an error with the Pm method and node name.
func pmErrorf(method, node string, err error) error {
	return fmt.Errorf("Pm.%s(%s): %w", method, node, err)
}
