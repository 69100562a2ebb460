// Package dfs defines the error set and options shared by the depth-first
// order queries over a core.Graph.
package dfs

import (
	"context"
	"errors"
)

// Visitation states of a vertex during a depth-first walk.
const (
	White = iota // not visited yet
	Gray         // on the recursion stack
	Black        // fully explored
)

var (
	// ErrGraphNil is returned when a nil *core.Graph is passed in.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrCycleDetected indicates that a directed cycle was encountered.
	ErrCycleDetected = errors.New("dfs: cycle detected")

	// ErrVariableNotFound indicates the start variable does not exist.
	ErrVariableNotFound = errors.New("dfs: variable not found")
)

// TopoOption configures optional behavior for TopologicalSort.
type TopoOption func(*topoOptions)

// topoOptions holds settings for TopologicalSort, currently only cancellation.
type topoOptions struct {
	ctx context.Context // allows cancellation; defaults to Background
}

// defaultTopoOptions returns the default options (Background context).
func defaultTopoOptions() topoOptions {
	return topoOptions{ctx: context.Background()}
}

// WithCancelContext returns a TopoOption that sets the cancellation context.
// Passing a nil context has no effect.
func WithCancelContext(ctx context.Context) TopoOption {
	return func(o *topoOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
