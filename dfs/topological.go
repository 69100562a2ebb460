// Package dfs provides depth-first order queries on directed graphs,
// including topological sort.
//
// TopologicalSort computes a linear ordering of variables such that for
// every directed edge u→v, u appears before v in the ordering.
// If the graph contains a cycle, ErrCycleDetected is returned.
//
// Complexity:
//
//   - Time:   O(V + E log d) (children are visited in sorted order)
//   - Memory: O(V)           (recursion stack and state map)
package dfs

import (
	"fmt"

	"github.com/katalvlaran/cgm/core"
)

// topoSorter encapsulates state for a topological sort traversal.
type topoSorter struct {
	graph *core.Graph    // the graph being sorted
	opts  topoOptions    // traversal options (cancellation)
	state map[string]int // visitation state: White, Gray, Black
	order []string       // recorded post-order sequence
}

// TopologicalSort computes a topological ordering of all variables in g.
// If g is nil, returns ErrGraphNil.
// If a cycle is detected, returns an error wrapping ErrCycleDetected that
// names the variable where the back edge closed.
// You may pass WithCancelContext(ctx) to enable cancellation.
//
// Determinism: roots are taken in name order and children are explored in
// reverse name order, so ties resolve toward lexicographic order.
func TopologicalSort(g *core.Graph, options ...TopoOption) ([]string, error) {
	// 1. Validate graph pointer
	if g == nil {
		return nil, ErrGraphNil
	}
	// 2. Apply optional settings
	opts := defaultTopoOptions()
	for _, opt := range options {
		opt(&opts)
	}
	// 3. Initialize sorter state
	names := g.Names()
	sorter := &topoSorter{
		graph: g,
		opts:  opts,
		state: make(map[string]int, len(names)),
		order: make([]string, 0, len(names)),
	}
	// 4. Drive DFS from every unvisited variable, last name first so that the
	//    reversed post-order starts with the smallest root.
	var i int
	for i = len(names) - 1; i >= 0; i-- {
		if sorter.state[names[i]] == White {
			if err := sorter.visit(names[i]); err != nil {
				return nil, err
			}
		}
	}
	// 5. Reverse post-order to produce topological order
	for i, j := 0, len(sorter.order)-1; i < j; i, j = i+1, j-1 {
		sorter.order[i], sorter.order[j] = sorter.order[j], sorter.order[i]
	}

	return sorter.order, nil
}

// visit performs a DFS from name, marking states and detecting cycles.
func (t *topoSorter) visit(name string) error {
	// 1. Cancellation check at entry
	select {
	case <-t.opts.ctx.Done():
		return t.opts.ctx.Err()
	default:
	}
	// 2. Back edge into the recursion stack closes a cycle
	if t.state[name] == Gray {
		return fmt.Errorf("%w: through %q", ErrCycleDetected, name)
	}
	if t.state[name] == Black {
		return nil
	}
	t.state[name] = Gray

	// 3. Explore children, largest name first
	children, err := t.graph.Children(name)
	if err != nil {
		return err
	}
	var i int
	for i = len(children) - 1; i >= 0; i-- {
		if err = t.visit(children[i]); err != nil {
			return err
		}
	}

	// 4. Mark as fully explored and record in post-order
	t.state[name] = Black
	t.order = append(t.order, name)

	return nil
}

// IsAcyclic reports whether g has no directed cycle. A nil graph is acyclic.
func IsAcyclic(g *core.Graph) bool {
	if g == nil {
		return true
	}
	_, err := TopologicalSort(g)

	return err == nil
}
