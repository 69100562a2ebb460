// File: methods_edges.go
// Role: Directed edge lifecycle and parent/child queries.
// Determinism:
//   - Parents(), Children() and Edges() return name-sorted results.
// Concurrency:
//   - Mutations take the write lock; queries take the read lock.

package core

import (
	"fmt"
	"sort"
)

// Edge is a directed edge From → To between two variable names.
type Edge struct {
	From string
	To   string
}

// AddEdge inserts the directed edge from → to. Both endpoints must exist.
//
// Errors:
//   - ErrVariableNotFound if an endpoint is missing.
//   - ErrLoopNotAllowed if from == to.
//   - ErrDuplicateEdge if the edge already exists.
//
// Complexity: O(1).
func (g *Graph) AddEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkEndpointsLocked(from, to); err != nil {
		return err
	}
	if from == to {
		return fmt.Errorf("%w: %q", ErrLoopNotAllowed, from)
	}
	if _, ok := g.parents[to][from]; ok {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, from, to)
	}
	g.parents[to][from] = struct{}{}
	g.children[from][to] = struct{}{}

	return nil
}

// RemoveEdge deletes the directed edge from → to.
func (g *Graph) RemoveEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkEndpointsLocked(from, to); err != nil {
		return err
	}
	if _, ok := g.parents[to][from]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, from, to)
	}
	delete(g.parents[to], from)
	delete(g.children[from], to)

	return nil
}

// HasEdge reports whether the directed edge from → to exists.
func (g *Graph) HasEdge(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ps, ok := g.parents[to]
	if !ok {
		return false
	}
	_, ok = ps[from]

	return ok
}

// Parents returns the names of the parents of name, sorted ascending.
func (g *Graph) Parents(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ps, ok := g.parents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
	}

	return sortedKeys(ps), nil
}

// Children returns the names of the children of name, sorted ascending.
func (g *Graph) Children(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	cs, ok := g.children[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
	}

	return sortedKeys(cs), nil
}

// Edges returns every edge sorted by (From, To).
// Complexity: O(E log E).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Edge, 0)
	var from, to string
	for from = range g.children {
		for to = range g.children[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})

	return out
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var n int
	for _, cs := range g.children {
		n += len(cs)
	}

	return n
}

func (g *Graph) checkEndpointsLocked(from, to string) error {
	if _, ok := g.vars[from]; !ok {
		return fmt.Errorf("%w: %q", ErrVariableNotFound, from)
	}
	if _, ok := g.vars[to]; !ok {
		return fmt.Errorf("%w: %q", ErrVariableNotFound, to)
	}

	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
