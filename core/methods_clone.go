// File: methods_clone.go
// Role: Cloning and induced subgraphs.
// Concurrency:
//   - Read lock on the source while snapshotting; the result is independent.

package core

import "fmt"

// Clone returns a deep copy of the Graph: variables and edges.
//
// Complexity: O(V + E).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := NewGraph()
	var (
		name, p string
		v       *Variable
	)
	for name, v = range g.vars {
		clone.vars[name] = v.Clone()
		clone.parents[name] = make(map[string]struct{}, len(g.parents[name]))
		clone.children[name] = make(map[string]struct{}, len(g.children[name]))
	}
	for name = range g.parents {
		for p = range g.parents[name] {
			clone.parents[name][p] = struct{}{}
			clone.children[p][name] = struct{}{}
		}
	}

	return clone
}

// Subgraph returns the subgraph induced by names: those variables and every
// edge whose endpoints are both in the set.
//
// Errors:
//   - ErrVariableNotFound if any name is missing.
//
// Complexity: O(|names| + E_induced).
func (g *Graph) Subgraph(names []string) (*Graph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keep := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := g.vars[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
		}
		keep[name] = struct{}{}
	}

	sub := NewGraph()
	var name, p string
	for name = range keep {
		sub.vars[name] = g.vars[name].Clone()
		sub.parents[name] = make(map[string]struct{})
		sub.children[name] = make(map[string]struct{})
	}
	for name = range keep {
		for p = range g.parents[name] {
			if _, ok := keep[p]; !ok {
				continue
			}
			sub.parents[name][p] = struct{}{}
			sub.children[p][name] = struct{}{}
		}
	}

	return sub, nil
}
