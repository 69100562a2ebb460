// File: methods_vertices.go
// Role: Variable lifecycle and lookups.
// Determinism:
//   - Variables() and Names() are always sorted by name.
// Concurrency:
//   - Mutations take the write lock; queries take the read lock.

package core

import (
	"fmt"
	"sort"
)

// AddVariable inserts v into the graph.
//
// Errors:
//   - ErrNilVariable, ErrEmptyName, ErrBadKind for malformed input.
//   - ErrDuplicateVariable if the name is taken.
//
// Complexity: O(1).
func (g *Graph) AddVariable(v *Variable) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addVariableLocked(v)
}

// addVariableLocked stores a private copy of v. Caller holds the write lock.
func (g *Graph) addVariableLocked(v *Variable) error {
	if err := v.validate(); err != nil {
		return err
	}
	if _, ok := g.vars[v.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, v.Name)
	}
	g.vars[v.Name] = v.Clone()
	g.parents[v.Name] = make(map[string]struct{})
	g.children[v.Name] = make(map[string]struct{})

	return nil
}

// ReplaceVariable swaps the stored definition of an existing variable while
// keeping its edges. The kind must not change.
//
// Complexity: O(1).
func (g *Graph) ReplaceVariable(v *Variable) error {
	if err := v.validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	old, ok := g.vars[v.Name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrVariableNotFound, v.Name)
	}
	if old.Kind != v.Kind {
		return fmt.Errorf("%w: %q %s -> %s", ErrKindChanged, v.Name, old.Kind, v.Kind)
	}
	g.vars[v.Name] = v.Clone()

	return nil
}

// RemoveVariable deletes the named variable and all incident edges.
//
// Complexity: O(deg(v)).
func (g *Graph) RemoveVariable(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.vars[name]; !ok {
		return fmt.Errorf("%w: %q", ErrVariableNotFound, name)
	}
	var p, c string
	for p = range g.parents[name] {
		delete(g.children[p], name)
	}
	for c = range g.children[name] {
		delete(g.parents[c], name)
	}
	delete(g.parents, name)
	delete(g.children, name)
	delete(g.vars, name)

	return nil
}

// HasVariable reports whether a variable with the given name exists.
func (g *Graph) HasVariable(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.vars[name]

	return ok
}

// Variable returns a copy of the named variable.
func (g *Graph) Variable(name string) (*Variable, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
	}

	return v.Clone(), nil
}

// Names returns all variable names in ascending order.
// Complexity: O(V log V).
func (g *Graph) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.namesLocked()
}

func (g *Graph) namesLocked() []string {
	names := make([]string, 0, len(g.vars))
	for name := range g.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Variables returns copies of all variables sorted by name.
// Complexity: O(V log V).
func (g *Graph) Variables() []*Variable {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := g.namesLocked()
	out := make([]*Variable, len(names))
	var i int
	for i = range names {
		out[i] = g.vars[names[i]].Clone()
	}

	return out
}

// VariablesOfKind returns copies of the variables of kind k, sorted by name.
func (g *Graph) VariablesOfKind(k Kind) []*Variable {
	all := g.Variables()
	out := make([]*Variable, 0, len(all))
	for _, v := range all {
		if v.Kind == k {
			out = append(out, v)
		}
	}

	return out
}

// VariableCount returns the number of variables.
func (g *Graph) VariableCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.vars)
}
