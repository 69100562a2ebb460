package cg

import "sort"

// Registry maps stable node names to dense indices within one structure.
// When an Im is seeded, mixed nodes and continuous-parent slots of the old
// and new layouts are paired by name through Correspond, never by pointer
// identity.
type Registry struct {
	names []string
	index map[string]int
}

// NewRegistry returns a registry over a sorted copy of names.
func NewRegistry(names []string) *Registry {
	r := &Registry{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	sort.Strings(r.names)
	for i, n := range r.names {
		r.index[n] = i
	}

	return r
}

// Len returns the number of names.
func (r *Registry) Len() int { return len(r.names) }

// Name returns the name at index i.
func (r *Registry) Name(i int) string { return r.names[i] }

// Names returns a copy of the names in index order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// Index returns the index of name.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.index[name]

	return i, ok
}

// Correspond returns, for every index of r, the index of the same name in
// old, or -1.
func (r *Registry) Correspond(old *Registry) []int {
	out := make([]int, len(r.names))
	for i, n := range r.names {
		out[i] = -1
		if old == nil {
			continue
		}
		if j, ok := old.index[n]; ok {
			out[i] = j
		}
	}

	return out
}
