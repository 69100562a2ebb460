package bayes

import (
	"fmt"

	"github.com/katalvlaran/cgm/core"
)

// DefaultMaxRows caps the number of parent configurations of a node.
const DefaultMaxRows = 1_000_000

// Pm is the structure of a categorical model over a discrete-only graph.
//
// Nodes are indexed in name order; each node's parents are indexed in name
// order as well, which fixes the row enumeration.
type Pm struct {
	graph      *core.Graph
	nodes      []*core.Variable
	index      map[string]int
	parents    [][]int
	parentDims [][]int
	rows       []int
}

// NewPm builds the structure of g. Every variable must be discrete with at
// least one category. maxRows <= 0 selects DefaultMaxRows.
//
// Errors:
//   - ErrGraphNil, ErrNotDiscrete, ErrNoCategories, ErrTooManyRows.
func NewPm(g *core.Graph, maxRows int) (*Pm, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	vars := g.Variables()
	p := &Pm{
		graph:      g.Clone(),
		nodes:      vars,
		index:      make(map[string]int, len(vars)),
		parents:    make([][]int, len(vars)),
		parentDims: make([][]int, len(vars)),
		rows:       make([]int, len(vars)),
	}
	var i int
	for i = range vars {
		if !vars[i].IsDiscrete() {
			return nil, fmt.Errorf("%w: %q", ErrNotDiscrete, vars[i].Name)
		}
		if vars[i].NumCategories() == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoCategories, vars[i].Name)
		}
		p.index[vars[i].Name] = i
	}

	// Stage 2: parents, dims and rows
	for i = range vars {
		names, err := g.Parents(vars[i].Name)
		if err != nil {
			return nil, err
		}
		p.parents[i] = make([]int, len(names))
		p.parentDims[i] = make([]int, len(names))
		for k, name := range names {
			p.parents[i][k] = p.index[name]
			p.parentDims[i][k] = vars[p.index[name]].NumCategories()
		}
		rows, ok := RowCount(p.parentDims[i], maxRows)
		if !ok {
			return nil, fmt.Errorf("%w: %q exceeds %d", ErrTooManyRows, vars[i].Name, maxRows)
		}
		p.rows[i] = rows
	}

	return p, nil
}

// Graph returns the graph the structure was built from. Treat it as read-only.
func (p *Pm) Graph() *core.Graph { return p.graph }

// NumNodes returns the number of nodes.
func (p *Pm) NumNodes() int { return len(p.nodes) }

// Node returns the variable of node i.
func (p *Pm) Node(i int) *core.Variable { return p.nodes[i] }

// Names returns node names in index order.
func (p *Pm) Names() []string {
	out := make([]string, len(p.nodes))
	for i, v := range p.nodes {
		out[i] = v.Name
	}

	return out
}

// NodeIndex returns the index of the named node.
func (p *Pm) NodeIndex(name string) (int, error) {
	i, ok := p.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}

	return i, nil
}

// Parents returns a copy of node i's parent indices.
func (p *Pm) Parents(i int) []int { return append([]int(nil), p.parents[i]...) }

// ParentNames returns node i's parent names, sorted.
func (p *Pm) ParentNames(i int) []string {
	out := make([]string, len(p.parents[i]))
	for k, j := range p.parents[i] {
		out[k] = p.nodes[j].Name
	}

	return out
}

// ParentDims returns a copy of the category counts of node i's parents.
func (p *Pm) ParentDims(i int) []int { return append([]int(nil), p.parentDims[i]...) }

// NumRows returns the number of parent configurations of node i.
func (p *Pm) NumRows(i int) int { return p.rows[i] }

// NumCategories returns the category count of node i.
func (p *Pm) NumCategories(i int) int { return p.nodes[i].NumCategories() }

// FreeParameters returns Σ rows·(categories−1).
func (p *Pm) FreeParameters() int {
	var n int
	for i := range p.nodes {
		n += p.rows[i] * (p.nodes[i].NumCategories() - 1)
	}

	return n
}
