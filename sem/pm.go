package sem

import (
	"fmt"

	"github.com/katalvlaran/cgm/core"
)

// Pm is the structure of a linear-Gaussian model over a continuous-only graph.
// Each node i has the equation x_i = intercept_i + Σ_k coef_ik·x_parent(k) + e_i
// with e_i ~ N(0, errVar_i). Nodes and parents are in name order.
type Pm struct {
	graph   *core.Graph
	nodes   []*core.Variable
	index   map[string]int
	parents [][]int
}

// NewPm builds the structure of g. Every variable must be continuous.
func NewPm(g *core.Graph) (*Pm, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	vars := g.Variables()
	p := &Pm{
		graph:   g.Clone(),
		nodes:   vars,
		index:   make(map[string]int, len(vars)),
		parents: make([][]int, len(vars)),
	}
	for i, v := range vars {
		if !v.IsContinuous() {
			return nil, fmt.Errorf("%w: %q", ErrNotContinuous, v.Name)
		}
		p.index[v.Name] = i
	}
	for i, v := range vars {
		names, err := g.Parents(v.Name)
		if err != nil {
			return nil, err
		}
		p.parents[i] = make([]int, len(names))
		for k, name := range names {
			p.parents[i][k] = p.index[name]
		}
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

// FreeParameters returns the number of coefficients, intercepts and variances.
func (p *Pm) FreeParameters() int {
	n := 2 * len(p.nodes)
	for i := range p.parents {
		n += len(p.parents[i])
	}

	return n
}
