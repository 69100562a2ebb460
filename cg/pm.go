// SPDX-License-Identifier: MIT
// File: pm.go
// Role: Parametric model (structure) of a CG graph.
// Determinism:
//   - Nodes, parents and rows are enumerated in name order.
//   - Random category counts are drawn in name order from one context.
// Concurrency:
//   - A Pm is immutable after NewPm; Recategorize returns a new one. A Pm
//     may be shared by any number of Ims and readers.

package cg

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/cgm/bayes"
	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/dfs"
	"github.com/katalvlaran/cgm/rng"
	"github.com/katalvlaran/cgm/sem"
)

// Role classifies a node by its own kind and the kinds of its parents.
type Role uint8

const (
	// Pure nodes have only same-kind parents and live in a sub-model.
	Pure Role = iota
	// MixedDiscrete nodes are discrete with at least one continuous parent.
	MixedDiscrete
	// MixedContinuous nodes are continuous with at least one discrete parent.
	MixedContinuous
)

// String returns "pure", "mixed-discrete" or "mixed-continuous".
func (r Role) String() string {
	switch r {
	case MixedDiscrete:
		return "mixed-discrete"
	case MixedContinuous:
		return "mixed-continuous"
	default:
		return "pure"
	}
}

// MixedNode describes one node of a mixed group.
//
// Rows enumerates the configurations of DiscreteParents with the first
// parent as the most significant digit (see bayes.RowIndex). Slot s of a
// discrete node refers to ContinuousParents[s]; slot 0 of a continuous node
// refers to the node itself and slot s ≥ 1 to ContinuousParents[s-1].
type MixedNode struct {
	Name              string
	Kind              core.Kind
	Categories        []string
	DiscreteParents   []string
	ParentDims        []int
	ContinuousParents []string
	Rows              int
}

// NumCategories returns the child's category count (1 for continuous nodes).
func (n MixedNode) NumCategories() int {
	if n.Kind == core.Continuous {
		return 1
	}

	return len(n.Categories)
}

// NumSlots returns the slot count of one (row, category) cell.
func (n MixedNode) NumSlots() int {
	if n.Kind == core.Continuous {
		return 1 + len(n.ContinuousParents)
	}

	return len(n.ContinuousParents)
}

func (n MixedNode) clone() MixedNode {
	n.Categories = append([]string(nil), n.Categories...)
	n.DiscreteParents = append([]string(nil), n.DiscreteParents...)
	n.ParentDims = append([]int(nil), n.ParentDims...)
	n.ContinuousParents = append([]string(nil), n.ContinuousParents...)

	return n
}

// Pm is the parametric model of a mixed graph: resolved categories, the
// classification of every node, the row layout of mixed nodes and the two
// pure sub-models (categorical over the discrete-only subgraph, linear
// Gaussian over the continuous-only subgraph).
//
// Mixed nodes also appear in the sub-model of their kind, with their
// cross-kind parents dropped. Simulate and LogLikelihood read mixed nodes
// from the mixed groups only.
type Pm struct {
	graph *core.Graph
	nodes *Registry
	roles []Role

	discrete        *Registry
	discreteNodes   []MixedNode
	continuous      *Registry
	continuousNodes []MixedNode

	bayesPm *bayes.Pm
	semPm   *sem.Pm

	params  []Parameter
	maxRows int
	acyclic bool
}

// NewPm builds the parametric model of g.
//
// Categories of every discrete node are resolved in this order:
//  1. same-name discrete node of WithPriorPm,
//  2. the categories declared on the variable,
//  3. a count drawn in WithCategoryBounds, named "0", "1", ...
//
// The input graph is not modified.
//
// Errors:
//   - ErrGraphNil, ErrNoCategories, ErrTooManyRows.
func NewPm(g *core.Graph, opts ...Option) (*Pm, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := gatherOptions(opts...)
	r := o.rand
	if r == nil {
		r = rng.New(rng.DefaultSeed)
	}

	// Stage 1: resolve categories on a private copy
	work := g.Clone()
	for _, v := range work.VariablesOfKind(core.Discrete) {
		cats, err := resolveCategories(v, o, r)
		if err != nil {
			return nil, err
		}
		if !sameStrings(cats, v.Categories) {
			if err = work.ReplaceVariable(v.WithCategories(cats)); err != nil {
				return nil, err
			}
		}
	}

	p := &Pm{
		graph:   work,
		nodes:   NewRegistry(work.Names()),
		maxRows: o.maxRows,
		acyclic: dfs.IsAcyclic(work),
	}

	// Stage 2: classify and lay out mixed nodes
	if err := p.classify(); err != nil {
		return nil, err
	}

	// Stage 3: pure sub-models
	if err := p.buildSubModels(); err != nil {
		return nil, err
	}

	// Stage 4: parameter catalog
	p.params = p.catalog()

	return p, nil
}

func resolveCategories(v *core.Variable, o Options, r *rng.Context) ([]string, error) {
	if o.priorPm != nil {
		if pv, err := o.priorPm.graph.Variable(v.Name); err == nil && pv.IsDiscrete() && pv.NumCategories() > 0 {
			return pv.Categories, nil
		}
	}
	if len(v.Categories) > 0 {
		return v.Categories, nil
	}
	if o.catBounds {
		n := r.IntBetween(o.catLow, o.catHigh)
		if n > 0 {
			cats := make([]string, n)
			for i := range cats {
				cats[i] = strconv.Itoa(i)
			}

			return cats, nil
		}
	}

	return nil, pmErrorf("NewPm", v.Name, ErrNoCategories)
}

func (p *Pm) classify() error {
	names := p.nodes.Names()
	p.roles = make([]Role, len(names))
	var dNames, cNames []string
	var dNodes, cNodes []MixedNode

	for i, name := range names {
		v, _ := p.graph.Variable(name)
		parents, err := p.graph.Parents(name)
		if err != nil {
			return err
		}
		node := MixedNode{Name: name, Kind: v.Kind, Categories: append([]string(nil), v.Categories...)}
		for _, pn := range parents {
			pv, _ := p.graph.Variable(pn)
			if pv.IsDiscrete() {
				node.DiscreteParents = append(node.DiscreteParents, pn)
				node.ParentDims = append(node.ParentDims, pv.NumCategories())
			} else {
				node.ContinuousParents = append(node.ContinuousParents, pn)
			}
		}

		switch {
		case v.IsDiscrete() && len(node.ContinuousParents) > 0:
			p.roles[i] = MixedDiscrete
		case v.IsContinuous() && len(node.DiscreteParents) > 0:
			p.roles[i] = MixedContinuous
		default:
			p.roles[i] = Pure
			continue
		}

		rows, ok := bayes.RowCount(node.ParentDims, p.maxRows)
		if !ok {
			return fmt.Errorf("%w: %q exceeds %d", ErrTooManyRows, name, p.maxRows)
		}
		node.Rows = rows
		if p.roles[i] == MixedDiscrete {
			dNames = append(dNames, name)
			dNodes = append(dNodes, node)
		} else {
			cNames = append(cNames, name)
			cNodes = append(cNodes, node)
		}
	}

	// names are sorted, so the node slices follow registry order
	p.discrete, p.discreteNodes = NewRegistry(dNames), dNodes
	p.continuous, p.continuousNodes = NewRegistry(cNames), cNodes

	return nil
}

func (p *Pm) buildSubModels() error {
	var dNames, cNames []string
	for _, v := range p.graph.Variables() {
		if v.IsDiscrete() {
			dNames = append(dNames, v.Name)
		} else {
			cNames = append(cNames, v.Name)
		}
	}

	dsub, err := p.graph.Subgraph(dNames)
	if err != nil {
		return err
	}
	if p.bayesPm, err = bayes.NewPm(dsub, p.maxRows); err != nil {
		if errors.Is(err, bayes.ErrTooManyRows) {
			return fmt.Errorf("%w: %v", ErrTooManyRows, err)
		}
		return err
	}

	csub, err := p.graph.Subgraph(cNames)
	if err != nil {
		return err
	}
	p.semPm, err = sem.NewPm(csub)

	return err
}

// Graph returns a copy of the graph with resolved categories.
func (p *Pm) Graph() *core.Graph { return p.graph.Clone() }

// Names returns every node name in ascending order.
func (p *Pm) Names() []string { return p.nodes.Names() }

// NumNodes returns the node count.
func (p *Pm) NumNodes() int { return p.nodes.Len() }

// Variable returns a copy of the named variable with resolved categories.
func (p *Pm) Variable(name string) (*core.Variable, error) {
	v, err := p.graph.Variable(name)
	if err != nil {
		return nil, pmErrorf("Variable", name, ErrNodeNotFound)
	}

	return v, nil
}

// Role returns the classification of the named node.
func (p *Pm) Role(name string) (Role, error) {
	i, ok := p.nodes.Index(name)
	if !ok {
		return Pure, pmErrorf("Role", name, ErrNodeNotFound)
	}

	return p.roles[i], nil
}

// IsAcyclic reports whether the graph has no directed cycle.
func (p *Pm) IsAcyclic() bool { return p.acyclic }

// MaxRows returns the parent-configuration cap the model was built with.
func (p *Pm) MaxRows() int { return p.maxRows }

// DiscreteNodes returns the discrete-mixed group in name order.
func (p *Pm) DiscreteNodes() []MixedNode { return cloneNodes(p.discreteNodes) }

// ContinuousNodes returns the continuous-mixed group in name order.
func (p *Pm) ContinuousNodes() []MixedNode { return cloneNodes(p.continuousNodes) }

// MixedNode returns the layout of a node of either mixed group.
//
// Errors:
//   - ErrNodeNotFound if the node does not exist.
//   - ErrNotMixed if the node is pure.
func (p *Pm) MixedNode(name string) (MixedNode, error) {
	if i, ok := p.discrete.Index(name); ok {
		return p.discreteNodes[i].clone(), nil
	}
	if i, ok := p.continuous.Index(name); ok {
		return p.continuousNodes[i].clone(), nil
	}
	if _, ok := p.nodes.Index(name); !ok {
		return MixedNode{}, pmErrorf("MixedNode", name, ErrNodeNotFound)
	}

	return MixedNode{}, pmErrorf("MixedNode", name, ErrNotMixed)
}

// NumRows returns the parent-configuration count of a node of any role.
func (p *Pm) NumRows(name string) (int, error) {
	if n, err := p.MixedNode(name); err == nil {
		return n.Rows, nil
	}
	if i, err := p.bayesPm.NodeIndex(name); err == nil {
		return p.bayesPm.NumRows(i), nil
	}
	if _, ok := p.nodes.Index(name); ok {
		return 1, nil
	}

	return 0, pmErrorf("NumRows", name, ErrNodeNotFound)
}

// BayesPm returns the categorical sub-model over the discrete-only subgraph.
func (p *Pm) BayesPm() *bayes.Pm { return p.bayesPm }

// SemPm returns the linear Gaussian sub-model over the continuous-only subgraph.
func (p *Pm) SemPm() *sem.Pm { return p.semPm }

// Recategorize returns a new Pm in which the discrete node name carries the
// given categories. Categories of other nodes are kept. The receiver and
// every Im built on it are left untouched; carry parameters over with
// NewIm(newPm, WithSeedIm(oldIm)).
//
// Errors:
//   - ErrNodeNotFound, ErrNotDiscrete, ErrNoCategories, ErrTooManyRows.
func (p *Pm) Recategorize(name string, categories []string) (*Pm, error) {
	v, err := p.graph.Variable(name)
	if err != nil {
		return nil, pmErrorf("Recategorize", name, ErrNodeNotFound)
	}
	if !v.IsDiscrete() {
		return nil, pmErrorf("Recategorize", name, ErrNotDiscrete)
	}
	if len(categories) == 0 {
		return nil, pmErrorf("Recategorize", name, ErrNoCategories)
	}

	g := p.graph.Clone()
	if err = g.ReplaceVariable(v.WithCategories(categories)); err != nil {
		return nil, err
	}

	return NewPm(g, WithMaxRows(p.maxRows))
}

func cloneNodes(in []MixedNode) []MixedNode {
	out := make([]MixedNode, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}

	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
