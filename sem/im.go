package sem

import (
	"fmt"
	"math"

	"github.com/katalvlaran/cgm/dfs"
	"github.com/katalvlaran/cgm/rng"
	"github.com/katalvlaran/cgm/tensor"
)

// Slot layout of a node's block.
const (
	slotIntercept = 0
	slotErrVar    = 1
	slotCoef      = 2 // slotCoef+k holds the coefficient of parent k
)

// Im holds the numeric parameters of a Pm.
// Block i of params has shape {1, 1, 2+len(parents(i))}.
type Im struct {
	pm     *Pm
	params *tensor.Arena
}

func newIm(pm *Pm, fill float64) (*Im, error) {
	shapes := make([]tensor.Shape, pm.NumNodes())
	for i := range shapes {
		shapes[i] = tensor.Shape{Rows: 1, Cols: 1, Slots: slotCoef + len(pm.parents[i])}
	}
	a, err := tensor.NewArena(shapes, fill)
	if err != nil {
		return nil, err
	}

	return &Im{pm: pm, params: a}, nil
}

// NewManualIm returns an Im with every parameter NaN.
func NewManualIm(pm *Pm) (*Im, error) { return newIm(pm, math.NaN()) }

// NewRandomIm draws coefficients, intercepts and error variances from ranges.
func NewRandomIm(pm *Pm, ranges rng.Ranges, r *rng.Context) (*Im, error) {
	m, err := newIm(pm, 0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < pm.NumNodes(); i++ {
		m.randomizeNode(i, ranges, r)
	}

	return m, nil
}

func (m *Im) randomizeNode(i int, ranges rng.Ranges, r *rng.Context) {
	_ = m.params.Set(i, 0, 0, slotIntercept, r.Draw(ranges.Mean))
	_ = m.params.Set(i, 0, 0, slotErrVar, math.Abs(r.Draw(ranges.Variance)))
	for k := range m.pm.parents[i] {
		_ = m.params.Set(i, 0, 0, slotCoef+k, r.Draw(ranges.Coef))
	}
}

// Pm returns the structure.
func (m *Im) Pm() *Pm { return m.pm }

func (m *Im) edge(child, parent string) (int, int, error) {
	i, err := m.pm.NodeIndex(child)
	if err != nil {
		return 0, 0, err
	}
	j, err := m.pm.NodeIndex(parent)
	if err != nil {
		return 0, 0, err
	}
	for k, p := range m.pm.parents[i] {
		if p == j {
			return i, k, nil
		}
	}

	return 0, 0, fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, parent, child)
}

// Coefficient returns the coefficient of the edge parent → child.
func (m *Im) Coefficient(child, parent string) (float64, error) {
	i, k, err := m.edge(child, parent)
	if err != nil {
		return 0, err
	}

	return m.params.At(i, 0, 0, slotCoef+k)
}

// SetCoefficient stores the coefficient of the edge parent → child.
func (m *Im) SetCoefficient(child, parent string, v float64) error {
	i, k, err := m.edge(child, parent)
	if err != nil {
		return err
	}

	return m.params.Set(i, 0, 0, slotCoef+k, v)
}

// Intercept returns the intercept of the named node's equation.
func (m *Im) Intercept(node string) (float64, error) {
	i, err := m.pm.NodeIndex(node)
	if err != nil {
		return 0, err
	}

	return m.params.At(i, 0, 0, slotIntercept)
}

// SetIntercept stores the intercept of the named node's equation.
func (m *Im) SetIntercept(node string, v float64) error {
	i, err := m.pm.NodeIndex(node)
	if err != nil {
		return err
	}

	return m.params.Set(i, 0, 0, slotIntercept, v)
}

// ErrorVariance returns the error variance of the named node.
func (m *Im) ErrorVariance(node string) (float64, error) {
	i, err := m.pm.NodeIndex(node)
	if err != nil {
		return 0, err
	}

	return m.params.At(i, 0, 0, slotErrVar)
}

// SetErrorVariance stores the error variance; negative values are rejected.
func (m *Im) SetErrorVariance(node string, v float64) error {
	if v < 0 {
		return fmt.Errorf("sem: SetErrorVariance(%q)=%g: %w", node, v, ErrNegativeVariance)
	}
	i, err := m.pm.NodeIndex(node)
	if err != nil {
		return err
	}

	return m.params.Set(i, 0, 0, slotErrVar, v)
}

// Equation returns node i's intercept, error variance and coefficients
// (aligned with Pm.Parents(i)).
func (m *Im) Equation(i int) (intercept, errVar float64, coefs []float64, err error) {
	row, err := m.params.Row(i, 0)
	if err != nil {
		return 0, 0, nil, err
	}

	return row[slotIntercept], row[slotErrVar], append([]float64(nil), row[slotCoef:]...), nil
}

// Means returns the implied marginal mean of every node, by name.
//
// Errors:
//   - ErrCyclic if the graph has a directed cycle.
func (m *Im) Means() (map[string]float64, error) {
	order, err := dfs.TopologicalSort(m.pm.graph)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCyclic, err)
	}
	means := make(map[string]float64, len(order))
	for _, name := range order {
		i := m.pm.index[name]
		intercept, _, coefs, _ := m.Equation(i)
		mu := intercept
		for k, p := range m.pm.parents[i] {
			mu += coefs[k] * means[m.pm.nodes[p].Name]
		}
		means[name] = mu
	}

	return means, nil
}

// Reseed copies into m every parameter of old whose node (and, for
// coefficients, edge) exists in both models, matched by name. Parameters
// without a counterpart keep their current values.
func (m *Im) Reseed(old *Im) {
	if old == nil {
		return
	}
	for i, v := range m.pm.nodes {
		oi, ok := old.pm.index[v.Name]
		if !ok {
			continue
		}
		_ = m.params.CopyCell(old.params, oi, 0, 0, slotIntercept, i, 0, 0, slotIntercept)
		_ = m.params.CopyCell(old.params, oi, 0, 0, slotErrVar, i, 0, 0, slotErrVar)
		for k, p := range m.pm.parents[i] {
			name := m.pm.nodes[p].Name
			for ko, op := range old.pm.parents[oi] {
				if old.pm.nodes[op].Name == name {
					_ = m.params.CopyCell(old.params, oi, 0, 0, slotCoef+ko, i, 0, 0, slotCoef+k)
				}
			}
		}
	}
}

// Clone returns a deep copy sharing the Pm.
func (m *Im) Clone() *Im { return &Im{pm: m.pm, params: m.params.Clone()} }

// CountNaN returns the number of undetermined parameters.
func (m *Im) CountNaN() int { return m.params.CountNaN() }

// Equal reports whether every parameter differs by at most tol (NaN==NaN).
func (m *Im) Equal(o *Im, tol float64) bool {
	if o == nil {
		return false
	}

	return m.params.Equal(o.params, tol)
}
