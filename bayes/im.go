package bayes

import (
	"fmt"
	"math"

	"github.com/katalvlaran/cgm/rng"
	"github.com/katalvlaran/cgm/tensor"
)

// Im holds the conditional probability tables of a Pm.
// Block i of probs has shape {rows(i), categories(i), 1}.
type Im struct {
	pm    *Pm
	probs *tensor.Arena
}

func newIm(pm *Pm, fill float64) (*Im, error) {
	shapes := make([]tensor.Shape, pm.NumNodes())
	for i := range shapes {
		shapes[i] = tensor.Shape{Rows: pm.NumRows(i), Cols: pm.NumCategories(i), Slots: 1}
	}
	a, err := tensor.NewArena(shapes, fill)
	if err != nil {
		return nil, err
	}

	return &Im{pm: pm, probs: a}, nil
}

// NewManualIm returns an Im with every probability NaN ("not yet set").
func NewManualIm(pm *Pm) (*Im, error) { return newIm(pm, math.NaN()) }

// NewRandomIm returns an Im whose rows are random distributions drawn from r.
func NewRandomIm(pm *Pm, r *rng.Context) (*Im, error) {
	m, err := newIm(pm, 0)
	if err != nil {
		return nil, err
	}
	var i, row int
	for i = 0; i < pm.NumNodes(); i++ {
		for row = 0; row < pm.NumRows(i); row++ {
			if err = m.RandomizeRow(i, row, r); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// Pm returns the structure.
func (m *Im) Pm() *Pm { return m.pm }

// Probability returns P(node = cat | parents = row).
func (m *Im) Probability(node, row, cat int) (float64, error) {
	v, err := m.probs.At(node, row, cat, 0)
	if err != nil {
		return 0, fmt.Errorf("bayes: Probability: %w", ErrOutOfRange)
	}

	return v, nil
}

// SetProbability stores P(node = cat | parents = row). v must be NaN or in [0,1].
func (m *Im) SetProbability(node, row, cat int, v float64) error {
	if !math.IsNaN(v) && (v < 0 || v > 1) {
		return fmt.Errorf("bayes: SetProbability(%d,%d,%d)=%g: %w", node, row, cat, v, ErrProbabilityDomain)
	}
	if err := m.probs.Set(node, row, cat, 0, v); err != nil {
		return fmt.Errorf("bayes: SetProbability: %w", ErrOutOfRange)
	}

	return nil
}

// Row returns a copy of the distribution of node at row.
func (m *Im) Row(node, row int) ([]float64, error) {
	r, err := m.probs.Row(node, row)
	if err != nil {
		return nil, fmt.Errorf("bayes: Row: %w", ErrOutOfRange)
	}

	return append([]float64(nil), r...), nil
}

// RandomizeRow replaces the row with normalized uniform weights.
func (m *Im) RandomizeRow(node, row int, r *rng.Context) error {
	cells, err := m.probs.Row(node, row)
	if err != nil {
		return fmt.Errorf("bayes: RandomizeRow: %w", ErrOutOfRange)
	}
	RandomDistribution(cells, r)

	return nil
}

// RandomDistribution fills p with a random probability vector.
func RandomDistribution(p []float64, r *rng.Context) {
	var sum float64
	for k := range p {
		p[k] = r.Float64() + 1e-3
		sum += p[k]
	}
	for k := range p {
		p[k] /= sum
	}
}

// ClearRow sets every cell of the row to NaN.
func (m *Im) ClearRow(node, row int) error {
	if err := m.probs.FillRow(node, row, math.NaN()); err != nil {
		return fmt.Errorf("bayes: ClearRow: %w", ErrOutOfRange)
	}

	return nil
}

// CopyRow copies src's (srcNode, srcRow) distribution into (node, row).
// Both nodes must have the same number of categories.
func (m *Im) CopyRow(node, row int, src *Im, srcNode, srcRow int) error {
	from, err := src.probs.Row(srcNode, srcRow)
	if err != nil {
		return fmt.Errorf("bayes: CopyRow source: %w", ErrOutOfRange)
	}
	to, err := m.probs.Row(node, row)
	if err != nil {
		return fmt.Errorf("bayes: CopyRow target: %w", ErrOutOfRange)
	}
	if len(from) != len(to) {
		return fmt.Errorf("bayes: CopyRow %d vs %d: %w", len(from), len(to), ErrCategoryMismatch)
	}
	copy(to, from)

	return nil
}

// CountNaN returns the number of undetermined probabilities.
func (m *Im) CountNaN() int { return m.probs.CountNaN() }

// Clone returns a deep copy sharing the Pm.
func (m *Im) Clone() *Im { return &Im{pm: m.pm, probs: m.probs.Clone()} }

// Equal reports whether every probability differs by at most tol (NaN==NaN).
func (m *Im) Equal(o *Im, tol float64) bool {
	if o == nil {
		return false
	}

	return m.probs.Equal(o.probs, tol)
}
