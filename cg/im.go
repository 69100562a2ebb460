// SPDX-License-Identifier: MIT
// File: im.go
// Role: Instantiated model (numeric parameters) of a Pm.
// Layout:
//   - Discrete-mixed node b:   probs {rows, cats, 1}, dMeans/dStds {rows, cats, k}
//     where k = len(ContinuousParents).
//   - Continuous-mixed node b: coefs/covars/cMeans/cStds/corrs {rows, 1, 1+k};
//     slot 0 is the node itself, slot s ≥ 1 the continuous parent s-1.
//     coefs[.][0] and corrs[.][0] are 1; covars[.][0] is the residual variance.
// Concurrency:
//   - An Im is not safe for concurrent mutation.

package cg

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/cgm/bayes"
	"github.com/katalvlaran/cgm/rng"
	"github.com/katalvlaran/cgm/sem"
	"github.com/katalvlaran/cgm/tensor"
)

// Im holds the numeric parameters of a Pm.
type Im struct {
	pm *Pm

	bayesIm *bayes.Im
	semIm   *sem.Im

	probs  *tensor.Arena
	dMeans *tensor.Arena
	dStds  *tensor.Arena

	coefs  *tensor.Arena
	covars *tensor.Arena
	cMeans *tensor.Arena
	cStds  *tensor.Arena
	corrs  *tensor.Arena

	rand          *rng.Context
	ranges        rng.Ranges
	mode          InitMode
	enforceBounds bool
	tolerance     float64
	logger        *slog.Logger
}

// NewIm allocates the parameters of pm and fills them according to
// WithInitMode (Manual by default). With WithSeedIm every row whose
// discrete-parent configuration maps exactly onto a row of the seed model is
// copied from it; all other rows keep their fresh values.
//
// The random context (WithRand, default seed 1) is retained by the Im and
// serves as the ambient state of later Simulate calls.
//
// Errors:
//   - ErrNilModel if pm is nil.
func NewIm(pm *Pm, opts ...Option) (*Im, error) {
	if pm == nil {
		return nil, ErrNilModel
	}
	o := gatherOptions(opts...)
	m, err := allocate(pm, o)
	if err != nil {
		return nil, err
	}

	// Stage 1: pure sub-models
	if o.mode == Random {
		if m.bayesIm, err = bayes.NewRandomIm(pm.bayesPm, m.rand); err != nil {
			return nil, err
		}
		if m.semIm, err = sem.NewRandomIm(pm.semPm, m.ranges, m.rand); err != nil {
			return nil, err
		}
	} else {
		if m.bayesIm, err = bayes.NewManualIm(pm.bayesPm); err != nil {
			return nil, err
		}
		if m.semIm, err = sem.NewManualIm(pm.semPm); err != nil {
			return nil, err
		}
	}

	// Stage 2: mixed groups
	var b, row int
	for b = range pm.discreteNodes {
		for row = 0; row < pm.discreteNodes[b].Rows; row++ {
			m.initDiscreteRow(b, row)
		}
	}
	for b = range pm.continuousNodes {
		for row = 0; row < pm.continuousNodes[b].Rows; row++ {
			m.initContinuousRow(b, row)
		}
	}

	// Stage 3: carry over matching rows
	if o.seedIm != nil {
		m.reseed(o.seedIm)
	}

	return m, nil
}

func allocate(pm *Pm, o Options) (*Im, error) {
	r := o.rand
	if r == nil {
		r = rng.New(rng.DefaultSeed)
	}
	m := &Im{
		pm:            pm,
		rand:          r,
		ranges:        o.ranges,
		mode:          o.mode,
		enforceBounds: o.enforceBounds,
		tolerance:     o.tolerance,
		logger:        o.logger,
	}

	nan := math.NaN()
	probShapes := make([]tensor.Shape, len(pm.discreteNodes))
	paramShapes := make([]tensor.Shape, len(pm.discreteNodes))
	for b, n := range pm.discreteNodes {
		probShapes[b] = tensor.Shape{Rows: n.Rows, Cols: n.NumCategories(), Slots: 1}
		paramShapes[b] = tensor.Shape{Rows: n.Rows, Cols: n.NumCategories(), Slots: n.NumSlots()}
	}
	contShapes := make([]tensor.Shape, len(pm.continuousNodes))
	for b, n := range pm.continuousNodes {
		contShapes[b] = tensor.Shape{Rows: n.Rows, Cols: 1, Slots: n.NumSlots()}
	}

	var err error
	if m.probs, err = tensor.NewArena(probShapes, nan); err != nil {
		return nil, err
	}
	if m.dMeans, err = tensor.NewArena(paramShapes, nan); err != nil {
		return nil, err
	}
	m.dStds = m.dMeans.Clone()
	if m.coefs, err = tensor.NewArena(contShapes, nan); err != nil {
		return nil, err
	}
	m.covars = m.coefs.Clone()
	m.cMeans = m.coefs.Clone()
	m.cStds = m.coefs.Clone()
	m.corrs = m.coefs.Clone()

	return m, nil
}

// initDiscreteRow fills every cell of one discrete-mixed row per the init mode.
func (m *Im) initDiscreteRow(b, row int) {
	node := m.pm.discreteNodes[b]
	if m.mode != Random {
		_ = m.probs.FillRow(b, row, math.NaN())
		_ = m.dMeans.FillRow(b, row, math.NaN())
		_ = m.dStds.FillRow(b, row, math.NaN())
		return
	}

	p, _ := m.probs.Row(b, row)
	bayes.RandomDistribution(p, m.rand)
	var c, s int
	for c = 0; c < node.NumCategories(); c++ {
		for s = 0; s < node.NumSlots(); s++ {
			_ = m.dMeans.Set(b, row, c, s, m.rand.Draw(m.ranges.Mean))
			_ = m.dStds.Set(b, row, c, s, math.Sqrt(math.Abs(m.rand.Draw(m.ranges.Variance))))
		}
	}
}

// initContinuousRow fills one continuous-mixed row. In Random mode the
// self statistics are derived from the drawn parent statistics so that
// the row describes one consistent linear Gaussian.
func (m *Im) initContinuousRow(b, row int) {
	node := m.pm.continuousNodes[b]
	if m.mode != Random {
		_ = m.coefs.FillRow(b, row, math.NaN())
		_ = m.covars.FillRow(b, row, math.NaN())
		_ = m.cMeans.FillRow(b, row, math.NaN())
		_ = m.cStds.FillRow(b, row, math.NaN())
		_ = m.corrs.FillRow(b, row, math.NaN())
		_ = m.coefs.Set(b, row, 0, 0, 1)
		_ = m.corrs.Set(b, row, 0, 0, 1)
		return
	}

	k := node.NumSlots()
	coef := make([]float64, k)
	std := make([]float64, k)
	coef[0] = 1
	var s int
	for s = 1; s < k; s++ {
		_ = m.cMeans.Set(b, row, 0, s, m.rand.Draw(m.ranges.Mean))
		std[s] = math.Sqrt(math.Abs(m.rand.Draw(m.ranges.Variance)))
		coef[s] = m.rand.Draw(m.ranges.Coef)
	}
	resVar := math.Abs(m.rand.Draw(m.ranges.Variance))
	total := resVar
	for s = 1; s < k; s++ {
		total += coef[s] * coef[s] * std[s] * std[s]
	}
	std[0] = math.Sqrt(total)

	_ = m.cMeans.Set(b, row, 0, 0, m.rand.Draw(m.ranges.Mean))
	_ = m.covars.Set(b, row, 0, 0, resVar)
	_ = m.corrs.Set(b, row, 0, 0, 1)
	for s = 0; s < k; s++ {
		_ = m.coefs.Set(b, row, 0, s, coef[s])
		_ = m.cStds.Set(b, row, 0, s, std[s])
		if s == 0 {
			continue
		}
		_ = m.covars.Set(b, row, 0, s, coef[s]*std[s]*std[s])
		_ = m.corrs.Set(b, row, 0, s, coef[s]*std[s]/std[0])
	}
}

// Pm returns the parametric model.
func (m *Im) Pm() *Pm { return m.pm }

// BayesIm returns the categorical sub-model parameters.
func (m *Im) BayesIm() *bayes.Im { return m.bayesIm }

// SemIm returns the linear Gaussian sub-model parameters.
func (m *Im) SemIm() *sem.Im { return m.semIm }

// Rand returns the ambient random context.
func (m *Im) Rand() *rng.Context { return m.rand }

// Clone returns a deep copy that shares the Pm and the random context.
func (m *Im) Clone() *Im {
	c := *m
	c.bayesIm = m.bayesIm.Clone()
	c.semIm = m.semIm.Clone()
	c.probs = m.probs.Clone()
	c.dMeans = m.dMeans.Clone()
	c.dStds = m.dStds.Clone()
	c.coefs = m.coefs.Clone()
	c.covars = m.covars.Clone()
	c.cMeans = m.cMeans.Clone()
	c.cStds = m.cStds.Clone()
	c.corrs = m.corrs.Clone()

	return &c
}

// CountNaN returns the undetermined cells of the discrete side (categorical
// sub-model and discrete-mixed group) and of the continuous side.
func (m *Im) CountNaN() (discrete, continuous int) {
	discrete = m.bayesIm.CountNaN() + m.probs.CountNaN() + m.dMeans.CountNaN() + m.dStds.CountNaN()
	continuous = m.semIm.CountNaN() + m.coefs.CountNaN() + m.covars.CountNaN() +
		m.cMeans.CountNaN() + m.cStds.CountNaN() + m.corrs.CountNaN()

	return discrete, continuous
}

// Equal reports whether o has the same layout and every parameter is within
// the Im's tolerance (NaN equals NaN).
func (m *Im) Equal(o *Im) bool { return m.EqualWithin(o, m.tolerance) }

// EqualWithin is Equal with an explicit tolerance.
func (m *Im) EqualWithin(o *Im, tol float64) bool {
	if o == nil {
		return false
	}
	if !m.bayesIm.Equal(o.bayesIm, tol) || !m.semIm.Equal(o.semIm, tol) {
		return false
	}
	pairs := [][2]*tensor.Arena{
		{m.probs, o.probs}, {m.dMeans, o.dMeans}, {m.dStds, o.dStds},
		{m.coefs, o.coefs}, {m.covars, o.covars}, {m.cMeans, o.cMeans},
		{m.cStds, o.cStds}, {m.corrs, o.corrs},
	}
	for _, p := range pairs {
		if !p[0].Equal(p[1], tol) {
			return false
		}
	}

	return true
}
