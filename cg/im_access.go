// File: im_access.go
// Role: Name-addressed getters and setters of the mixed groups.
// Errors:
//   - ErrNodeNotFound if the node does not exist at all.
//   - ErrNotMixed if it exists but belongs to another group.
//   - ErrOutOfRange for a bad row, category or slot.
//   - ErrProbabilityDomain / ErrCorrelationDomain for out-of-domain values.
//   - ErrNegativeVariance for negative spreads while bounds are enforced.
// All errors carry "Im.Method(node,row,col,slot)" context.

package cg

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/cgm/tensor"
)

func (m *Im) discreteIndex(method, node string) (int, error) {
	if b, ok := m.pm.discrete.Index(node); ok {
		return b, nil
	}
	if _, ok := m.pm.nodes.Index(node); ok {
		return 0, imErrorf(method, node, -1, -1, -1, ErrNotMixed)
	}

	return 0, imErrorf(method, node, -1, -1, -1, ErrNodeNotFound)
}

func (m *Im) continuousIndex(method, node string) (int, error) {
	if b, ok := m.pm.continuous.Index(node); ok {
		return b, nil
	}
	if _, ok := m.pm.nodes.Index(node); ok {
		return 0, imErrorf(method, node, -1, -1, -1, ErrNotMixed)
	}

	return 0, imErrorf(method, node, -1, -1, -1, ErrNodeNotFound)
}

func (m *Im) get(a *tensor.Arena, method, node string, b, row, col, slot int) (float64, error) {
	v, err := a.At(b, row, col, slot)
	if err != nil {
		return 0, imErrorf(method, node, row, col, slot, ErrOutOfRange)
	}

	return v, nil
}

func (m *Im) set(a *tensor.Arena, method, node string, b, row, col, slot int, v float64) error {
	if err := a.Set(b, row, col, slot, v); err != nil {
		return imErrorf(method, node, row, col, slot, ErrOutOfRange)
	}

	return nil
}

func (m *Im) checkSpread(method, node string, row, col, slot int, v float64) error {
	if m.enforceBounds && v < 0 {
		return imErrorf(method, node, row, col, slot, ErrNegativeVariance)
	}

	return nil
}

// ---------- discrete-mixed group ----------

// DiscreteProbability returns P(node = cat | discrete parents = row).
func (m *Im) DiscreteProbability(node string, row, cat int) (float64, error) {
	b, err := m.discreteIndex("DiscreteProbability", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.probs, "DiscreteProbability", node, b, row, cat, 0)
}

// SetDiscreteProbability sets P(node = cat | row). v must be NaN or in [0,1].
func (m *Im) SetDiscreteProbability(node string, row, cat int, v float64) error {
	b, err := m.discreteIndex("SetDiscreteProbability", node)
	if err != nil {
		return err
	}
	if !math.IsNaN(v) && (v < 0 || v > 1) {
		return imErrorf("SetDiscreteProbability", node, row, cat, 0, ErrProbabilityDomain)
	}

	return m.set(m.probs, "SetDiscreteProbability", node, b, row, cat, 0, v)
}

// DiscreteDistribution returns a copy of the category distribution of row.
func (m *Im) DiscreteDistribution(node string, row int) ([]float64, error) {
	b, err := m.discreteIndex("DiscreteDistribution", node)
	if err != nil {
		return nil, err
	}
	p, err := m.probs.Row(b, row)
	if err != nil {
		return nil, imErrorf("DiscreteDistribution", node, row, -1, -1, ErrOutOfRange)
	}

	return append([]float64(nil), p...), nil
}

// DiscreteMean returns the mean of continuous parent slot given (row, cat).
func (m *Im) DiscreteMean(node string, row, cat, slot int) (float64, error) {
	b, err := m.discreteIndex("DiscreteMean", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.dMeans, "DiscreteMean", node, b, row, cat, slot)
}

// SetDiscreteMean sets the mean of continuous parent slot given (row, cat).
func (m *Im) SetDiscreteMean(node string, row, cat, slot int, v float64) error {
	b, err := m.discreteIndex("SetDiscreteMean", node)
	if err != nil {
		return err
	}

	return m.set(m.dMeans, "SetDiscreteMean", node, b, row, cat, slot, v)
}

// DiscreteStd returns the standard deviation of continuous parent slot
// given (row, cat).
func (m *Im) DiscreteStd(node string, row, cat, slot int) (float64, error) {
	b, err := m.discreteIndex("DiscreteStd", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.dStds, "DiscreteStd", node, b, row, cat, slot)
}

// SetDiscreteStd sets the standard deviation of continuous parent slot
// given (row, cat).
func (m *Im) SetDiscreteStd(node string, row, cat, slot int, v float64) error {
	b, err := m.discreteIndex("SetDiscreteStd", node)
	if err != nil {
		return err
	}
	if err = m.checkSpread("SetDiscreteStd", node, row, cat, slot, v); err != nil {
		return err
	}

	return m.set(m.dStds, "SetDiscreteStd", node, b, row, cat, slot, v)
}

// ---------- continuous-mixed group ----------

// Coefficient returns the regression coefficient of slot (1 for slot 0).
func (m *Im) Coefficient(node string, row, slot int) (float64, error) {
	b, err := m.continuousIndex("Coefficient", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.coefs, "Coefficient", node, b, row, 0, slot)
}

// SetCoefficient sets the regression coefficient of a parent slot.
func (m *Im) SetCoefficient(node string, row, slot int, v float64) error {
	b, err := m.continuousIndex("SetCoefficient", node)
	if err != nil {
		return err
	}

	return m.set(m.coefs, "SetCoefficient", node, b, row, 0, slot, v)
}

// Covariance returns the residual variance (slot 0) or the covariance of
// the node with a parent slot.
func (m *Im) Covariance(node string, row, slot int) (float64, error) {
	b, err := m.continuousIndex("Covariance", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.covars, "Covariance", node, b, row, 0, slot)
}

// SetCovariance sets the residual variance (slot 0) or a parent covariance.
// A negative residual variance is rejected while bounds are enforced.
func (m *Im) SetCovariance(node string, row, slot int, v float64) error {
	b, err := m.continuousIndex("SetCovariance", node)
	if err != nil {
		return err
	}
	if slot == 0 {
		if err = m.checkSpread("SetCovariance", node, row, 0, slot, v); err != nil {
			return err
		}
	}

	return m.set(m.covars, "SetCovariance", node, b, row, 0, slot, v)
}

// Mean returns the mean of the node (slot 0) or of a parent slot given row.
func (m *Im) Mean(node string, row, slot int) (float64, error) {
	b, err := m.continuousIndex("Mean", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.cMeans, "Mean", node, b, row, 0, slot)
}

// SetMean sets the mean of the node (slot 0) or of a parent slot.
func (m *Im) SetMean(node string, row, slot int, v float64) error {
	b, err := m.continuousIndex("SetMean", node)
	if err != nil {
		return err
	}

	return m.set(m.cMeans, "SetMean", node, b, row, 0, slot, v)
}

// Std returns the standard deviation of the node (slot 0) or a parent slot.
func (m *Im) Std(node string, row, slot int) (float64, error) {
	b, err := m.continuousIndex("Std", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.cStds, "Std", node, b, row, 0, slot)
}

// SetStd sets the standard deviation of the node (slot 0) or a parent slot.
func (m *Im) SetStd(node string, row, slot int, v float64) error {
	b, err := m.continuousIndex("SetStd", node)
	if err != nil {
		return err
	}
	if err = m.checkSpread("SetStd", node, row, 0, slot, v); err != nil {
		return err
	}

	return m.set(m.cStds, "SetStd", node, b, row, 0, slot, v)
}

// Correlation returns the correlation of the node with a parent slot
// (1 for slot 0).
func (m *Im) Correlation(node string, row, slot int) (float64, error) {
	b, err := m.continuousIndex("Correlation", node)
	if err != nil {
		return 0, err
	}

	return m.get(m.corrs, "Correlation", node, b, row, 0, slot)
}

// SetCorrelation sets the correlation with a parent slot. v must be NaN or
// in [-1,1].
func (m *Im) SetCorrelation(node string, row, slot int, v float64) error {
	b, err := m.continuousIndex("SetCorrelation", node)
	if err != nil {
		return err
	}
	if !math.IsNaN(v) && (v < -1 || v > 1) {
		return imErrorf("SetCorrelation", node, row, 0, slot, ErrCorrelationDomain)
	}

	return m.set(m.corrs, "SetCorrelation", node, b, row, 0, slot, v)
}

// Intercept returns mean(self) − Σ_s coef_s·mean_s for row.
//
// Errors:
//   - ErrCyclic if the graph is not acyclic.
func (m *Im) Intercept(node string, row int) (float64, error) {
	b, err := m.continuousIndex("Intercept", node)
	if err != nil {
		return 0, err
	}
	if !m.pm.acyclic {
		return 0, imErrorf("Intercept", node, row, 0, 0, ErrCyclic)
	}
	means, err := m.cMeans.Row(b, row)
	if err != nil {
		return 0, imErrorf("Intercept", node, row, 0, 0, ErrOutOfRange)
	}
	coefs, _ := m.coefs.Row(b, row)

	return means[0] - weightedParents(coefs, means), nil
}

// SetIntercept stores x by setting mean(self) = x + Σ_s coef_s·mean_s, so
// that Intercept returns x afterwards.
//
// Errors:
//   - ErrCyclic if the graph is not acyclic.
func (m *Im) SetIntercept(node string, row int, x float64) error {
	b, err := m.continuousIndex("SetIntercept", node)
	if err != nil {
		return err
	}
	if !m.pm.acyclic {
		return imErrorf("SetIntercept", node, row, 0, 0, ErrCyclic)
	}
	means, err := m.cMeans.Row(b, row)
	if err != nil {
		return imErrorf("SetIntercept", node, row, 0, 0, ErrOutOfRange)
	}
	coefs, _ := m.coefs.Row(b, row)
	means[0] = x + weightedParents(coefs, means)

	return nil
}

// weightedParents returns Σ_{s≥1} coefs[s]·values[s].
func weightedParents(coefs, values []float64) float64 {
	if len(coefs) < 2 {
		return 0
	}

	return floats.Dot(coefs[1:], values[1:])
}
