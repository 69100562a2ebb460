// SPDX-License-Identifier: MIT
// File: properties.go
// Role: Degrees of freedom and fit statistics of a mixed structure.

package cg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/dataset"
)

// DegreesOfFreedom returns the closed-form free-parameter count of g:
//
//	Σ_v (k(k+1)/2 + 1)·R·C − 1 − (R − 1)
//
// where k is 1 for a continuous v plus its continuous-parent count, R the
// number of discrete-parent configurations and C the category count of v
// (1 when continuous). Category counts come from the data column of the
// same name when present, otherwise from the graph.
//
// Errors:
//   - ErrGraphNil, ErrNoCategories.
func DegreesOfFreedom(data *dataset.Dataset, g *core.Graph) (int, error) {
	if g == nil {
		return 0, ErrGraphNil
	}
	categories := func(v *core.Variable) (int, error) {
		if data != nil {
			if j, err := data.ColumnIndex(v.Name); err == nil {
				if dv, _ := data.Variable(j); dv.IsDiscrete() && dv.NumCategories() > 0 {
					return dv.NumCategories(), nil
				}
			}
		}
		if v.NumCategories() == 0 {
			return 0, fmt.Errorf("%w: %q", ErrNoCategories, v.Name)
		}

		return v.NumCategories(), nil
	}

	var dof int
	for _, v := range g.Variables() {
		parents, err := g.Parents(v.Name)
		if err != nil {
			return 0, err
		}
		k, r, c := 0, 1, 1
		if v.IsContinuous() {
			k = 1
		} else if c, err = categories(v); err != nil {
			return 0, err
		}
		for _, p := range parents {
			pv, _ := g.Variable(p)
			if pv.IsContinuous() {
				k++
				continue
			}
			n, err := categories(pv)
			if err != nil {
				return 0, err
			}
			r *= n
		}
		dof += (k*(k+1)/2+1)*r*c - 1 - (r - 1)
	}

	return dof, nil
}

// Properties holds the quantities fit statistics are computed from.
type Properties struct {
	DoF        int
	SampleSize int
}

// NewProperties computes the degrees of freedom of g and the record count
// of data.
func NewProperties(data *dataset.Dataset, g *core.Graph) (*Properties, error) {
	if data == nil {
		return nil, ErrNilModel
	}
	dof, err := DegreesOfFreedom(data, g)
	if err != nil {
		return nil, err
	}

	return &Properties{DoF: dof, SampleSize: data.NumRows()}, nil
}

// BIC returns 2·logLik − DoF·ln(N).
func (p *Properties) BIC(logLik float64) float64 {
	return 2*logLik - float64(p.DoF)*math.Log(float64(p.SampleSize))
}

// AIC returns 2·logLik − 2·DoF.
func (p *Properties) AIC(logLik float64) float64 {
	return 2*logLik - 2*float64(p.DoF)
}

// LogLikelihood returns Σ_records Σ_nodes log P(v | parents(v)) under im.
// Discrete-mixed nodes use the conditional of the child given its
// continuous parents:
//
//	P(c | row, x) ∝ p(c | row) · Π_k N(x_k; μ_{row,c,k}, σ_{row,c,k}).
//
// A category with probability zero contributes no density. Any undetermined
// parameter reached by a record makes the result NaN.
//
// Errors:
//   - ErrNilModel, ErrColumnMissing.
func LogLikelihood(im *Im, data *dataset.Dataset) (float64, error) {
	if im == nil || data == nil {
		return 0, ErrNilModel
	}
	pm := im.pm
	var total float64

	// categorical sub-model
	bp := pm.bayesPm
	for i := 0; i < bp.NumNodes(); i++ {
		if _, mixed := pm.discrete.Index(bp.Node(i).Name); mixed {
			continue
		}
		self, err := data.Ints(bp.Node(i).Name)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrColumnMissing, err)
		}
		cols, err := intColumns(data, bp.ParentNames(i))
		if err != nil {
			return 0, err
		}
		dims := bp.ParentDims(i)
		values := make([]int, len(dims))
		for rec := range self {
			p, err := im.bayesIm.Probability(i, rowOf(dims, cols, rec, values), self[rec])
			if err != nil {
				return 0, err
			}
			total += math.Log(p)
		}
	}

	// linear Gaussian sub-model
	sp := pm.semPm
	for i := 0; i < sp.NumNodes(); i++ {
		if _, mixed := pm.continuous.Index(sp.Node(i).Name); mixed {
			continue
		}
		self, err := data.Floats(sp.Node(i).Name)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrColumnMissing, err)
		}
		cols, err := floatColumns(data, sp.ParentNames(i))
		if err != nil {
			return 0, err
		}
		intercept, errVar, coefs, err := im.semIm.Equation(i)
		if err != nil {
			return 0, err
		}
		for rec := range self {
			mu := intercept
			for k := range cols {
				mu += coefs[k] * cols[k][rec]
			}
			total += distuv.Normal{Mu: mu, Sigma: math.Sqrt(errVar)}.LogProb(self[rec])
		}
	}

	// continuous-mixed
	for b, node := range pm.continuousNodes {
		self, err := data.Floats(node.Name)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrColumnMissing, err)
		}
		dcols, err := intColumns(data, node.DiscreteParents)
		if err != nil {
			return 0, err
		}
		ccols, err := floatColumns(data, node.ContinuousParents)
		if err != nil {
			return 0, err
		}
		values := make([]int, len(node.DiscreteParents))
		for rec := range self {
			lr, err := im.linearRow(b, rowOf(node.ParentDims, dcols, rec, values))
			if err != nil {
				return 0, err
			}
			mu := lr.intercept
			for k := range ccols {
				mu += lr.coefs[k+1] * ccols[k][rec]
			}
			total += distuv.Normal{Mu: mu, Sigma: lr.sigma}.LogProb(self[rec])
		}
	}

	// discrete-mixed
	for b, node := range pm.discreteNodes {
		self, err := data.Ints(node.Name)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrColumnMissing, err)
		}
		dcols, err := intColumns(data, node.DiscreteParents)
		if err != nil {
			return 0, err
		}
		ccols, err := floatColumns(data, node.ContinuousParents)
		if err != nil {
			return 0, err
		}
		values := make([]int, len(node.DiscreteParents))
		lw := make([]float64, node.NumCategories())
		for rec := range self {
			row := rowOf(node.ParentDims, dcols, rec, values)
			if self[rec] < 0 || self[rec] >= len(lw) {
				return 0, imErrorf("LogLikelihood", node.Name, row, self[rec], -1, ErrOutOfRange)
			}
			p, err := im.probs.Row(b, row)
			if err != nil {
				return 0, imErrorf("LogLikelihood", node.Name, row, -1, -1, ErrOutOfRange)
			}
			for c := range lw {
				lw[c] = math.Log(p[c])
				if p[c] == 0 {
					continue
				}
				for k := range ccols {
					mu, _ := im.dMeans.At(b, row, c, k)
					sd, _ := im.dStds.At(b, row, c, k)
					lw[c] += distuv.Normal{Mu: mu, Sigma: sd}.LogProb(ccols[k][rec])
				}
			}
			total += lw[self[rec]] - floats.LogSumExp(lw)
		}
	}

	return total, nil
}

func intColumns(data *dataset.Dataset, names []string) ([][]int, error) {
	out := make([][]int, len(names))
	var err error
	for k, n := range names {
		if out[k], err = data.Ints(n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrColumnMissing, err)
		}
	}

	return out, nil
}

func floatColumns(data *dataset.Dataset, names []string) ([][]float64, error) {
	out := make([][]float64, len(names))
	var err error
	for k, n := range names {
		if out[k], err = data.Floats(n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrColumnMissing, err)
		}
	}

	return out, nil
}
