package sem

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cgm/dataset"
)

// Regress fits y = b0 + Σ_j b_j·xs[j] by ordinary least squares and returns
// the coefficients [b0, b1, ...] and the maximum-likelihood residual variance
// RSS/n.
//
// Errors:
//   - ErrInsufficientData if len(y) < len(xs)+1.
//   - ErrSingular if the design matrix is rank deficient.
//
// Complexity: O(n·k²).
func Regress(y []float64, xs [][]float64) ([]float64, float64, error) {
	var (
		n = len(y)
		k = len(xs) + 1
		i int
		j int
	)
	if n < k || n == 0 {
		return nil, math.NaN(), ErrInsufficientData
	}

	X := mat.NewDense(n, k, nil)
	for i = 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j = range xs {
			X.Set(i, j+1, xs[j][i])
		}
	}
	Y := mat.NewVecDense(n, append([]float64(nil), y...))

	var beta mat.VecDense
	if err := beta.SolveVec(X, Y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, math.NaN(), fmt.Errorf("%w: condition %g", ErrSingular, float64(cond))
		}
		return nil, math.NaN(), fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var fit mat.VecDense
	fit.MulVec(X, &beta)
	res := make([]float64, n)
	floats.SubTo(res, y, fit.RawVector().Data)

	coefs := make([]float64, k)
	for j = 0; j < k; j++ {
		coefs[j] = beta.AtVec(j)
	}

	return coefs, floats.Dot(res, res) / float64(n), nil
}

// Estimate fits pm to data by maximum likelihood (one OLS regression per
// node on its parents). Nodes whose regression cannot be solved get NaN
// parameters.
func Estimate(pm *Pm, data *dataset.Dataset) (*Im, error) {
	cols := make([][]float64, pm.NumNodes())
	var err error
	for i := range cols {
		name := pm.Node(i).Name
		if cols[i], err = data.Floats(name); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrColumnMissing, name, err)
		}
	}

	m, err := newIm(pm, math.NaN())
	if err != nil {
		return nil, err
	}
	for i := 0; i < pm.NumNodes(); i++ {
		xs := make([][]float64, len(pm.parents[i]))
		for k, p := range pm.parents[i] {
			xs[k] = cols[p]
		}
		coefs, resVar, rerr := Regress(cols[i], xs)
		if rerr != nil {
			continue
		}
		_ = m.params.Set(i, 0, 0, slotIntercept, coefs[0])
		_ = m.params.Set(i, 0, 0, slotErrVar, resVar)
		for k := range pm.parents[i] {
			_ = m.params.Set(i, 0, 0, slotCoef+k, coefs[k+1])
		}
	}

	return m, nil
}
