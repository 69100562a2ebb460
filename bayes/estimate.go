package bayes

import (
	"fmt"
	"math"

	"github.com/katalvlaran/cgm/dataset"
)

// columns resolves the dataset columns of every node of pm.
func columns(pm *Pm, data *dataset.Dataset) ([][]int, error) {
	cols := make([][]int, pm.NumNodes())
	var err error
	for i := range cols {
		name := pm.Node(i).Name
		if cols[i], err = data.Ints(name); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrColumnMissing, name, err)
		}
	}

	return cols, nil
}

// Estimate fits pm to data by maximum likelihood: each probability is the
// relative frequency of the category among the rows matching the parent
// configuration. Configurations with no matching rows are NaN.
//
// Complexity: O(N · Σ parents + cells).
func Estimate(pm *Pm, data *dataset.Dataset) (*Im, error) {
	cols, err := columns(pm, data)
	if err != nil {
		return nil, err
	}
	m, err := newIm(pm, 0)
	if err != nil {
		return nil, err
	}

	var (
		i, k, row, cat, n int
		values            []int
	)
	n = data.NumRows()
	for i = 0; i < pm.NumNodes(); i++ {
		counts := make([]float64, pm.NumRows(i)*pm.NumCategories(i))
		dims := pm.parentDims[i]
		values = make([]int, len(dims))
		for row = 0; row < n; row++ {
			for k = range pm.parents[i] {
				values[k] = cols[pm.parents[i][k]][row]
			}
			r := RowIndex(dims, values)
			cat = cols[i][row]
			if r < 0 || cat < 0 || cat >= pm.NumCategories(i) {
				continue
			}
			counts[r*pm.NumCategories(i)+cat]++
		}

		for row = 0; row < pm.NumRows(i); row++ {
			var total float64
			for cat = 0; cat < pm.NumCategories(i); cat++ {
				total += counts[row*pm.NumCategories(i)+cat]
			}
			for cat = 0; cat < pm.NumCategories(i); cat++ {
				v := math.NaN()
				if total > 0 {
					v = counts[row*pm.NumCategories(i)+cat] / total
				}
				_ = m.probs.Set(i, row, cat, 0, v)
			}
		}
	}

	return m, nil
}
