// File: ersatz.go
// Role: Equal-frequency discretization of continuous parents of discrete
// nodes during simulation.
// Determinism:
//   - Each continuous column is discretized once per run, when first needed,
//     with a bin count drawn from the run's random context.

package cg

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// breakpoints returns the sorted inner bin edges of the named column,
// computing and caching them on first use.
func (s *sampler) breakpoints(name string, col []float64) []float64 {
	if bp, ok := s.ersatz[name]; ok {
		return bp
	}
	bins := s.r.IntBetween(s.o.ersatzMin, s.o.ersatzMax)
	bp := quantileEdges(col, bins)
	s.ersatz[name] = bp

	s.o.logger.Debug("ersatz discretization",
		slog.String("variable", name),
		slog.Int("bins", len(bp)+1))
	if s.o.metrics != nil {
		s.o.metrics.RecordErsatz()
	}

	return bp
}

// quantileEdges returns bins-1 empirical quantiles of the non-NaN values of
// col. Duplicate edges are kept so the bin count stays fixed.
func quantileEdges(col []float64, bins int) []float64 {
	sorted := make([]float64, 0, len(col))
	for _, x := range col {
		if !math.IsNaN(x) {
			sorted = append(sorted, x)
		}
	}
	if len(sorted) == 0 || bins < 2 {
		return nil
	}
	sort.Float64s(sorted)

	edges := make([]float64, bins-1)
	for j := range edges {
		edges[j] = stat.Quantile(float64(j+1)/float64(bins), stat.Empirical, sorted, nil)
	}

	return edges
}

// binOf returns the number of edges strictly below x, so a value equal to
// an edge falls in the lower bin.
func binOf(edges []float64, x float64) int {
	return sort.SearchFloat64s(edges, x)
}

// binEdges returns the open interval of bin i, with infinite outer edges.
func binEdges(edges []float64, i int) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if i > 0 {
		lo = edges[i-1]
	}
	if i < len(edges) {
		hi = edges[i]
	}

	return lo, hi
}
