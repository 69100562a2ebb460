// SPDX-License-Identifier: MIT
// File: simulator.go
// Role: Forward sampling of a dataset from an Im.
// Determinism:
//   - Nodes are sampled in dfs.TopologicalSort order, records in index order,
//     from one random context; equal seeds give equal datasets.
// Policy:
//   - Undetermined (NaN) categorical rows are sampled uniformly.
//   - NaN continuous parameters propagate into the sampled values.

package cg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/cgm/bayes"
	"github.com/katalvlaran/cgm/dataset"
	"github.com/katalvlaran/cgm/dfs"
	"github.com/katalvlaran/cgm/rng"
)

// Simulate draws n records from im.
//
// The random context is WithRand if given, otherwise the Im's own context.
// With WithSeed the run uses that seed and the context is restored to its
// prior state afterwards, so the caller's stream is unaffected. Latent
// variables are dropped when WithLatent(false) is set.
//
// The returned dataset is named "sim-<uuid>".
//
// Errors:
//   - ErrNilModel, ErrBadSampleSize, ErrCyclic, or ctx.Err().
func Simulate(ctx context.Context, im *Im, n int, opts ...Option) (*dataset.Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := gatherOptions(opts...)
	if im == nil {
		return nil, ErrNilModel
	}

	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "cg.Simulate", trace.WithAttributes(
		attribute.String("cg.run_id", runID),
		attribute.Int("cg.records", n),
	))
	defer span.End()

	start := time.Now()
	data, err := simulate(ctx, im, n, o)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error("simulation failed", slog.String("run_id", runID), slog.String("error", err.Error()))
	} else {
		data.SetName("sim-" + runID)
		o.logger.Info("simulation finished",
			slog.String("run_id", runID),
			slog.Int("records", n),
			slog.Int("columns", data.NumColumns()),
			slog.Bool("seeded", o.seeded),
			slog.Duration("elapsed", elapsed))
	}
	if o.metrics != nil {
		rows := 0
		if err == nil {
			rows = n
		}
		o.metrics.RecordSimulation(elapsed, rows, err)
	}

	return data, err
}

func simulate(ctx context.Context, im *Im, n int, o Options) (*dataset.Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSampleSize, n)
	}
	order, err := dfs.TopologicalSort(im.pm.graph, dfs.WithCancelContext(ctx))
	if err != nil {
		if errors.Is(err, dfs.ErrCycleDetected) {
			cycle, _ := dfs.FindCycle(im.pm.graph)
			return nil, fmt.Errorf("%w: %s", ErrCyclic, strings.Join(cycle, " -> "))
		}
		return nil, err
	}

	vars := im.pm.graph.Variables()
	data, err := dataset.New(vars, n)
	if err != nil {
		return nil, err
	}

	r := o.rand
	if r == nil {
		r = im.rand
	}
	s := &sampler{im: im, data: data, r: r, o: o, ersatz: make(map[string][]float64)}
	run := func() error {
		for _, name := range order {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.column(name); err != nil {
				return err
			}
		}
		return nil
	}
	if o.seeded {
		err = r.WithSeed(o.seed, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}

	if o.includeLatent {
		return data, nil
	}
	measured := make([]string, 0, len(vars))
	for _, v := range vars {
		if !v.Latent {
			measured = append(measured, v.Name)
		}
	}

	return data.SubsetColumns(measured)
}

// sampler fills one dataset column at a time.
type sampler struct {
	im   *Im
	data *dataset.Dataset
	r    *rng.Context
	o    Options

	ersatz map[string][]float64 // continuous column → breakpoints
}

func (s *sampler) column(name string) error {
	pm := s.im.pm
	if b, ok := pm.discrete.Index(name); ok {
		return s.mixedDiscrete(b)
	}
	if b, ok := pm.continuous.Index(name); ok {
		return s.mixedContinuous(b)
	}
	if i, err := pm.bayesPm.NodeIndex(name); err == nil {
		return s.pureDiscrete(i)
	}
	i, err := pm.semPm.NodeIndex(name)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}

	return s.pureContinuous(i)
}

// rowOf returns the parent configuration of record i.
func rowOf(dims []int, cols [][]int, i int, values []int) int {
	for k := range cols {
		values[k] = cols[k][i]
	}

	return bayes.RowIndex(dims, values)
}

func (s *sampler) pureDiscrete(i int) error {
	bp := s.im.pm.bayesPm
	name := bp.Node(i).Name
	col, _ := s.data.ColumnIndex(name)
	cols, err := intColumns(s.data, bp.ParentNames(i))
	if err != nil {
		return err
	}
	dims := bp.ParentDims(i)
	values := make([]int, len(dims))
	cache := make(map[int]distuv.Categorical)

	for rec := 0; rec < s.data.NumRows(); rec++ {
		row := rowOf(dims, cols, rec, values)
		dist, ok := cache[row]
		if !ok {
			p, err := s.im.bayesIm.Row(i, row)
			if err != nil {
				return err
			}
			dist = s.categorical(name, p)
			cache[row] = dist
		}
		if err = s.data.SetInt(rec, col, int(dist.Rand())); err != nil {
			return err
		}
	}

	return nil
}

func (s *sampler) pureContinuous(i int) error {
	sp := s.im.pm.semPm
	col, _ := s.data.ColumnIndex(sp.Node(i).Name)
	cols, err := floatColumns(s.data, sp.ParentNames(i))
	if err != nil {
		return err
	}
	intercept, errVar, coefs, err := s.im.semIm.Equation(i)
	if err != nil {
		return err
	}
	sigma := math.Sqrt(errVar)

	for rec := 0; rec < s.data.NumRows(); rec++ {
		x := s.r.Normal(0, sigma) + intercept
		for k := range cols {
			x += coefs[k] * cols[k][rec]
		}
		if err = s.data.SetFloat(rec, col, x); err != nil {
			return err
		}
	}

	return nil
}

type linearRow struct {
	intercept float64
	sigma     float64
	coefs     []float64
}

func (s *sampler) mixedContinuous(b int) error {
	node := s.im.pm.continuousNodes[b]
	col, _ := s.data.ColumnIndex(node.Name)
	dcols, err := intColumns(s.data, node.DiscreteParents)
	if err != nil {
		return err
	}
	ccols, err := floatColumns(s.data, node.ContinuousParents)
	if err != nil {
		return err
	}
	values := make([]int, len(node.DiscreteParents))
	cache := make(map[int]linearRow)

	for rec := 0; rec < s.data.NumRows(); rec++ {
		row := rowOf(node.ParentDims, dcols, rec, values)
		lr, ok := cache[row]
		if !ok {
			if lr, err = s.im.linearRow(b, row); err != nil {
				return err
			}
			cache[row] = lr
		}
		x := s.r.Normal(0, lr.sigma) + lr.intercept
		for k := range ccols {
			x += lr.coefs[k+1] * ccols[k][rec]
		}
		if err = s.data.SetFloat(rec, col, x); err != nil {
			return err
		}
	}

	return nil
}

// linearRow returns the regression of continuous-mixed node b at row.
func (m *Im) linearRow(b, row int) (linearRow, error) {
	means, err := m.cMeans.Row(b, row)
	if err != nil {
		return linearRow{}, imErrorf("linearRow", m.pm.continuous.Name(b), row, 0, 0, ErrOutOfRange)
	}
	coefs, _ := m.coefs.Row(b, row)
	covars, _ := m.covars.Row(b, row)

	return linearRow{
		intercept: means[0] - weightedParents(coefs, means),
		sigma:     math.Sqrt(covars[0]),
		coefs:     append([]float64(nil), coefs...),
	}, nil
}

func (s *sampler) mixedDiscrete(b int) error {
	node := s.im.pm.discreteNodes[b]
	col, _ := s.data.ColumnIndex(node.Name)
	dcols, err := intColumns(s.data, node.DiscreteParents)
	if err != nil {
		return err
	}
	ccols, err := floatColumns(s.data, node.ContinuousParents)
	if err != nil {
		return err
	}
	bps := make([][]float64, len(node.ContinuousParents))
	for k, p := range node.ContinuousParents {
		bps[k] = s.breakpoints(p, ccols[k])
	}

	values := make([]int, len(node.DiscreteParents))
	bins := make([]int, len(node.ContinuousParents))
	cache := make(map[int]distuv.Categorical)

	for rec := 0; rec < s.data.NumRows(); rec++ {
		row := rowOf(node.ParentDims, dcols, rec, values)
		key := row
		for k := range ccols {
			bins[k] = binOf(bps[k], ccols[k][rec])
			key = key*(len(bps[k])+1) + bins[k]
		}
		dist, ok := cache[key]
		if !ok {
			w, err := s.im.mixedWeights(b, row, bins, bps)
			if err != nil {
				return err
			}
			dist = s.categorical(node.Name, w)
			cache[key] = dist
		}
		if err = s.data.SetInt(rec, col, int(dist.Rand())); err != nil {
			return err
		}
	}

	return nil
}

// mixedWeights returns the unnormalized category weights of discrete-mixed
// node b at row, given the bin of each continuous parent:
//
//	w_c = p(c | row) · Π_k P(bin_k | row, c)
//
// where P(bin | row, c) is the normal mass of the bin under the stored
// mean and standard deviation. Slots with an undetermined or non-positive
// spread do not contribute. Weights with no usable mass fall back to the
// plain row probabilities.
func (m *Im) mixedWeights(b, row int, bins []int, bps [][]float64) ([]float64, error) {
	node := m.pm.discreteNodes[b]
	p, err := m.probs.Row(b, row)
	if err != nil {
		return nil, imErrorf("mixedWeights", node.Name, row, -1, -1, ErrOutOfRange)
	}
	w := make([]float64, len(p))
	var c, k int
	for c = range p {
		w[c] = p[c]
		for k = range bins {
			mu, _ := m.dMeans.At(b, row, c, k)
			sd, _ := m.dStds.At(b, row, c, k)
			if math.IsNaN(mu) || math.IsNaN(sd) || sd <= 0 {
				continue
			}
			lo, hi := binEdges(bps[k], bins[k])
			g := distuv.Normal{Mu: mu, Sigma: sd}
			w[c] *= g.CDF(hi) - g.CDF(lo)
		}
	}
	if usable(w) {
		return w, nil
	}

	return append([]float64(nil), p...), nil
}

// usable reports whether w is a valid unnormalized distribution.
func usable(w []float64) bool {
	var sum float64
	for _, x := range w {
		if math.IsNaN(x) || x < 0 || math.IsInf(x, 0) {
			return false
		}
		sum += x
	}

	return sum > 0
}

// categorical returns a sampler over w bound to the run's source, falling
// back to uniform when w is undetermined.
func (s *sampler) categorical(node string, w []float64) distuv.Categorical {
	if !usable(w) {
		s.o.logger.Debug("undetermined distribution sampled uniformly", slog.String("node", node))
		w = make([]float64, len(w))
		for c := range w {
			w[c] = 1
		}
	}

	return distuv.NewCategorical(w, s.r.Source())
}
