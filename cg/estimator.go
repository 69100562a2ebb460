// SPDX-License-Identifier: MIT
// File: estimator.go
// Role: Maximum-likelihood estimation of an Im from a mixed dataset.
// Policy:
//   - A (row, category) or row with no supporting records is left NaN;
//     estimation never fails for lack of data.
// Stages:
//  1. validate columns,
//  2. estimate the pure sub-models on their column projections,
//  3. discrete-mixed nodes: conditional frequencies and per-cell moments,
//  4. continuous-mixed nodes: per-row moments and OLS coefficients.

package cg

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/cgm/bayes"
	"github.com/katalvlaran/cgm/dataset"
	"github.com/katalvlaran/cgm/sem"
)

var tracer = otel.Tracer("github.com/katalvlaran/cgm/cg")

// Estimate returns the maximum-likelihood Im of pm for data. Every pm node
// must be a column of data with the same kind; extra columns are ignored.
//
// Errors:
//   - ErrNilModel, ErrColumnMissing, or ctx.Err() when cancelled between nodes.
func Estimate(ctx context.Context, pm *Pm, data *dataset.Dataset, opts ...Option) (*Im, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := gatherOptions(opts...)
	if pm == nil || data == nil {
		return nil, ErrNilModel
	}

	ctx, span := tracer.Start(ctx, "cg.Estimate", trace.WithAttributes(
		attribute.Int("cg.nodes", pm.NumNodes()),
		attribute.Int("cg.records", data.NumRows()),
	))
	defer span.End()

	start := time.Now()
	im, err := estimate(ctx, pm, data, o)
	elapsed := time.Since(start)

	var nanD, nanC int
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Error("estimation failed", slog.String("error", err.Error()))
	} else {
		nanD, nanC = im.CountNaN()
		span.SetAttributes(attribute.Int("cg.nan_discrete", nanD), attribute.Int("cg.nan_continuous", nanC))
		o.logger.Info("estimation finished",
			slog.Int("nodes", pm.NumNodes()),
			slog.Int("records", data.NumRows()),
			slog.Int("nan_discrete", nanD),
			slog.Int("nan_continuous", nanC),
			slog.Duration("elapsed", elapsed))
	}
	if o.metrics != nil {
		o.metrics.RecordEstimation(elapsed, nanD, nanC, err)
	}

	return im, err
}

func estimate(ctx context.Context, pm *Pm, data *dataset.Dataset, o Options) (*Im, error) {
	// Stage 1: columns
	for _, name := range pm.Names() {
		v, _ := pm.graph.Variable(name)
		j, err := data.ColumnIndex(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrColumnMissing, name)
		}
		dv, _ := data.Variable(j)
		if dv.Kind != v.Kind {
			return nil, fmt.Errorf("%w: %q is %s in data, %s in model", ErrColumnMissing, name, dv.Kind, v.Kind)
		}
	}

	im, err := NewIm(pm,
		WithInitMode(Manual),
		WithRand(o.rand),
		WithRanges(o.ranges),
		WithEnforceBounds(o.enforceBounds),
		WithTolerance(o.tolerance),
		WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	// Stage 2: pure sub-models
	dsub, err := data.SubsetColumns(pm.bayesPm.Names())
	if err != nil {
		return nil, err
	}
	if im.bayesIm, err = bayes.Estimate(pm.bayesPm, dsub); err != nil {
		return nil, err
	}
	csub, err := data.SubsetColumns(pm.semPm.Names())
	if err != nil {
		return nil, err
	}
	if im.semIm, err = sem.Estimate(pm.semPm, csub); err != nil {
		return nil, err
	}

	// Stage 3: discrete-mixed
	for b := range pm.discreteNodes {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if err = im.estimateDiscrete(b, data); err != nil {
			return nil, err
		}
	}

	// Stage 4: continuous-mixed
	for b := range pm.continuousNodes {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if err = im.estimateContinuous(b, data); err != nil {
			return nil, err
		}
	}

	return im, nil
}

// configurations returns the parent-configuration row of every record, or -1
// where a parent value is out of range.
func configurations(data *dataset.Dataset, parents []string, dims []int) ([]int, error) {
	cols := make([][]int, len(parents))
	var err error
	for k, p := range parents {
		if cols[k], err = data.Ints(p); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrColumnMissing, p)
		}
	}
	out := make([]int, data.NumRows())
	values := make([]int, len(parents))
	for i := range out {
		for k := range cols {
			values[k] = cols[k][i]
		}
		out[i] = bayes.RowIndex(dims, values)
	}

	return out, nil
}

func (m *Im) estimateDiscrete(b int, data *dataset.Dataset) error {
	node := m.pm.discreteNodes[b]
	cats := node.NumCategories()

	// child and discrete parents as a small categorical structure
	names := append([]string{node.Name}, node.DiscreteParents...)
	sub, err := m.pm.graph.Subgraph(names)
	if err != nil {
		return err
	}
	spm, err := bayes.NewPm(sub, m.pm.maxRows)
	if err != nil {
		return err
	}
	proj, err := data.SubsetColumns(names)
	if err != nil {
		return err
	}
	probs, err := bayes.NewDataProbs(spm, proj)
	if err != nil {
		return err
	}
	child, _ := spm.NodeIndex(node.Name)
	parentIdx := make([]int, len(node.DiscreteParents))
	for k, p := range node.DiscreteParents {
		parentIdx[k], _ = spm.NodeIndex(p)
	}

	// records grouped by (row, category)
	cfg, err := configurations(data, node.DiscreteParents, node.ParentDims)
	if err != nil {
		return err
	}
	self, err := data.Ints(node.Name)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrColumnMissing, node.Name)
	}
	groups := make(map[int][]int)
	for i, row := range cfg {
		if row < 0 || self[i] < 0 || self[i] >= cats {
			continue
		}
		key := row*cats + self[i]
		groups[key] = append(groups[key], i)
	}

	var row, c, s, unsupported int
	for row = 0; row < node.Rows; row++ {
		values := bayes.RowValues(node.ParentDims, row)
		condition := bayes.Tautology(spm)
		for k, idx := range parentIdx {
			_ = condition.SetCategory(idx, values[k])
		}
		for c = 0; c < cats; c++ {
			assertion := bayes.Tautology(spm)
			_ = assertion.SetCategory(child, c)
			p, err := probs.Conditional(assertion, condition)
			if err != nil {
				return err
			}
			_ = m.probs.Set(b, row, c, 0, p)

			records := groups[row*cats+c]
			if math.IsNaN(p) || len(records) == 0 {
				unsupported++
				continue
			}
			for s = range node.ContinuousParents {
				xs, err := data.Gather(node.ContinuousParents[s], records)
				if err != nil {
					return err
				}
				mean, std := stat.MeanStdDev(xs, nil)
				_ = m.dMeans.Set(b, row, c, s, mean)
				_ = m.dStds.Set(b, row, c, s, std)
			}
		}
	}
	if unsupported > 0 {
		m.logger.Debug("undetermined cells",
			slog.String("node", node.Name),
			slog.Int("cells", unsupported))
	}

	return nil
}

func (m *Im) estimateContinuous(b int, data *dataset.Dataset) error {
	node := m.pm.continuousNodes[b]
	cfg, err := configurations(data, node.DiscreteParents, node.ParentDims)
	if err != nil {
		return err
	}
	groups := make([][]int, node.Rows)
	for i, row := range cfg {
		if row >= 0 {
			groups[row] = append(groups[row], i)
		}
	}

	var s, unsupported int
	for row, records := range groups {
		if len(records) == 0 {
			unsupported++
			continue
		}
		y, err := data.Gather(node.Name, records)
		if err != nil {
			return err
		}
		mean, std := stat.MeanStdDev(y, nil)
		_ = m.cMeans.Set(b, row, 0, 0, mean)
		_ = m.cStds.Set(b, row, 0, 0, std)

		xs := make([][]float64, len(node.ContinuousParents))
		for s = range node.ContinuousParents {
			if xs[s], err = data.Gather(node.ContinuousParents[s], records); err != nil {
				return err
			}
			mu, sd := stat.MeanStdDev(xs[s], nil)
			_ = m.cMeans.Set(b, row, 0, s+1, mu)
			_ = m.cStds.Set(b, row, 0, s+1, sd)
			_ = m.corrs.Set(b, row, 0, s+1, stat.Correlation(xs[s], y, nil))
			_ = m.covars.Set(b, row, 0, s+1, stat.Covariance(xs[s], y, nil))
		}

		beta, resVar, rerr := sem.Regress(y, xs)
		if rerr != nil {
			m.logger.Debug("regression undetermined",
				slog.String("node", node.Name),
				slog.Int("row", row),
				slog.String("reason", rerr.Error()))
			continue
		}
		_ = m.covars.Set(b, row, 0, 0, resVar)
		for s = range node.ContinuousParents {
			_ = m.coefs.Set(b, row, 0, s+1, beta[s+1])
		}
	}
	if unsupported > 0 {
		m.logger.Debug("undetermined rows",
			slog.String("node", node.Name),
			slog.Int("rows", unsupported))
	}

	return nil
}
