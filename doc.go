// Package cgm is an engine for Conditional Gaussian (CG) graphical models:
// directed acyclic graphs over a mix of discrete and continuous variables.
//
// What is in the box?
//
//	core/     typed Variable and the thread-safe directed Graph over them
//	dfs/      topological order and cycle detection with cancellation
//	tensor/   flat row/slot arenas behind every parameter table
//	rng/      the reproducible random context (PCG) and init ranges
//	dataset/  columnar mixed-type datasets with CSV I/O
//	bayes/    the pure discrete sub-model (conditional probability tables)
//	sem/      the pure continuous sub-model (linear Gaussian SEM)
//	cg/       parametric model (Pm), instantiated model (Im), Estimate,
//	          Simulate and model properties (DoF, log-likelihood, BIC/AIC)
//	config/   YAML settings validated at load time
//	metrics/  Prometheus counters and histograms of engine runs
//	cmd/cgm   the command-line front end
//
// Node classes:
//
//   - pure nodes have parents of their own kind only and live in the bayes
//     or sem sub-model;
//   - mixed nodes have at least one parent of the other kind and are
//     parameterized per configuration of their discrete parents in cg.
//
// Quick start:
//
//	pm, _ := cg.NewPm(g)
//	im, _ := cg.NewIm(pm, cg.WithInitMode(cg.Random))
//	data, _ := cg.Simulate(ctx, im, 1000, cg.WithSeed(7))
//	fit, _ := cg.Estimate(ctx, pm, data)
//
// Everything is pure Go; numerics rely on gonum.
package cgm
