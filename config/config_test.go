package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cgm/cg"
	"github.com/katalvlaran/cgm/config"
	"github.com/katalvlaran/cgm/core"
	"github.com/katalvlaran/cgm/rng"
)

func TestDefault_IsValid(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, rng.DefaultRanges(), c.Ranges())
	assert.Equal(t, cg.DefaultMaxRows, c.Limits.MaxRows)
	assert.Equal(t, cg.DefaultTolerance, c.Tolerance)
}

func TestParse_OverridesDefaults(t *testing.T) {
	c, err := config.Parse([]byte(`
init:
  var_low: 0.5
  var_high: 2
simulation:
  seed: 99
  include_latent: false
  ersatz_max_bins: 6
limits:
  max_rows: 1000
`))
	require.NoError(t, err)
	assert.Equal(t, 0.5, c.Init.VarLow)
	assert.Equal(t, 2.0, c.Init.VarHigh)
	assert.Equal(t, uint64(99), c.Simulation.Seed)
	assert.False(t, c.Simulation.IncludeLatent)
	assert.Equal(t, 6, c.Simulation.ErsatzMaxBins)
	assert.Equal(t, cg.DefaultErsatzMinBins, c.Simulation.ErsatzMinBins)
	assert.Equal(t, 1000, c.Limits.MaxRows)
	assert.Equal(t, 0.5, c.Init.CoefLow)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"zero variance":  "init: {var_low: 0}\n",
		"inverted var":   "init: {var_low: 2, var_high: 1}\n",
		"inverted cats":  "categories: {lower: 3, upper: 2}\n",
		"one bin":        "simulation: {ersatz_min_bins: 1}\n",
		"no rows":        "limits: {max_rows: 0}\n",
		"zero tolerance": "tolerance: 0\n",
		"inverted coefs": "init: {coef_low: 2, coef_high: 1}\n",
		"inverted means": "init: {mean_low: 1, mean_high: -1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	_, err := config.Parse([]byte("init: [1, 2"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cgm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerance: 0.01\n"), 0o600))
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.01, c.Tolerance)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOptions_DriveTheEngine(t *testing.T) {
	c, err := config.Parse([]byte("categories: {lower: 3, upper: 3}\nsimulation: {seed: 5}\n"))
	require.NoError(t, err)

	g := core.NewGraph(core.WithVariables(
		&core.Variable{Name: "K", Kind: core.Discrete},
		core.NewContinuous("X"),
	))
	require.NoError(t, g.AddEdge("K", "X"))

	pm, err := cg.NewPm(g, c.PmOptions()...)
	require.NoError(t, err)
	v, err := pm.Variable("K")
	require.NoError(t, err)
	assert.Equal(t, 3, v.NumCategories())

	im, err := cg.NewIm(pm, append(c.ImOptions(), cg.WithInitMode(cg.Random))...)
	require.NoError(t, err)
	a, err := cg.Simulate(context.Background(), im, 50, c.SimOptions()...)
	require.NoError(t, err)
	b, err := cg.Simulate(context.Background(), im, 50, c.SimOptions()...)
	require.NoError(t, err)
	xa, err := a.Floats("X")
	require.NoError(t, err)
	xb, err := b.Floats("X")
	require.NoError(t, err)
	assert.Equal(t, xa, xb)
}
