package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cgm/core"
)

const mixedModel = `
variables:
  - {name: D, type: discrete, categories: [lo, hi]}
  - {name: X, type: continuous}
  - {name: Y, type: continuous}
edges:
  - {from: D, to: X}
  - {from: X, to: Y}
`

func TestParseModel(t *testing.T) {
	g, err := ParseModel([]byte(mixedModel))
	require.NoError(t, err)

	assert.Equal(t, []string{"D", "X", "Y"}, g.Names())
	assert.True(t, g.HasEdge("D", "X"))
	assert.True(t, g.HasEdge("X", "Y"))
	d, err := g.Variable("D")
	require.NoError(t, err)
	assert.Equal(t, []string{"lo", "hi"}, d.Categories)
	x, err := g.Variable("X")
	require.NoError(t, err)
	assert.Equal(t, core.Continuous, x.Kind)
}

func TestParseModel_Invalid(t *testing.T) {
	cases := map[string]string{
		"not yaml":      "variables: [",
		"no variables":  "edges: []",
		"bad type":      "variables: [{name: A, type: ordinal}]",
		"empty name":    "variables: [{type: continuous}]",
		"self loop":     "variables: [{name: A, type: continuous}]\nedges: [{from: A, to: A}]",
		"unknown end":   "variables: [{name: A, type: continuous}]\nedges: [{from: A, to: B}]",
		"duplicate var": "variables: [{name: A, type: continuous}, {name: A, type: continuous}]",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseModel([]byte(raw))
			assert.ErrorIs(t, err, ErrBadModel)
		})
	}
}

func TestToModelFile_RoundTrip(t *testing.T) {
	g, err := ParseModel([]byte(mixedModel))
	require.NoError(t, err)

	raw, err := yaml.Marshal(ToModelFile(g))
	require.NoError(t, err)
	back, err := ParseModel(raw)
	require.NoError(t, err)

	assert.Equal(t, g.Names(), back.Names())
	assert.Equal(t, g.Edges(), back.Edges())
	assert.Equal(t, g.Variables(), back.Variables())
}
