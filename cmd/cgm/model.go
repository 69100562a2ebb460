package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cgm/core"
)

// ErrBadModel wraps every model-file problem.
var ErrBadModel = errors.New("cgm: bad model file")

var validate = validator.New()

// VariableSpec is one variable of a model file.
type VariableSpec struct {
	Name       string   `yaml:"name" validate:"required"`
	Type       string   `yaml:"type" validate:"required,oneof=discrete continuous"`
	Categories []string `yaml:"categories,omitempty" validate:"dive,required"`
	Latent     bool     `yaml:"latent,omitempty"`
}

// EdgeSpec is one directed edge of a model file.
type EdgeSpec struct {
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required,nefield=From"`
}

// ModelFile is the YAML description of a mixed graph:
//
//	variables:
//	  - {name: D, type: discrete, categories: [lo, hi]}
//	  - {name: X, type: continuous}
//	edges:
//	  - {from: D, to: X}
type ModelFile struct {
	Variables []VariableSpec `yaml:"variables" validate:"required,min=1,dive"`
	Edges     []EdgeSpec     `yaml:"edges" validate:"dive"`
}

// LoadModel reads a model file.
func LoadModel(path string) (*core.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cgm: read %s: %w", path, err)
	}

	return ParseModel(raw)
}

// ParseModel decodes and validates a model document and builds its graph.
func ParseModel(raw []byte) (*core.Graph, error) {
	var mf ModelFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModel, err)
	}
	if err := validate.Struct(&mf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModel, err)
	}

	g := core.NewGraph()
	for _, vs := range mf.Variables {
		v := core.NewContinuous(vs.Name)
		if vs.Type == "discrete" {
			v = core.NewDiscrete(vs.Name, vs.Categories...)
		}
		v.Latent = vs.Latent
		if err := g.AddVariable(v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadModel, err)
		}
	}
	for _, e := range mf.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadModel, err)
		}
	}

	return g, nil
}

// ToModelFile renders g back into its file form.
func ToModelFile(g *core.Graph) ModelFile {
	var mf ModelFile
	for _, v := range g.Variables() {
		vs := VariableSpec{Name: v.Name, Type: v.Kind.String(), Latent: v.Latent}
		if v.IsDiscrete() {
			vs.Categories = v.Categories
		}
		mf.Variables = append(mf.Variables, vs)
	}
	for _, e := range g.Edges() {
		mf.Edges = append(mf.Edges, EdgeSpec{From: e.From, To: e.To})
	}

	return mf
}
