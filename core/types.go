// Package core defines the typed Variable and the directed Graph of variables
// that every model structure in this module is built from.
//
// A Graph is safe for concurrent use: a single sync.RWMutex guards the
// variable catalog and both adjacency maps. Iteration order is always
// deterministic (sorted by variable name).
//
// This file declares Kind, Variable, Graph, GraphOption, sentinel errors,
// and the NewGraph constructor.
//
// Errors:
//
//	ErrNilVariable        - variable pointer is nil.
//	ErrEmptyName          - variable name is the empty string.
//	ErrBadKind            - variable kind is neither Discrete nor Continuous.
//	ErrVariableNotFound   - requested variable does not exist.
//	ErrDuplicateVariable  - a variable with the same name already exists.
//	ErrKindChanged        - a replacement variable changes the kind of a node.
//	ErrEdgeNotFound       - requested edge does not exist.
//	ErrDuplicateEdge      - the edge already exists.
//	ErrLoopNotAllowed     - self-loop attempted.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrNilVariable indicates that a nil *Variable was passed in.
	ErrNilVariable = errors.New("core: variable is nil")

	// ErrEmptyName indicates that the provided Variable has an empty name.
	ErrEmptyName = errors.New("core: variable name is empty")

	// ErrBadKind indicates a Variable whose Kind is not Discrete or Continuous.
	ErrBadKind = errors.New("core: unknown variable kind")

	// ErrVariableNotFound indicates an operation referenced a non-existent variable.
	ErrVariableNotFound = errors.New("core: variable not found")

	// ErrDuplicateVariable indicates a second variable with an existing name.
	ErrDuplicateVariable = errors.New("core: duplicate variable")

	// ErrKindChanged indicates ReplaceVariable tried to switch a node between
	// discrete and continuous.
	ErrKindChanged = errors.New("core: variable kind changed")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrDuplicateEdge indicates the directed edge is already present.
	ErrDuplicateEdge = errors.New("core: duplicate edge")

	// ErrLoopNotAllowed indicates a self-loop was attempted.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")
)

// Kind tags a Variable as discrete or continuous. It is decided once when the
// variable is created and carried unchanged through every structure built on it.
type Kind uint8

const (
	// Discrete variables take one of an ordered, finite list of categories.
	Discrete Kind = iota + 1
	// Continuous variables are real valued.
	Continuous
)

// String returns "discrete", "continuous" or "unknown".
func (k Kind) String() string {
	switch k {
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// Variable is a named graph node tagged with its Kind.
//
// Identity is by Name: two structures refer to the same variable when the
// names are equal. Categories is meaningful only for discrete variables; it may
// be empty when the category set is to be inferred later (see cg.NewPm).
// Latent variables are simulated but may be dropped from simulated output.
type Variable struct {
	// Name uniquely identifies this Variable within its Graph.
	Name string

	// Kind is Discrete or Continuous.
	Kind Kind

	// Categories lists the ordered category names of a discrete variable.
	Categories []string

	// Latent marks an unmeasured variable.
	Latent bool
}

// NewDiscrete returns a discrete Variable with the given ordered categories.
func NewDiscrete(name string, categories ...string) *Variable {
	cats := make([]string, len(categories))
	copy(cats, categories)

	return &Variable{Name: name, Kind: Discrete, Categories: cats}
}

// NewContinuous returns a continuous Variable.
func NewContinuous(name string) *Variable {
	return &Variable{Name: name, Kind: Continuous}
}

// AsLatent returns a copy of v marked as latent.
func (v *Variable) AsLatent() *Variable {
	c := v.Clone()
	c.Latent = true

	return c
}

// IsDiscrete reports whether v is a discrete variable.
func (v *Variable) IsDiscrete() bool { return v.Kind == Discrete }

// IsContinuous reports whether v is a continuous variable.
func (v *Variable) IsContinuous() bool { return v.Kind == Continuous }

// NumCategories returns the number of categories (0 for continuous variables).
func (v *Variable) NumCategories() int {
	if v.Kind != Discrete {
		return 0
	}

	return len(v.Categories)
}

// CategoryIndex returns the position of the named category, or -1.
func (v *Variable) CategoryIndex(category string) int {
	var i int
	for i = range v.Categories {
		if v.Categories[i] == category {
			return i
		}
	}

	return -1
}

// Clone returns a deep copy of v.
func (v *Variable) Clone() *Variable {
	c := *v
	if v.Categories != nil {
		c.Categories = make([]string, len(v.Categories))
		copy(c.Categories, v.Categories)
	}

	return &c
}

// WithCategories returns a copy of v carrying the given categories.
func (v *Variable) WithCategories(categories []string) *Variable {
	c := v.Clone()
	c.Categories = make([]string, len(categories))
	copy(c.Categories, categories)

	return c
}

// validate checks name and kind.
func (v *Variable) validate() error {
	if v == nil {
		return ErrNilVariable
	}
	if v.Name == "" {
		return ErrEmptyName
	}
	if v.Kind != Discrete && v.Kind != Continuous {
		return ErrBadKind
	}

	return nil
}

// GraphOption configures a Graph before creation.
type GraphOption func(g *Graph)

// WithVariables adds the given variables at construction time. Invalid or
// duplicate variables are skipped; use AddVariable to observe errors.
func WithVariables(vars ...*Variable) GraphOption {
	return func(g *Graph) {
		for _, v := range vars {
			_ = g.addVariableLocked(v)
		}
	}
}

// Graph is a directed graph of typed variables.
//
// mu protects vars, parents and children.
// parents[child][parent] and children[parent][child] mirror each other.
type Graph struct {
	mu sync.RWMutex

	vars     map[string]*Variable           // name → Variable
	parents  map[string]map[string]struct{} // child → set of parents
	children map[string]map[string]struct{} // parent → set of children
}

// NewGraph creates an empty directed Graph.
// Complexity: O(1) plus the cost of options.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		vars:     make(map[string]*Variable),
		parents:  make(map[string]map[string]struct{}),
		children: make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
