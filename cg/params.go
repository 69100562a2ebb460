package cg

import (
	"fmt"
	"math"
)

// ParamType names the kind of a free parameter of the mixed groups.
type ParamType uint8

const (
	ParamProbability ParamType = iota
	ParamMean
	ParamVariance
	ParamCoefficient
)

// String returns a short lowercase label.
func (t ParamType) String() string {
	switch t {
	case ParamProbability:
		return "probability"
	case ParamMean:
		return "mean"
	case ParamVariance:
		return "variance"
	case ParamCoefficient:
		return "coefficient"
	default:
		return "unknown"
	}
}

// Parameter identifies one free parameter of a mixed node.
//
// Category is -1 for continuous nodes. Slot follows MixedNode.NumSlots and is
// -1 for probabilities. Variable is the variable the parameter describes: the
// child for probabilities and slot 0, a continuous parent otherwise.
// The variance of slot 0 of a continuous node is its residual variance.
type Parameter struct {
	Type     ParamType
	Node     string
	Row      int
	Category int
	Slot     int
	Variable string
}

// Name returns a readable identifier such as "mean(Z|Y=1,row=0)".
func (p Parameter) Name() string {
	if p.Category >= 0 {
		return fmt.Sprintf("%s(%s|%s=%d,row=%d)", p.Type, p.Variable, p.Node, p.Category, p.Row)
	}

	return fmt.Sprintf("%s(%s|%s,row=%d)", p.Type, p.Variable, p.Node, p.Row)
}

// Parameters returns the catalog of mixed-group parameters in layout order.
// Parameters of the pure sub-models are enumerated by BayesPm and SemPm.
func (p *Pm) Parameters() []Parameter { return append([]Parameter(nil), p.params...) }

// NumParameters returns len(Parameters()).
func (p *Pm) NumParameters() int { return len(p.params) }

func (p *Pm) catalog() []Parameter {
	var out []Parameter
	var row, c, s int

	for _, n := range p.discreteNodes {
		for row = 0; row < n.Rows; row++ {
			for c = 0; c < n.NumCategories(); c++ {
				out = append(out, Parameter{Type: ParamProbability, Node: n.Name, Row: row, Category: c, Slot: -1, Variable: n.Name})
				for s = range n.ContinuousParents {
					v := n.ContinuousParents[s]
					out = append(out,
						Parameter{Type: ParamMean, Node: n.Name, Row: row, Category: c, Slot: s, Variable: v},
						Parameter{Type: ParamVariance, Node: n.Name, Row: row, Category: c, Slot: s, Variable: v},
					)
				}
			}
		}
	}

	for _, n := range p.continuousNodes {
		for row = 0; row < n.Rows; row++ {
			out = append(out,
				Parameter{Type: ParamMean, Node: n.Name, Row: row, Category: -1, Slot: 0, Variable: n.Name},
				Parameter{Type: ParamVariance, Node: n.Name, Row: row, Category: -1, Slot: 0, Variable: n.Name},
			)
			for s = range n.ContinuousParents {
				v := n.ContinuousParents[s]
				out = append(out,
					Parameter{Type: ParamCoefficient, Node: n.Name, Row: row, Category: -1, Slot: s + 1, Variable: v},
					Parameter{Type: ParamMean, Node: n.Name, Row: row, Category: -1, Slot: s + 1, Variable: v},
					Parameter{Type: ParamVariance, Node: n.Name, Row: row, Category: -1, Slot: s + 1, Variable: v},
				)
			}
		}
	}

	return out
}

// Value reads the parameter p from the Im. Variances are returned as the
// square of the stored standard deviation, except the residual variance.
func (m *Im) Value(p Parameter) (float64, error) {
	if p.Category >= 0 {
		switch p.Type {
		case ParamProbability:
			return m.DiscreteProbability(p.Node, p.Row, p.Category)
		case ParamMean:
			return m.DiscreteMean(p.Node, p.Row, p.Category, p.Slot)
		case ParamVariance:
			sd, err := m.DiscreteStd(p.Node, p.Row, p.Category, p.Slot)
			return sd * sd, err
		}
		return math.NaN(), fmt.Errorf("Im.Value(%s): %w", p.Name(), ErrOutOfRange)
	}

	switch p.Type {
	case ParamCoefficient:
		return m.Coefficient(p.Node, p.Row, p.Slot)
	case ParamMean:
		return m.Mean(p.Node, p.Row, p.Slot)
	case ParamVariance:
		if p.Slot == 0 {
			return m.Covariance(p.Node, p.Row, 0)
		}
		sd, err := m.Std(p.Node, p.Row, p.Slot)
		return sd * sd, err
	}

	return math.NaN(), fmt.Errorf("Im.Value(%s): %w", p.Name(), ErrOutOfRange)
}
