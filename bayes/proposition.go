package bayes

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/cgm/dataset"
)

// ErrPmMismatch indicates propositions built over different structures.
var ErrPmMismatch = errors.New("bayes: proposition structure mismatch")

// Proposition is a conjunction, over the nodes of a Pm, of "node takes one
// of these categories". The tautology allows every category of every node.
type Proposition struct {
	pm      *Pm
	allowed [][]bool
}

// Tautology returns the proposition that holds for every assignment.
func Tautology(pm *Pm) *Proposition {
	p := &Proposition{pm: pm, allowed: make([][]bool, pm.NumNodes())}
	for i := range p.allowed {
		p.allowed[i] = make([]bool, pm.NumCategories(i))
		for c := range p.allowed[i] {
			p.allowed[i][c] = true
		}
	}

	return p
}

// SetCategory restricts node to exactly cat.
func (p *Proposition) SetCategory(node, cat int) error {
	if node < 0 || node >= len(p.allowed) || cat < 0 || cat >= len(p.allowed[node]) {
		return fmt.Errorf("bayes: SetCategory(%d,%d): %w", node, cat, ErrOutOfRange)
	}
	for c := range p.allowed[node] {
		p.allowed[node][c] = c == cat
	}

	return nil
}

// RemoveCategory disallows cat for node.
func (p *Proposition) RemoveCategory(node, cat int) error {
	if node < 0 || node >= len(p.allowed) || cat < 0 || cat >= len(p.allowed[node]) {
		return fmt.Errorf("bayes: RemoveCategory(%d,%d): %w", node, cat, ErrOutOfRange)
	}
	p.allowed[node][cat] = false

	return nil
}

// Allows reports whether node may take cat.
func (p *Proposition) Allows(node, cat int) bool {
	return p.allowed[node][cat]
}

// IsTautology reports whether every category of every node is allowed.
func (p *Proposition) IsTautology() bool {
	for i := range p.allowed {
		for _, ok := range p.allowed[i] {
			if !ok {
				return false
			}
		}
	}

	return true
}

// Conjoin returns p ∧ o.
func (p *Proposition) Conjoin(o *Proposition) (*Proposition, error) {
	if p.pm != o.pm {
		return nil, ErrPmMismatch
	}
	out := Tautology(p.pm)
	for i := range out.allowed {
		for c := range out.allowed[i] {
			out.allowed[i][c] = p.allowed[i][c] && o.allowed[i][c]
		}
	}

	return out, nil
}

// DataProbs evaluates propositions against the rows of a dataset.
type DataProbs struct {
	pm   *Pm
	cols [][]int
	n    int
}

// NewDataProbs binds pm's nodes to the columns of data.
func NewDataProbs(pm *Pm, data *dataset.Dataset) (*DataProbs, error) {
	cols, err := columns(pm, data)
	if err != nil {
		return nil, err
	}

	return &DataProbs{pm: pm, cols: cols, n: data.NumRows()}, nil
}

func (d *DataProbs) holds(p *Proposition, row int) bool {
	var c int
	for i := range p.allowed {
		c = d.cols[i][row]
		if c < 0 || c >= len(p.allowed[i]) || !p.allowed[i][c] {
			return false
		}
	}

	return true
}

// Count returns the number of rows satisfying p.
func (d *DataProbs) Count(p *Proposition) int {
	var n int
	for row := 0; row < d.n; row++ {
		if d.holds(p, row) {
			n++
		}
	}

	return n
}

// Probability returns the fraction of rows satisfying p, NaN for empty data.
func (d *DataProbs) Probability(p *Proposition) float64 {
	if d.n == 0 {
		return math.NaN()
	}

	return float64(d.Count(p)) / float64(d.n)
}

// Conditional returns P(assertion | condition) as a ratio of row counts.
// When no row satisfies condition the result is NaN, not zero.
func (d *DataProbs) Conditional(assertion, condition *Proposition) (float64, error) {
	if assertion.pm != d.pm || condition.pm != d.pm {
		return 0, ErrPmMismatch
	}
	var support, hits int
	for row := 0; row < d.n; row++ {
		if !d.holds(condition, row) {
			continue
		}
		support++
		if d.holds(assertion, row) {
			hits++
		}
	}
	if support == 0 {
		return math.NaN(), nil
	}

	return float64(hits) / float64(support), nil
}
