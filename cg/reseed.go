// File: reseed.go
// Role: Carry parameters from an old Im into a freshly initialized one.
// Rules:
//   - Nodes, parents and slots correspond by name only (Registry.Correspond).
//   - A row whose copy fails part way is reinitialized, never left mixed.
//   - A new row takes its values from an old row only when the old row is
//     uniquely determined: every old discrete parent exists in the new node
//     with the same category count, or has a single category.
//   - A discrete child must also keep its category count.
//   - Continuous-parent slots without a same-name counterpart keep their
//     fresh values.

package cg

import (
	"log/slog"

	"github.com/katalvlaran/cgm/bayes"
	"github.com/katalvlaran/cgm/tensor"
)

// rowMatcher maps rows of a new discrete-parent layout onto an old one.
type rowMatcher struct {
	newDims []int
	oldDims []int
	oldPos  []int // old parent k → position among new parents, or -1
	exact   bool
}

func newRowMatcher(newParents []string, newDims []int, oldParents []string, oldDims []int) rowMatcher {
	rm := rowMatcher{newDims: newDims, oldDims: oldDims, oldPos: make([]int, len(oldParents)), exact: true}
	pos := make(map[string]int, len(newParents))
	for i, p := range newParents {
		pos[p] = i
	}
	for k, p := range oldParents {
		i, ok := pos[p]
		switch {
		case ok && newDims[i] == oldDims[k]:
			rm.oldPos[k] = i
		case !ok && oldDims[k] == 1:
			rm.oldPos[k] = -1
		default:
			rm.exact = false
		}
	}

	return rm
}

// match returns the old row corresponding to newRow.
func (rm rowMatcher) match(newRow int) (int, bool) {
	if !rm.exact {
		return 0, false
	}
	nv := bayes.RowValues(rm.newDims, newRow)
	ov := make([]int, len(rm.oldDims))
	for k, i := range rm.oldPos {
		if i >= 0 {
			ov[k] = nv[i]
		}
	}
	row := bayes.RowIndex(rm.oldDims, ov)

	return row, row >= 0
}

// slotMap returns, for each new name, the index of the same name in old or -1.
// Parent lists are name-sorted, so registry indices are list positions.
func slotMap(newNames, oldNames []string) []int {
	return NewRegistry(newNames).Correspond(NewRegistry(oldNames))
}

// copyDiscreteRow copies every cell of old row orow of block ob into row of
// block b. slots maps new continuous-parent slots to old ones.
func (m *Im) copyDiscreteRow(old *Im, ob, orow, b, row, cats int, slots []int) error {
	var c int
	for c = 0; c < cats; c++ {
		if err := m.probs.CopyCell(old.probs, ob, orow, c, 0, b, row, c, 0); err != nil {
			return err
		}
		for s, os := range slots {
			if os < 0 {
				continue
			}
			if err := m.dMeans.CopyCell(old.dMeans, ob, orow, c, os, b, row, c, s); err != nil {
				return err
			}
			if err := m.dStds.CopyCell(old.dStds, ob, orow, c, os, b, row, c, s); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyContinuousRow copies the mapped slots of old row orow of block ob into
// row of block b across all five continuous arenas.
func (m *Im) copyContinuousRow(old *Im, ob, orow, b, row int, slots []int) error {
	pairs := [][2]*tensor.Arena{
		{m.coefs, old.coefs},
		{m.covars, old.covars},
		{m.cMeans, old.cMeans},
		{m.cStds, old.cStds},
		{m.corrs, old.corrs},
	}
	for s, os := range slots {
		if os < 0 {
			continue
		}
		for _, pr := range pairs {
			if err := pr[0].CopyCell(pr[1], ob, orow, 0, os, b, row, 0, s); err != nil {
				return err
			}
		}
	}

	return nil
}

func (m *Im) reseed(old *Im) {
	var copied, fresh int

	// Stage 1: categorical sub-model
	bp, obp := m.pm.bayesPm, old.pm.bayesPm
	for i := 0; i < bp.NumNodes(); i++ {
		oi, err := obp.NodeIndex(bp.Node(i).Name)
		if err != nil || obp.NumCategories(oi) != bp.NumCategories(i) {
			fresh += bp.NumRows(i)
			continue
		}
		rm := newRowMatcher(bp.ParentNames(i), bp.ParentDims(i), obp.ParentNames(oi), obp.ParentDims(oi))
		for row := 0; row < bp.NumRows(i); row++ {
			orow, ok := rm.match(row)
			if ok && m.bayesIm.CopyRow(i, row, old.bayesIm, oi, orow) == nil {
				copied++
			} else {
				fresh++
			}
		}
	}

	// Stage 2: linear Gaussian sub-model
	m.semIm.Reseed(old.semIm)

	// Stage 3: discrete-mixed group
	for b, ob := range m.pm.discrete.Correspond(old.pm.discrete) {
		n := m.pm.discreteNodes[b]
		if ob < 0 || old.pm.discreteNodes[ob].NumCategories() != n.NumCategories() {
			fresh += n.Rows
			continue
		}
		on := old.pm.discreteNodes[ob]
		rm := newRowMatcher(n.DiscreteParents, n.ParentDims, on.DiscreteParents, on.ParentDims)
		slots := slotMap(n.ContinuousParents, on.ContinuousParents)
		for row := 0; row < n.Rows; row++ {
			orow, ok := rm.match(row)
			if !ok {
				fresh++
				continue
			}
			if err := m.copyDiscreteRow(old, ob, orow, b, row, n.NumCategories(), slots); err != nil {
				m.logger.Debug("reseed copy failed",
					slog.String("node", n.Name),
					slog.Int("row", row),
					slog.String("reason", err.Error()))
				m.initDiscreteRow(b, row)
				fresh++
				continue
			}
			copied++
		}
	}

	// Stage 4: continuous-mixed group
	for b, ob := range m.pm.continuous.Correspond(old.pm.continuous) {
		n := m.pm.continuousNodes[b]
		if ob < 0 {
			fresh += n.Rows
			continue
		}
		on := old.pm.continuousNodes[ob]
		rm := newRowMatcher(n.DiscreteParents, n.ParentDims, on.DiscreteParents, on.ParentDims)
		// slot 0 is the node itself in both layouts
		slots := append([]int{0}, slotMap(n.ContinuousParents, on.ContinuousParents)...)
		for s := 1; s < len(slots); s++ {
			if slots[s] >= 0 {
				slots[s]++
			}
		}
		for row := 0; row < n.Rows; row++ {
			orow, ok := rm.match(row)
			if !ok {
				fresh++
				continue
			}
			if err := m.copyContinuousRow(old, ob, orow, b, row, slots); err != nil {
				m.logger.Debug("reseed copy failed",
					slog.String("node", n.Name),
					slog.Int("row", row),
					slog.String("reason", err.Error()))
				m.initContinuousRow(b, row)
				fresh++
				continue
			}
			copied++
		}
	}

	m.logger.Debug("reseeded model",
		slog.Int("rows_copied", copied),
		slog.Int("rows_reinitialized", fresh))
}
