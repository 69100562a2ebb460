// Package dataset provides a typed, columnar table of observations over
// core.Variables: discrete columns hold category indices (int), continuous
// columns hold float64 values.
package dataset

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/cgm/core"
)

// Sentinel errors for dataset operations.
var (
	// ErrColumnNotFound indicates a lookup by a name that is not a column.
	ErrColumnNotFound = errors.New("dataset: column not found")

	// ErrDuplicateColumn indicates two columns with the same name.
	ErrDuplicateColumn = errors.New("dataset: duplicate column")

	// ErrKindMismatch indicates an int access on a continuous column or the reverse.
	ErrKindMismatch = errors.New("dataset: column kind mismatch")

	// ErrOutOfRange indicates a row or column index outside the table.
	ErrOutOfRange = errors.New("dataset: index out of range")

	// ErrBadCategory indicates a discrete value outside the variable's categories.
	ErrBadCategory = errors.New("dataset: category out of range")

	// ErrBadRowCount indicates a negative row count.
	ErrBadRowCount = errors.New("dataset: negative row count")
)

// cellErrorf wraps err with the method, row and column name.
func cellErrorf(method string, row int, col string, err error) error {
	return fmt.Errorf("Dataset.%s(%d,%q): %w", method, row, col, err)
}

// Dataset is a column store. For column j exactly one of ints[j] and
// floats[j] is non-nil, according to vars[j].Kind.
type Dataset struct {
	name   string
	vars   []*core.Variable
	index  map[string]int
	ints   [][]int
	floats [][]float64
	rows   int
}

// New allocates a zero-filled dataset with the given columns and row count.
func New(vars []*core.Variable, rows int) (*Dataset, error) {
	if rows < 0 {
		return nil, ErrBadRowCount
	}
	d := &Dataset{
		vars:   make([]*core.Variable, len(vars)),
		index:  make(map[string]int, len(vars)),
		ints:   make([][]int, len(vars)),
		floats: make([][]float64, len(vars)),
		rows:   rows,
	}
	var j int
	for j = range vars {
		if vars[j] == nil {
			return nil, core.ErrNilVariable
		}
		if _, ok := d.index[vars[j].Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, vars[j].Name)
		}
		d.vars[j] = vars[j].Clone()
		d.index[vars[j].Name] = j
		if vars[j].IsDiscrete() {
			d.ints[j] = make([]int, rows)
		} else {
			d.floats[j] = make([]float64, rows)
		}
	}

	return d, nil
}

// Name returns the dataset label.
func (d *Dataset) Name() string { return d.name }

// SetName sets the dataset label.
func (d *Dataset) SetName(name string) { d.name = name }

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return d.rows }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.vars) }

// Variables returns copies of the column variables in column order.
func (d *Dataset) Variables() []*core.Variable {
	out := make([]*core.Variable, len(d.vars))
	for j, v := range d.vars {
		out[j] = v.Clone()
	}

	return out
}

// Names returns the column names in column order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.vars))
	for j, v := range d.vars {
		out[j] = v.Name
	}

	return out
}

// Variable returns a copy of the variable of column j.
func (d *Dataset) Variable(j int) (*core.Variable, error) {
	if j < 0 || j >= len(d.vars) {
		return nil, fmt.Errorf("Dataset.Variable(%d): %w", j, ErrOutOfRange)
	}

	return d.vars[j].Clone(), nil
}

// ColumnIndex returns the column of the named variable.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	j, ok := d.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	return j, nil
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]

	return ok
}

func (d *Dataset) checkCell(method string, row, col int) error {
	if col < 0 || col >= len(d.vars) {
		return fmt.Errorf("Dataset.%s(%d,%d): %w", method, row, col, ErrOutOfRange)
	}
	if row < 0 || row >= d.rows {
		return cellErrorf(method, row, d.vars[col].Name, ErrOutOfRange)
	}

	return nil
}

// Int returns the category index at (row, col) of a discrete column.
func (d *Dataset) Int(row, col int) (int, error) {
	if err := d.checkCell("Int", row, col); err != nil {
		return 0, err
	}
	if d.ints[col] == nil {
		return 0, cellErrorf("Int", row, d.vars[col].Name, ErrKindMismatch)
	}

	return d.ints[col][row], nil
}

// Float returns the value at (row, col) of a continuous column.
func (d *Dataset) Float(row, col int) (float64, error) {
	if err := d.checkCell("Float", row, col); err != nil {
		return 0, err
	}
	if d.floats[col] == nil {
		return 0, cellErrorf("Float", row, d.vars[col].Name, ErrKindMismatch)
	}

	return d.floats[col][row], nil
}

// SetInt stores a category index. It must lie in [0, NumCategories) unless
// the variable has no declared categories.
func (d *Dataset) SetInt(row, col, v int) error {
	if err := d.checkCell("SetInt", row, col); err != nil {
		return err
	}
	if d.ints[col] == nil {
		return cellErrorf("SetInt", row, d.vars[col].Name, ErrKindMismatch)
	}
	if k := d.vars[col].NumCategories(); v < 0 || (k > 0 && v >= k) {
		return cellErrorf("SetInt", row, d.vars[col].Name, ErrBadCategory)
	}
	d.ints[col][row] = v

	return nil
}

// SetFloat stores a continuous value.
func (d *Dataset) SetFloat(row, col int, v float64) error {
	if err := d.checkCell("SetFloat", row, col); err != nil {
		return err
	}
	if d.floats[col] == nil {
		return cellErrorf("SetFloat", row, d.vars[col].Name, ErrKindMismatch)
	}
	d.floats[col][row] = v

	return nil
}

// Ints returns the backing slice of a discrete column. The slice is shared
// with the dataset; callers must not write to it.
func (d *Dataset) Ints(name string) ([]int, error) {
	j, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	if d.ints[j] == nil {
		return nil, fmt.Errorf("%w: %q is continuous", ErrKindMismatch, name)
	}

	return d.ints[j], nil
}

// Floats returns the backing slice of a continuous column. The slice is
// shared with the dataset; callers must not write to it.
func (d *Dataset) Floats(name string) ([]float64, error) {
	j, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	if d.floats[j] == nil {
		return nil, fmt.Errorf("%w: %q is discrete", ErrKindMismatch, name)
	}

	return d.floats[j], nil
}

// SubsetRows returns a new dataset holding the given rows, in that order.
func (d *Dataset) SubsetRows(rows []int) (*Dataset, error) {
	out, err := New(d.vars, len(rows))
	if err != nil {
		return nil, err
	}
	out.name = d.name
	var i, j int
	for i = range rows {
		if rows[i] < 0 || rows[i] >= d.rows {
			return nil, fmt.Errorf("Dataset.SubsetRows(%d): %w", rows[i], ErrOutOfRange)
		}
		for j = range d.vars {
			if d.ints[j] != nil {
				out.ints[j][i] = d.ints[j][rows[i]]
			} else {
				out.floats[j][i] = d.floats[j][rows[i]]
			}
		}
	}

	return out, nil
}

// SubsetColumns returns a new dataset holding the named columns, in that order.
func (d *Dataset) SubsetColumns(names []string) (*Dataset, error) {
	vars := make([]*core.Variable, len(names))
	cols := make([]int, len(names))
	var (
		j   int
		err error
	)
	for j = range names {
		if cols[j], err = d.ColumnIndex(names[j]); err != nil {
			return nil, err
		}
		vars[j] = d.vars[cols[j]]
	}
	out, err := New(vars, d.rows)
	if err != nil {
		return nil, err
	}
	out.name = d.name
	for j = range cols {
		if d.ints[cols[j]] != nil {
			copy(out.ints[j], d.ints[cols[j]])
		} else {
			copy(out.floats[j], d.floats[cols[j]])
		}
	}

	return out, nil
}

// Select returns the indices of the rows for which keep returns true.
func (d *Dataset) Select(keep func(row int) bool) []int {
	out := make([]int, 0)
	var i int
	for i = 0; i < d.rows; i++ {
		if keep(i) {
			out = append(out, i)
		}
	}

	return out
}

// Gather returns the values of a continuous column at the given rows.
func (d *Dataset) Gather(name string, rows []int) ([]float64, error) {
	col, err := d.Floats(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		if r < 0 || r >= d.rows {
			return nil, fmt.Errorf("Dataset.Gather(%q,%d): %w", name, r, ErrOutOfRange)
		}
		out[i] = col[r]
	}

	return out, nil
}
