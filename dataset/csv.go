package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/cgm/core"
)

// ErrBadHeader indicates a CSV header that does not match the variables.
var ErrBadHeader = errors.New("dataset: bad csv header")

// WriteCSV writes a header of column names followed by one record per row.
// Discrete cells are written as category names when the variable declares
// categories, otherwise as indices. Continuous cells use the shortest
// round-tripping float format.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Names()); err != nil {
		return err
	}
	rec := make([]string, len(d.vars))
	var i, j int
	for i = 0; i < d.rows; i++ {
		for j = range d.vars {
			if d.ints[j] != nil {
				rec[j] = d.categoryLabel(j, d.ints[j][i])
			} else {
				rec[j] = strconv.FormatFloat(d.floats[j][i], 'g', -1, 64)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

func (d *Dataset) categoryLabel(col, v int) string {
	cats := d.vars[col].Categories
	if v >= 0 && v < len(cats) {
		return cats[v]
	}

	return strconv.Itoa(v)
}

// ReadCSV parses a CSV produced by WriteCSV (or by hand). Every variable must
// appear in the header; the resulting columns follow the order of vars.
// Discrete cells may hold a category name or a category index.
func ReadCSV(r io.Reader, vars []*core.Variable) (*Dataset, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrBadHeader)
	}

	header := make(map[string]int, len(records[0]))
	for k, name := range records[0] {
		header[name] = k
	}
	pos := make([]int, len(vars))
	for j, v := range vars {
		k, ok := header[v.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadHeader, v.Name)
		}
		pos[j] = k
	}

	d, err := New(vars, len(records)-1)
	if err != nil {
		return nil, err
	}
	var i, j int
	for i = 1; i < len(records); i++ {
		for j = range vars {
			cell := records[i][pos[j]]
			if vars[j].IsDiscrete() {
				idx := vars[j].CategoryIndex(cell)
				if idx < 0 {
					if idx, err = strconv.Atoi(cell); err != nil {
						return nil, cellErrorf("ReadCSV", i-1, vars[j].Name, ErrBadCategory)
					}
				}
				if err = d.SetInt(i-1, j, idx); err != nil {
					return nil, err
				}
				continue
			}
			f, perr := strconv.ParseFloat(cell, 64)
			if perr != nil {
				return nil, cellErrorf("ReadCSV", i-1, vars[j].Name, perr)
			}
			d.floats[j][i-1] = f
		}
	}

	return d, nil
}
