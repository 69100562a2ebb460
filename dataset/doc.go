// Package dataset is the tabular input of estimation and the output of
// simulation.
//
// Columns are typed by their core.Variable: discrete columns store category
// indices, continuous columns store float64 values. Columns are addressed
// by name (ColumnIndex) or position; rows by position.
//
// Projections (SubsetRows, SubsetColumns) copy. Ints and Floats expose the
// backing column slices for read-only bulk access.
//
// CSV import/export uses encoding/csv with a header row of variable names.
package dataset
