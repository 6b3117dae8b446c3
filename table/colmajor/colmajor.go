// Package colmajor stores tables in a single column-major arena.
//
// The field at (rowID, colID) lives at byte offset
// (colID*numRows+rowID)*field.Width, so the fields of one column are
// adjacent. Column scans run in storage order at the price of a
// per-column pass over the staged rows at load time; row-oriented work
// strides across the arena instead.
package colmajor

import (
	"context"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/field"
	"github.com/hupe1980/tabgo/table"
)

// Compile-time check to ensure Table satisfies the table.Table interface.
var _ table.Table = (*Table)(nil)

// Table is a column-major table.
type Table struct {
	numRows int
	numCols int
	data    []byte
	loaded  bool
}

// New creates an empty column-major table.
func New() *Table {
	return &Table{}
}

// Load ingests src, transposing the staged row-major records one column at
// a time. Each pass writes one contiguous column run and reads the staging
// buffer with a row stride.
func (t *Table) Load(ctx context.Context, src dataset.Source) error {
	if t.loaded {
		return table.ErrAlreadyLoaded
	}

	staged, numRows, err := dataset.ReadAll(ctx, src)
	if err != nil {
		return err
	}
	numCols := src.NumCols()

	rowWidth := numCols * field.Width
	data := make([]byte, len(staged))
	for c := range numCols {
		dst := c * numRows * field.Width
		off := c * field.Width
		for r := range numRows {
			field.Put(data, dst+r*field.Width, field.Get(staged, r*rowWidth+off))
		}
	}

	t.numRows = numRows
	t.numCols = numCols
	t.data = data
	t.loaded = true

	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.numRows }

// NumCols returns the number of fields per row.
func (t *Table) NumCols() int { return t.numCols }

// Name returns the layout name.
func (t *Table) Name() string { return "column-major" }

// GetField returns the field at (rowID, colID).
func (t *Table) GetField(rowID, colID int) int32 {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	return field.Get(t.data, (colID*t.numRows+rowID)*field.Width)
}

// PutField sets the field at (rowID, colID).
func (t *Table) PutField(rowID, colID int, value int32) {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	field.Put(t.data, (colID*t.numRows+rowID)*field.Width, value)
}

// ColumnSum returns the sum of column 0 over all rows. Column 0 is the
// arena's first contiguous run.
func (t *Table) ColumnSum() int64 {
	var sum int64
	for r := range t.numRows {
		sum += int64(field.Get(t.data, r*field.Width))
	}
	return sum
}

// PredicatedColumnSum returns the sum of column 0 over rows with
// col1 > threshold1 and col2 < threshold2. Each predicate column is one
// contiguous run.
func (t *Table) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	colStride := t.numRows * field.Width
	col1 := colStride
	col2 := 2 * colStride

	var sum int64
	for r := range t.numRows {
		off := r * field.Width
		if field.Get(t.data, col1+off) > threshold1 && field.Get(t.data, col2+off) < threshold2 {
			sum += int64(field.Get(t.data, off))
		}
	}
	return sum
}

// PredicatedAllColumnsSum returns the sum of every field of rows with
// col0 > threshold. Each column is swept as its own contiguous run with the
// column-0 test re-applied per pass; whole-row reconstruction costs one
// pass per column in this layout.
func (t *Table) PredicatedAllColumnsSum(threshold int32) int64 {
	colStride := t.numRows * field.Width

	var sum int64
	for c := range t.numCols {
		run := c * colStride
		for r := range t.numRows {
			off := r * field.Width
			if field.Get(t.data, off) > threshold {
				sum += int64(field.Get(t.data, run+off))
			}
		}
	}
	return sum
}

// PredicatedUpdate sets col3 = col2 + col3 for rows with col0 < threshold
// and returns the number of updated rows.
func (t *Table) PredicatedUpdate(threshold int32) int {
	colStride := t.numRows * field.Width
	col2 := 2 * colStride
	col3 := 3 * colStride

	updated := 0
	for r := range t.numRows {
		off := r * field.Width
		if field.Get(t.data, off) >= threshold {
			continue
		}

		field.Put(t.data, col3+off, field.Get(t.data, col2+off)+field.Get(t.data, col3+off))
		updated++
	}
	return updated
}
