// Package rowmajor stores tables in a single row-major arena.
//
// The field at (rowID, colID) lives at byte offset
// (rowID*numCols+colID)*field.Width, so the fields of one row are adjacent
// and whole-row work runs in storage order. This is the baseline layout the
// others are measured against.
package rowmajor

import (
	"context"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/field"
	"github.com/hupe1980/tabgo/table"
)

// Compile-time check to ensure Table satisfies the table.Table interface.
var _ table.Table = (*Table)(nil)

// Table is a row-major table.
type Table struct {
	numRows int
	numCols int
	data    []byte
	loaded  bool
}

// New creates an empty row-major table.
func New() *Table {
	return &Table{}
}

// Load ingests src into the arena. The source's row-major record order is
// already the storage order, so the staged rows are adopted as-is.
func (t *Table) Load(ctx context.Context, src dataset.Source) error {
	if t.loaded {
		return table.ErrAlreadyLoaded
	}

	data, numRows, err := dataset.ReadAll(ctx, src)
	if err != nil {
		return err
	}

	t.numRows = numRows
	t.numCols = src.NumCols()
	t.data = data
	t.loaded = true

	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.numRows }

// NumCols returns the number of fields per row.
func (t *Table) NumCols() int { return t.numCols }

// Name returns the layout name.
func (t *Table) Name() string { return "row-major" }

// GetField returns the field at (rowID, colID).
func (t *Table) GetField(rowID, colID int) int32 {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	return field.Get(t.data, (rowID*t.numCols+colID)*field.Width)
}

// PutField sets the field at (rowID, colID).
func (t *Table) PutField(rowID, colID int, value int32) {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	field.Put(t.data, (rowID*t.numCols+colID)*field.Width, value)
}

// ColumnSum returns the sum of column 0 over all rows.
func (t *Table) ColumnSum() int64 {
	rowWidth := t.numCols * field.Width

	var sum int64
	for r := range t.numRows {
		sum += int64(field.Get(t.data, r*rowWidth))
	}
	return sum
}

// PredicatedColumnSum returns the sum of column 0 over rows with
// col1 > threshold1 and col2 < threshold2.
func (t *Table) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	rowWidth := t.numCols * field.Width

	var sum int64
	for r := range t.numRows {
		base := r * rowWidth
		if field.Get(t.data, base+field.Width) > threshold1 && field.Get(t.data, base+2*field.Width) < threshold2 {
			sum += int64(field.Get(t.data, base))
		}
	}
	return sum
}

// PredicatedAllColumnsSum returns the sum of every field of rows with
// col0 > threshold. Qualifying rows are summed in one contiguous sweep.
func (t *Table) PredicatedAllColumnsSum(threshold int32) int64 {
	rowWidth := t.numCols * field.Width

	var sum int64
	for r := range t.numRows {
		base := r * rowWidth
		if field.Get(t.data, base) <= threshold {
			continue
		}
		for c := range t.numCols {
			sum += int64(field.Get(t.data, base+c*field.Width))
		}
	}
	return sum
}

// PredicatedUpdate sets col3 = col2 + col3 for rows with col0 < threshold
// and returns the number of updated rows.
func (t *Table) PredicatedUpdate(threshold int32) int {
	rowWidth := t.numCols * field.Width

	updated := 0
	for r := range t.numRows {
		base := r * rowWidth
		if field.Get(t.data, base) >= threshold {
			continue
		}

		off3 := base + 3*field.Width
		field.Put(t.data, off3, field.Get(t.data, base+2*field.Width)+field.Get(t.data, off3))
		updated++
	}
	return updated
}
