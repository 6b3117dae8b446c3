// Package hybrid stores tables in two row-major column groups.
//
// Rows are split at a configurable column into a front and a back group,
// each held in its own arena with the group's fields stored row by row.
// Every field lives in exactly one arena. Alongside the groups the layout
// keeps a per-row sum cache that is maintained incrementally on every
// write, so whole-row aggregation answers from the cache without touching
// either arena's payload.
package hybrid

import (
	"context"
	"fmt"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/field"
	"github.com/hupe1980/tabgo/table"
)

// Compile-time check to ensure Table satisfies the table.Table interface.
var _ table.Table = (*Table)(nil)

// Options configures the layout.
type Options struct {
	// SplitColumn is the first column of the back group. Columns below it
	// form the front group. A value at or above the column count puts all
	// columns in the front group.
	SplitColumn int
}

// DefaultOptions holds the default layout options.
var DefaultOptions = Options{
	SplitColumn: 3,
}

// Table is a table split into two row-major column groups with a per-row
// sum cache.
type Table struct {
	numRows  int
	numCols  int
	split    int // first back-group column
	backCols int
	front    []byte
	back     []byte
	rowSums  []int64
	loaded   bool
	opts     Options
}

// New creates an empty hybrid table.
func New(optFns ...func(o *Options)) *Table {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Table{opts: opts}
}

// Load ingests src, scattering each row across the two group arenas and
// priming the per-row sum cache.
func (t *Table) Load(ctx context.Context, src dataset.Source) error {
	if t.loaded {
		return table.ErrAlreadyLoaded
	}

	staged, numRows, err := dataset.ReadAll(ctx, src)
	if err != nil {
		return err
	}
	numCols := src.NumCols()

	split := t.opts.SplitColumn
	if split < 0 {
		return fmt.Errorf("table: negative split column %d", split)
	}
	split = min(split, numCols)
	backCols := numCols - split

	rowWidth := numCols * field.Width
	front := make([]byte, numRows*split*field.Width)
	back := make([]byte, numRows*backCols*field.Width)
	rowSums := make([]int64, numRows)

	for r := range numRows {
		base := r * rowWidth

		var sum int64
		for c := range numCols {
			v := field.Get(staged, base+c*field.Width)
			sum += int64(v)

			if c < split {
				field.Put(front, (r*split+c)*field.Width, v)
			} else {
				field.Put(back, (r*backCols+c-split)*field.Width, v)
			}
		}
		rowSums[r] = sum
	}

	t.numRows = numRows
	t.numCols = numCols
	t.split = split
	t.backCols = backCols
	t.front = front
	t.back = back
	t.rowSums = rowSums
	t.loaded = true

	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.numRows }

// NumCols returns the number of fields per row.
func (t *Table) NumCols() int { return t.numCols }

// Name returns the layout name.
func (t *Table) Name() string { return "hybrid" }

// fieldAt reads (rowID, colID) from the owning arena. Callers guarantee
// the coordinates are in range.
func (t *Table) fieldAt(rowID, colID int) int32 {
	if colID < t.split {
		return field.Get(t.front, (rowID*t.split+colID)*field.Width)
	}
	return field.Get(t.back, (rowID*t.backCols+colID-t.split)*field.Width)
}

// putAt writes (rowID, colID) to the owning arena and folds the delta into
// the row's cached sum.
func (t *Table) putAt(rowID, colID int, value int32) {
	arena, off := t.back, (rowID*t.backCols+colID-t.split)*field.Width
	if colID < t.split {
		arena, off = t.front, (rowID*t.split+colID)*field.Width
	}

	old := field.Get(arena, off)
	field.Put(arena, off, value)
	t.rowSums[rowID] += int64(value) - int64(old)
}

// GetField returns the field at (rowID, colID).
func (t *Table) GetField(rowID, colID int) int32 {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	return t.fieldAt(rowID, colID)
}

// PutField sets the field at (rowID, colID), keeping the row's cached sum
// current.
func (t *Table) PutField(rowID, colID int, value int32) {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	t.putAt(rowID, colID, value)
}

// ColumnSum returns the sum of column 0 over all rows.
func (t *Table) ColumnSum() int64 {
	var sum int64
	for r := range t.numRows {
		sum += int64(t.fieldAt(r, 0))
	}
	return sum
}

// PredicatedColumnSum returns the sum of column 0 over rows with
// col1 > threshold1 and col2 < threshold2.
func (t *Table) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	var sum int64
	for r := range t.numRows {
		if t.fieldAt(r, 1) > threshold1 && t.fieldAt(r, 2) < threshold2 {
			sum += int64(t.fieldAt(r, 0))
		}
	}
	return sum
}

// PredicatedAllColumnsSum returns the sum of every field of rows with
// col0 > threshold. Qualifying rows are served from the sum cache.
func (t *Table) PredicatedAllColumnsSum(threshold int32) int64 {
	var sum int64
	for r := range t.numRows {
		if t.fieldAt(r, 0) > threshold {
			sum += t.rowSums[r]
		}
	}
	return sum
}

// PredicatedUpdate sets col3 = col2 + col3 for rows with col0 < threshold
// and returns the number of updated rows.
func (t *Table) PredicatedUpdate(threshold int32) int {
	updated := 0
	for r := range t.numRows {
		if t.fieldAt(r, 0) >= threshold {
			continue
		}
		t.putAt(r, 3, t.fieldAt(r, 2)+t.fieldAt(r, 3))
		updated++
	}
	return updated
}
