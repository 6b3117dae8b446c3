// Package table defines the contract shared by the physical table layouts.
//
// A Table holds a fixed grid of int32 fields in memory and serves point
// access, scan queries and a predicated update over it. The layout packages
// (rowmajor, colmajor, indexed, hybrid) trade the same contract off against
// different physical organizations; given the same dataset they return
// identical results for every operation.
//
// The scan queries address fixed low columns: the sums read column 0,
// PredicatedColumnSum also columns 1 and 2, and PredicatedUpdate columns 2
// and 3. A table must be at least as wide as the columns the queries used
// against it address.
package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/tabgo/dataset"
)

// ErrAlreadyLoaded is returned when Load is called on a loaded table.
var ErrAlreadyLoaded = errors.New("table: already loaded")

// Table is an in-memory integer table over one physical layout.
//
// A table is loaded exactly once and then serves queries and updates.
// Implementations are not safe for concurrent use; callers serialize
// access.
type Table interface {
	// Load ingests src into the table's physical layout.
	Load(ctx context.Context, src dataset.Source) error

	// NumRows returns the number of rows.
	NumRows() int

	// NumCols returns the number of fields per row.
	NumCols() int

	// GetField returns the field at (rowID, colID).
	GetField(rowID, colID int) int32

	// PutField sets the field at (rowID, colID).
	PutField(rowID, colID int, value int32)

	// ColumnSum returns the sum of column 0 over all rows.
	ColumnSum() int64

	// PredicatedColumnSum returns the sum of column 0 over rows with
	// col1 > threshold1 and col2 < threshold2.
	PredicatedColumnSum(threshold1, threshold2 int32) int64

	// PredicatedAllColumnsSum returns the sum of every field of rows with
	// col0 > threshold.
	PredicatedAllColumnsSum(threshold int32) int64

	// PredicatedUpdate sets col3 = col2 + col3 for rows with
	// col0 < threshold, using the pre-update values, and returns the
	// number of updated rows.
	PredicatedUpdate(threshold int32) int

	// Name returns the layout name.
	Name() string
}

// CheckBounds panics when (rowID, colID) lies outside a numRows×numCols
// table. Field access is offset arithmetic into a shared arena; without the
// check a bad id could silently address a neighboring cell.
func CheckBounds(numRows, numCols, rowID, colID int) {
	if rowID < 0 || rowID >= numRows || colID < 0 || colID >= numCols {
		panic(fmt.Sprintf("table: field (%d,%d) out of range for %dx%d table", rowID, colID, numRows, numCols))
	}
}
