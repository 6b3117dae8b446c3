// Package indexed stores tables in a row-major arena with an ordered
// secondary index over one configured column.
//
// The index maps each distinct value of the indexed column to the set of
// row ids holding it, ordered by value, so range predicates over that
// column visit only qualifying rows instead of scanning the table. A
// forward index (row id to current value) makes maintenance on writes a
// constant number of index operations.
package indexed

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/field"
	"github.com/hupe1980/tabgo/table"
	"github.com/tidwall/btree"
)

// Compile-time check to ensure Table satisfies the table.Table interface.
var _ table.Table = (*Table)(nil)

// bucket groups the row ids holding one value of the indexed column.
type bucket struct {
	key  int32
	rows *roaring.Bitmap
}

func lessBucket(a, b bucket) bool { return a.key < b.key }

// Table is a row-major table with a secondary index over one column.
type Table struct {
	numRows int
	numCols int
	data    []byte
	loaded  bool

	indexColumn int
	index       *btree.BTreeG[bucket]
	forward     []int32 // rowID -> current value of the indexed column
}

// New creates an empty indexed-row table maintaining a secondary index over
// indexColumn. The column is validated against the dataset at load time.
func New(indexColumn int) *Table {
	return &Table{
		indexColumn: indexColumn,
		// The table is single-caller; the tree needs no internal locking.
		index: btree.NewBTreeGOptions(lessBucket, btree.Options{NoLocks: true}),
	}
}

// Load ingests src into the arena and builds the secondary and forward
// indexes in one pass over the rows.
func (t *Table) Load(ctx context.Context, src dataset.Source) error {
	if t.loaded {
		return table.ErrAlreadyLoaded
	}

	data, numRows, err := dataset.ReadAll(ctx, src)
	if err != nil {
		return err
	}
	numCols := src.NumCols()
	if t.indexColumn < 0 || t.indexColumn >= numCols {
		return fmt.Errorf("table: index column %d out of range for %d columns", t.indexColumn, numCols)
	}

	forward := make([]int32, numRows)
	for r := range numRows {
		v := field.Get(data, (r*numCols+t.indexColumn)*field.Width)
		forward[r] = v
		t.insert(v, uint32(r)) //nolint:gosec
	}

	t.numRows = numRows
	t.numCols = numCols
	t.data = data
	t.forward = forward
	t.loaded = true

	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.numRows }

// NumCols returns the number of fields per row.
func (t *Table) NumCols() int { return t.numCols }

// IndexColumn returns the indexed column.
func (t *Table) IndexColumn() int { return t.indexColumn }

// Name returns the layout name.
func (t *Table) Name() string { return "indexed-row" }

// insert adds rowID to the bucket under key. An existing bucket's bitmap is
// mutated in place; Set only runs when the key is new.
func (t *Table) insert(key int32, rowID uint32) {
	if b, ok := t.index.Get(bucket{key: key}); ok {
		b.rows.Add(rowID)
		return
	}

	rows := roaring.New()
	rows.Add(rowID)
	t.index.Set(bucket{key: key, rows: rows})
}

// remove drops rowID from the bucket under key, deleting the bucket when it
// empties so range walks never visit dead keys.
func (t *Table) remove(key int32, rowID uint32) {
	b, ok := t.index.Get(bucket{key: key})
	if !ok {
		return
	}

	b.rows.Remove(rowID)
	if b.rows.IsEmpty() {
		t.index.Delete(bucket{key: key})
	}
}

// GetField returns the field at (rowID, colID).
func (t *Table) GetField(rowID, colID int) int32 {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	return field.Get(t.data, (rowID*t.numCols+colID)*field.Width)
}

// PutField sets the field at (rowID, colID). A write to the indexed column
// keeps the index in step: the old key is removed, the new key inserted,
// and only then is the forward entry replaced.
func (t *Table) PutField(rowID, colID int, value int32) {
	table.CheckBounds(t.numRows, t.numCols, rowID, colID)
	field.Put(t.data, (rowID*t.numCols+colID)*field.Width, value)

	if colID != t.indexColumn {
		return
	}

	old := t.forward[rowID]
	if old == value {
		return
	}
	id := uint32(rowID) //nolint:gosec
	t.remove(old, id)
	t.insert(value, id)
	t.forward[rowID] = value
}

// ColumnSum returns the sum of column 0 over all rows. The sum touches
// every row regardless of order, so it scans the arena instead of walking
// the index.
func (t *Table) ColumnSum() int64 {
	rowWidth := t.numCols * field.Width

	var sum int64
	for r := range t.numRows {
		sum += int64(field.Get(t.data, r*rowWidth))
	}
	return sum
}

// PredicatedColumnSum returns the sum of column 0 over rows with
// col1 > threshold1 and col2 < threshold2. When the index covers one of the
// predicate columns the query is driven from the index and only the other
// predicate is checked per row; otherwise it scans.
func (t *Table) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	switch t.indexColumn {
	case 1:
		return t.columnSumByCol1(threshold1, threshold2)
	case 2:
		return t.columnSumByCol2(threshold1, threshold2)
	default:
		return t.columnSumByScan(threshold1, threshold2)
	}
}

func (t *Table) columnSumByScan(threshold1, threshold2 int32) int64 {
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

func (t *Table) columnSumByCol1(threshold1, threshold2 int32) int64 {
	rowWidth := t.numCols * field.Width

	var sum int64
	t.index.Ascend(bucket{key: threshold1}, func(b bucket) bool {
		if b.key <= threshold1 {
			return true // the lower bound is exclusive
		}

		it := b.rows.Iterator()
		for it.HasNext() {
			base := int(it.Next()) * rowWidth
			if field.Get(t.data, base+2*field.Width) < threshold2 {
				sum += int64(field.Get(t.data, base))
			}
		}
		return true
	})
	return sum
}

func (t *Table) columnSumByCol2(threshold1, threshold2 int32) int64 {
	rowWidth := t.numCols * field.Width

	var sum int64
	t.index.Scan(func(b bucket) bool {
		if b.key >= threshold2 {
			return false // the upper bound is exclusive
		}

		it := b.rows.Iterator()
		for it.HasNext() {
			base := int(it.Next()) * rowWidth
			if field.Get(t.data, base+field.Width) > threshold1 {
				sum += int64(field.Get(t.data, base))
			}
		}
		return true
	})
	return sum
}

// PredicatedAllColumnsSum returns the sum of every field of rows with
// col0 > threshold. The row gather dominates, so the query always scans.
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
// and returns the number of updated rows. With the index on col0 the
// qualifying rows come from the index; any other index column falls back
// to a scan, maintaining the index when col3 is the indexed column.
func (t *Table) PredicatedUpdate(threshold int32) int {
	if t.indexColumn == 0 {
		return t.updateByIndex(threshold)
	}

	rowWidth := t.numCols * field.Width

	updated := 0
	for r := range t.numRows {
		if field.Get(t.data, r*rowWidth) >= threshold {
			continue
		}
		t.applyUpdate(r)
		updated++
	}
	return updated
}

// updateByIndex collects the qualifying rows from the index before the
// first write, so the walk never observes its own effects.
func (t *Table) updateByIndex(threshold int32) int {
	qualifying := roaring.New()
	t.index.Scan(func(b bucket) bool {
		if b.key >= threshold {
			return false
		}
		qualifying.Or(b.rows)
		return true
	})

	it := qualifying.Iterator()
	for it.HasNext() {
		t.applyUpdate(int(it.Next()))
	}
	return int(qualifying.GetCardinality())
}

// applyUpdate folds col2 into col3 for one row, keeping the index in step
// when col3 is the indexed column.
func (t *Table) applyUpdate(r int) {
	base := r * t.numCols * field.Width
	off3 := base + 3*field.Width
	value := field.Get(t.data, base+2*field.Width) + field.Get(t.data, off3)

	if t.indexColumn == 3 {
		if old := t.forward[r]; old != value {
			id := uint32(r) //nolint:gosec
			t.remove(old, id)
			t.insert(value, id)
			t.forward[r] = value
		}
	}

	field.Put(t.data, off3, value)
}
