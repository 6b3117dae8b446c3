package indexed

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/field"
	"github.com/hupe1980/tabgo/table"
	"github.com/hupe1980/tabgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, tbl table.Table, numCols int, rows [][]int32) {
	t.Helper()

	src, err := dataset.NewMemory(numCols, rows)
	require.NoError(t, err)
	require.NoError(t, tbl.Load(context.Background(), src))
}

func scenarioRows() [][]int32 {
	return [][]int32{
		{10, 1, 5, 2},
		{20, 3, 1, 7},
		{5, 9, 0, 1},
	}
}

func TestTable_Scenario(t *testing.T) {
	// Every index column must produce the same answers; only the access
	// paths differ.
	for idx := range 4 {
		t.Run(fmt.Sprintf("IndexColumn%d", idx), func(t *testing.T) {
			tbl := New(idx)
			load(t, tbl, 4, scenarioRows())

			require.Equal(t, 3, tbl.NumRows())
			require.Equal(t, 4, tbl.NumCols())
			require.Equal(t, idx, tbl.IndexColumn())
			require.Equal(t, "indexed-row", tbl.Name())

			assert.Equal(t, int64(35), tbl.ColumnSum())
			assert.Equal(t, int64(25), tbl.PredicatedColumnSum(2, 6))
			assert.Equal(t, int64(49), tbl.PredicatedAllColumnsSum(8))

			assert.Equal(t, 1, tbl.PredicatedUpdate(10))
			assert.Equal(t, int32(1), tbl.GetField(2, 3))
			assert.Equal(t, int32(2), tbl.GetField(0, 3))
			assert.Equal(t, int32(7), tbl.GetField(1, 3))
		})
	}
}

func TestTable_ArenaLayout(t *testing.T) {
	tbl := New(1)
	load(t, tbl, 4, scenarioRows())

	// Fields are stored row by row: (rowID*numCols+colID)*field.Width.
	want := []int32{10, 1, 5, 2, 20, 3, 1, 7, 5, 9, 0, 1}
	require.Len(t, tbl.data, len(want)*field.Width)
	for i, v := range want {
		assert.Equal(t, v, field.Get(tbl.data, i*field.Width), "arena slot %d", i)
	}
}

func TestTable_PutGet(t *testing.T) {
	tbl := New(1)
	load(t, tbl, 4, scenarioRows())

	require.Equal(t, int32(1), tbl.GetField(0, 1))

	// A write to the indexed column moves the row between buckets.
	tbl.PutField(0, 1, -42)
	assert.Equal(t, int32(-42), tbl.GetField(0, 1))

	// Neighbors stay untouched.
	assert.Equal(t, int32(10), tbl.GetField(0, 0))
	assert.Equal(t, int32(5), tbl.GetField(0, 2))

	// The indexed path reflects the new value; the moved key itself is
	// excluded by the strict bound.
	assert.Equal(t, int64(25), tbl.PredicatedColumnSum(-42, 6))
	assert.Equal(t, int64(35), tbl.PredicatedColumnSum(-50, 6))
}

func TestTable_IndexMaintenance(t *testing.T) {
	tbl := New(1)
	load(t, tbl, 4, scenarioRows())

	// One bucket per distinct col1 value, forward mirroring the arena.
	require.Equal(t, 3, tbl.index.Len())
	require.Equal(t, []int32{1, 3, 9}, tbl.forward)

	// Moving row 0 from value 1 to 3 drains the 1-bucket and joins the
	// 3-bucket.
	tbl.PutField(0, 1, 3)

	require.Equal(t, 2, tbl.index.Len())
	_, ok := tbl.index.Get(bucket{key: 1})
	assert.False(t, ok, "emptied bucket must be deleted")

	b, ok := tbl.index.Get(bucket{key: 3})
	require.True(t, ok)
	assert.Equal(t, uint64(2), b.rows.GetCardinality())
	assert.True(t, b.rows.Contains(0))
	assert.True(t, b.rows.Contains(1))
	assert.Equal(t, []int32{3, 3, 9}, tbl.forward)

	// Rewriting the same value is a no-op for the index.
	tbl.PutField(0, 1, 3)
	assert.Equal(t, 2, tbl.index.Len())

	// A write to an unindexed column leaves the index alone.
	tbl.PutField(0, 2, 99)
	assert.Equal(t, 2, tbl.index.Len())
	assert.Equal(t, []int32{3, 3, 9}, tbl.forward)
}

func TestTable_LoadTwice(t *testing.T) {
	tbl := New(0)
	load(t, tbl, 4, scenarioRows())

	src, err := dataset.NewMemory(4, scenarioRows())
	require.NoError(t, err)

	err = tbl.Load(context.Background(), src)
	require.ErrorIs(t, err, table.ErrAlreadyLoaded)
}

func TestTable_LoadEmpty(t *testing.T) {
	tbl := New(0)
	load(t, tbl, 4, nil)

	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 4, tbl.NumCols())
	assert.Equal(t, int64(0), tbl.ColumnSum())
	assert.Equal(t, int64(0), tbl.PredicatedColumnSum(0, 0))
	assert.Equal(t, int64(0), tbl.PredicatedAllColumnsSum(0))
	assert.Equal(t, 0, tbl.PredicatedUpdate(0))
}

func TestTable_IndexColumnOutOfRange(t *testing.T) {
	src, err := dataset.NewMemory(4, scenarioRows())
	require.NoError(t, err)

	err = New(4).Load(context.Background(), src)
	require.ErrorContains(t, err, "index column 4 out of range")

	src, err = dataset.NewMemory(4, scenarioRows())
	require.NoError(t, err)

	err = New(-1).Load(context.Background(), src)
	require.ErrorContains(t, err, "index column -1 out of range")
}

func TestTable_OutOfRange(t *testing.T) {
	tbl := New(0)
	load(t, tbl, 4, scenarioRows())

	assert.Panics(t, func() { tbl.GetField(-1, 0) })
	assert.Panics(t, func() { tbl.GetField(3, 0) })
	assert.Panics(t, func() { tbl.GetField(0, -1) })
	assert.Panics(t, func() { tbl.GetField(0, 4) })
	assert.Panics(t, func() { tbl.PutField(3, 0, 1) })
	assert.Panics(t, func() { tbl.PutField(0, 4, 1) })
}

func TestTable_StrictPredicateBounds(t *testing.T) {
	// The exclusive bounds must hold on the scan path and on both index
	// paths alike.
	for _, idx := range []int{0, 1, 2} {
		t.Run(fmt.Sprintf("IndexColumn%d", idx), func(t *testing.T) {
			tbl := New(idx)
			load(t, tbl, 4, [][]int32{
				{100, 5, 3, 0}, // col1 == threshold1: excluded
				{10, 6, 3, 0},  // qualifies
				{1, 7, 8, 0},   // col2 == threshold2: excluded
			})
			assert.Equal(t, int64(10), tbl.PredicatedColumnSum(5, 8))
		})
	}

	sums := New(0)
	load(t, sums, 4, [][]int32{
		{5, 1, 1, 1}, // col0 == threshold: excluded
		{6, 1, 1, 1},
	})
	assert.Equal(t, int64(9), sums.PredicatedAllColumnsSum(5))

	for _, idx := range []int{0, 1} {
		t.Run(fmt.Sprintf("UpdateIndexColumn%d", idx), func(t *testing.T) {
			updates := New(idx)
			load(t, updates, 4, [][]int32{
				{7, 0, 1, 1}, // col0 == threshold: excluded
				{6, 0, 1, 1},
			})
			assert.Equal(t, 1, updates.PredicatedUpdate(7))
			assert.Equal(t, int32(1), updates.GetField(0, 3))
			assert.Equal(t, int32(2), updates.GetField(1, 3))
		})
	}
}

func TestTable_MatchesReference(t *testing.T) {
	for idx := range 4 {
		t.Run(fmt.Sprintf("IndexColumn%d", idx), func(t *testing.T) {
			rng := testutil.NewRNG(13 + int64(idx))
			rows := rng.Grid(300, 6, -50, 50)
			ref := testutil.NewReference(rows)

			tbl := New(idx)
			load(t, tbl, 6, rows)

			// 1. Every field survives the load unchanged
			for r := range tbl.NumRows() {
				for c := range tbl.NumCols() {
					require.Equal(t, ref.GetField(r, c), tbl.GetField(r, c), "field (%d,%d)", r, c)
				}
			}

			// 2. Indexed and scan queries agree with the brute-force reference
			assert.Equal(t, ref.ColumnSum(), tbl.ColumnSum())
			for range 20 {
				t1 := rng.Int32Range(-60, 60)
				t2 := rng.Int32Range(-60, 60)
				assert.Equal(t, ref.PredicatedColumnSum(t1, t2), tbl.PredicatedColumnSum(t1, t2), "thresholds (%d,%d)", t1, t2)
				assert.Equal(t, ref.PredicatedAllColumnsSum(t1), tbl.PredicatedAllColumnsSum(t1), "threshold %d", t1)
			}

			// 3. Mirrored point writes, including to the indexed column,
			// keep both in agreement
			for range 200 {
				r, c := rng.Intn(tbl.NumRows()), rng.Intn(tbl.NumCols())
				v := rng.Int32Range(-50, 50)
				ref.PutField(r, c, v)
				tbl.PutField(r, c, v)
			}
			assert.Equal(t, ref.ColumnSum(), tbl.ColumnSum())
			assert.Equal(t, ref.PredicatedColumnSum(0, 10), tbl.PredicatedColumnSum(0, 10))

			// 4. Predicated updates agree on count and post state
			require.Equal(t, ref.PredicatedUpdate(5), tbl.PredicatedUpdate(5))
			for r := range tbl.NumRows() {
				for c := range tbl.NumCols() {
					require.Equal(t, ref.GetField(r, c), tbl.GetField(r, c), "field (%d,%d) after update", r, c)
				}
			}
			assert.Equal(t, ref.PredicatedAllColumnsSum(3), tbl.PredicatedAllColumnsSum(3))

			// 5. Post-update queries still route through a consistent index
			assert.Equal(t, ref.PredicatedColumnSum(-5, 5), tbl.PredicatedColumnSum(-5, 5))
			require.Equal(t, ref.PredicatedUpdate(-10), tbl.PredicatedUpdate(-10))
		})
	}
}
