package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42).Grid(50, 4, -100, 100)
	b := NewRNG(42).Grid(50, 4, -100, 100)
	assert.Equal(t, a, b)

	rng := NewRNG(42)
	first := rng.Grid(50, 4, -100, 100)
	rng.Reset()
	second := rng.Grid(50, 4, -100, 100)
	assert.Equal(t, first, second)
}

func TestRNG_GridRange(t *testing.T) {
	rows := NewRNG(1).Grid(200, 3, -5, 5)
	require.Len(t, rows, 200)

	for _, row := range rows {
		require.Len(t, row, 3)
		for _, v := range row {
			assert.GreaterOrEqual(t, v, int32(-5))
			assert.Less(t, v, int32(5))
		}
	}
}

func TestClone_Independent(t *testing.T) {
	rows := [][]int32{{1, 2}, {3, 4}}
	cloned := Clone(rows)

	cloned[0][0] = 99
	assert.Equal(t, int32(1), rows[0][0])
}

func TestReference_Scenario(t *testing.T) {
	ref := NewReference([][]int32{
		{10, 1, 5, 2},
		{20, 3, 1, 7},
		{5, 9, 0, 1},
	})

	assert.Equal(t, int64(35), ref.ColumnSum())
	assert.Equal(t, int64(25), ref.PredicatedColumnSum(2, 6))
	assert.Equal(t, int64(49), ref.PredicatedAllColumnsSum(8))

	assert.Equal(t, 1, ref.PredicatedUpdate(10))
	assert.Equal(t, int32(1), ref.GetField(2, 3))
	assert.Equal(t, int32(2), ref.GetField(0, 3))
}

func TestReference_CopiesInput(t *testing.T) {
	rows := [][]int32{{1, 2, 3, 4}}
	ref := NewReference(rows)

	ref.PutField(0, 0, 99)
	assert.Equal(t, int32(1), rows[0][0])
	assert.Equal(t, int32(99), ref.GetField(0, 0))
}
