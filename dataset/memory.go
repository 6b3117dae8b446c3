package dataset

import (
	"context"
	"fmt"
	"iter"

	"github.com/hupe1980/tabgo/field"
)

// Compile-time check to ensure Memory satisfies the Source interface.
var _ Source = (*Memory)(nil)

// Memory is a Source over an in-memory grid of field values. It mirrors the
// source boundary directly, a column count plus ordered rows, and is the
// primary source for tests and examples.
type Memory struct {
	numCols int
	rows    [][]int32
}

// NewMemory creates a Memory source from rows of int32 fields. numCols must
// be positive and every row must hold exactly numCols values.
func NewMemory(numCols int, rows [][]int32) (*Memory, error) {
	if numCols <= 0 {
		return nil, ErrNoColumns
	}
	for i, row := range rows {
		if len(row) != numCols {
			return nil, fmt.Errorf("dataset: memory row %d has %d values, want %d", i, len(row), numCols)
		}
	}

	return &Memory{numCols: numCols, rows: rows}, nil
}

// NumCols returns the number of fields per row.
func (m *Memory) NumCols() int { return m.numCols }

// NumRows returns the number of rows.
func (m *Memory) NumRows() int { return len(m.rows) }

// Rows yields the grid's rows as encoded records. The record buffer is
// reused between rows.
func (m *Memory) Rows(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		record := make([]byte, m.numCols*field.Width)
		for _, row := range m.rows {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			encodeRow(record, row)
			if !yield(record, nil) {
				return
			}
		}
	}
}
