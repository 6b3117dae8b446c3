package dataset

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/tabgo/field"
)

var (
	// ErrNoColumns is returned when a source reports a non-positive column count.
	ErrNoColumns = errors.New("dataset: column count must be positive")

	// ErrEmptyInput is returned when an input holds no data to derive a shape from.
	ErrEmptyInput = errors.New("dataset: empty input")
)

// RowWidthError indicates a row record whose byte length does not match the
// width implied by the source's column count.
type RowWidthError struct {
	Row  int // 0-based row id of the offending record
	Want int // expected record length in bytes
	Got  int // actual record length in bytes
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("dataset: row %d is %d bytes, want %d", e.Row, e.Got, e.Want)
}

// Source supplies a dataset as an ordered sequence of fixed-width rows.
type Source interface {
	// NumCols reports the number of fields per row. It must be positive.
	NumCols() int

	// Rows yields one record per row in row-id order. Each record is exactly
	// NumCols()*field.Width bytes (the row's fields in column order,
	// little-endian) and is only valid for the duration of the yield;
	// sources may reuse scratch buffers between rows. Implementations honor
	// ctx cancellation between rows.
	Rows(ctx context.Context) iter.Seq2[[]byte, error]
}

// ReadAll consumes src and returns its rows as one contiguous row-major
// buffer along with the row count. Every record is validated against the
// width implied by src.NumCols().
func ReadAll(ctx context.Context, src Source) ([]byte, int, error) {
	numCols := src.NumCols()
	if numCols <= 0 {
		return nil, 0, ErrNoColumns
	}

	rowWidth := numCols * field.Width

	var (
		data    []byte
		numRows int
	)
	for record, err := range src.Rows(ctx) {
		if err != nil {
			return nil, 0, err
		}
		if len(record) != rowWidth {
			return nil, 0, &RowWidthError{Row: numRows, Want: rowWidth, Got: len(record)}
		}

		data = append(data, record...)
		numRows++
	}

	return data, numRows, nil
}

// encodeRow encodes vals into dst, which must be rowWidth(len(vals)) bytes.
func encodeRow(dst []byte, vals []int32) {
	for i, v := range vals {
		field.Put(dst, i*field.Width, v)
	}
}
