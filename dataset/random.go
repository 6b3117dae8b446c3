package dataset

import (
	"context"
	"fmt"
	"iter"
	"math/rand"

	"github.com/hupe1980/tabgo/field"
)

// Compile-time check to ensure Random satisfies the Source interface.
var _ Source = (*Random)(nil)

// RandomOptions contains configuration options for the random source.
type RandomOptions struct {
	// Seed fixes the generated values; equal seeds yield equal datasets.
	Seed int64

	// MinValue is the inclusive lower bound of generated fields.
	MinValue int32

	// MaxValue is the exclusive upper bound of generated fields.
	MaxValue int32
}

// DefaultRandomOptions contains the default configuration options for the
// random source.
var DefaultRandomOptions = RandomOptions{
	Seed:     1,
	MinValue: 0,
	MaxValue: 1000,
}

// Random is a deterministic pseudo-random Source for benchmarks and property
// tests. Iterating it twice yields identical rows.
type Random struct {
	numRows int
	numCols int
	opts    RandomOptions
}

// NewRandom creates a random source of numRows×numCols fields.
func NewRandom(numRows, numCols int, optFns ...func(o *RandomOptions)) (*Random, error) {
	opts := DefaultRandomOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if numCols <= 0 {
		return nil, ErrNoColumns
	}
	if numRows < 0 {
		return nil, fmt.Errorf("dataset: negative row count %d", numRows)
	}
	if opts.MaxValue <= opts.MinValue {
		return nil, fmt.Errorf("dataset: random value range [%d,%d) is empty", opts.MinValue, opts.MaxValue)
	}

	return &Random{numRows: numRows, numCols: numCols, opts: opts}, nil
}

// NumCols returns the number of fields per row.
func (r *Random) NumCols() int { return r.numCols }

// NumRows returns the number of rows.
func (r *Random) NumRows() int { return r.numRows }

// Rows yields generated records. The record buffer is reused between rows.
func (r *Random) Rows(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		rng := rand.New(rand.NewSource(r.opts.Seed)) //nolint:gosec
		span := int64(r.opts.MaxValue) - int64(r.opts.MinValue)
		record := make([]byte, r.numCols*field.Width)

		for range r.numRows {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			for c := range r.numCols {
				v := int32(int64(r.opts.MinValue) + rng.Int63n(span)) //nolint:gosec
				field.Put(record, c*field.Width, v)
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}
