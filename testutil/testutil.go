package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int32Range returns a pseudo-random number in [minVal, maxVal).
func (r *RNG) Int32Range(minVal, maxVal int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.int32Range(minVal, maxVal)
}

func (r *RNG) int32Range(minVal, maxVal int32) int32 {
	span := int64(maxVal) - int64(minVal)
	return int32(int64(minVal) + r.rand.Int63n(span))
}

// Grid generates a numRows×numCols grid of fields in [minVal, maxVal).
// Locks only once per call (preferred over calling Int32Range in a loop).
func (r *RNG) Grid(numRows, numCols int, minVal, maxVal int32) [][]int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]int32, numRows*numCols)
	rows := make([][]int32, numRows)

	for i := range numRows {
		row := data[i*numCols : (i+1)*numCols]
		for j := range row {
			row[j] = r.int32Range(minVal, maxVal)
		}
		rows[i] = row
	}

	return rows
}

// Clone deep-copies a grid.
func Clone(rows [][]int32) [][]int32 {
	out := make([][]int32, len(rows))
	for i, row := range rows {
		out[i] = make([]int32, len(row))
		copy(out[i], row)
	}
	return out
}
