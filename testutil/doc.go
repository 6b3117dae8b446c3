// Package testutil provides testing utilities for tabgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic grid generation and a brute-force reference
// table that layout tests compare their results against.
//
// # Random Grid Generation
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.Grid(1000, 4, 0, 100) // 1000×4 fields in [0, 100)
//
// # Reference Results (Ground Truth)
//
//	ref := testutil.NewReference(rows)
//	want := ref.PredicatedColumnSum(t1, t2)
package testutil
