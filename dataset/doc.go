// Package dataset supplies table layouts with ordered sequences of
// fixed-width rows.
//
// A Source reports a column count and yields one fixed-width record per row:
// the row's 4-byte little-endian signed-integer fields in column order.
// Tables consume a source exactly once, assigning row ids by sequence
// position.
//
// # Sources
//
//	src, _ := dataset.NewMemory(4, [][]int32{{10, 1, 5, 2}, {20, 3, 1, 7}})
//	src, _ := dataset.OpenCSV("fixtures/people.csv")
//	src, _ := dataset.OpenBinary("fixtures/people.tbd")
//	src, _ := dataset.NewRandom(100_000, 8, func(o *dataset.RandomOptions) {
//	    o.Seed = 42
//	})
//
// dataset.Open sniffs the on-disk format (binary, CSV, or either behind
// gzip/zstd/lz4 compression) and returns the matching source:
//
//	src, _ := dataset.Open("fixtures/people.csv.zst")
//
// Remote objects resolve through a fetch.Fetcher:
//
//	f, _ := s3.NewFromConfig(ctx, "bench-data", "tpch")
//	src, _ := dataset.FetchSource(ctx, f, "lineitem.tbd.gz")
package dataset
