// Package tabgo provides an in-memory analytical table store for Go.
//
// Tabgo keeps tables of 32-bit integer fields in memory under
// interchangeable physical layouts and answers a fixed set of scan and
// update queries. Query results never depend on the chosen layout; only
// the access costs differ:
//
//   - Row-major: one contiguous arena, rows stored back to back
//   - Column-major: one arena per table, columns stored back to back
//   - Indexed-row: row-major plus an ordered secondary index over one column
//   - Hybrid: two row-major column groups with a per-row sum cache
//
// # Quick Start
//
//	ctx := context.Background()
//
//	store, _ := tabgo.RowMajor()
//
//	src, _ := dataset.Open("trades.bin")
//	if err := store.Load(ctx, src); err != nil {
//	    log.Fatal(err)
//	}
//
//	total := store.ColumnSum()
//
// # Datasets
//
// Tables load from dataset.Source values: in-memory grids, CSV, a
// checksummed binary format with optional gzip/zstd/lz4 compression,
// deterministic random generators, or objects fetched from local disk,
// S3, or MinIO. A catalog maps dataset names to stored objects:
//
//	cat, _ := catalog.NewFile("./catalog.json")
//	fetcher := fetch.NewLocal("./data")
//	_ = store.LoadFromCatalog(ctx, cat, fetcher, "trades-2026-08")
//
// # Queries
//
// The query surface addresses columns by position:
//
//	store.ColumnSum()                 // sum of column 0
//	store.PredicatedColumnSum(t1, t2) // sum of column 0 where col1 > t1 and col2 < t2
//	store.PredicatedAllColumnsSum(t)  // sum of all fields of rows where col0 > t
//	store.PredicatedUpdate(t)         // col3 = col2 + col3 where col0 < t
//
// Predicate bounds are strict: a row equal to a threshold never
// qualifies. Field access outside the loaded table panics.
//
// # Concurrency
//
// A Store and its underlying table are single-caller. No method may be
// invoked concurrently with any other method on the same Store.
package tabgo
