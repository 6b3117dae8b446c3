package tabgo

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/dataset/catalog"
	"github.com/hupe1980/tabgo/dataset/fetch"
	"github.com/hupe1980/tabgo/table"
	"github.com/hupe1980/tabgo/table/colmajor"
	"github.com/hupe1980/tabgo/table/hybrid"
	"github.com/hupe1980/tabgo/table/indexed"
	"github.com/hupe1980/tabgo/table/rowmajor"
)

var (
	// ErrNotFound is returned when a dataset or catalog entry is not found.
	ErrNotFound = errors.New("not found")
)

// Store is an analytical table with a pluggable physical layout.
type Store struct {
	table   table.Table
	metrics MetricsCollector
	logger  *Logger
}

// New creates a Store over the given table layout.
func New(tbl table.Table, optFns ...Option) (*Store, error) {
	if tbl == nil {
		return nil, errors.New("tabgo: table layout must not be nil")
	}

	opts := applyOptions(optFns)

	return &Store{
		table:   tbl,
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}, nil
}

// RowMajor creates a Store over a row-major table.
func RowMajor(optFns ...Option) (*Store, error) {
	return New(rowmajor.New(), optFns...)
}

// ColumnMajor creates a Store over a column-major table.
func ColumnMajor(optFns ...Option) (*Store, error) {
	return New(colmajor.New(), optFns...)
}

// IndexedRow creates a Store over a row-major table with an ordered
// secondary index on indexColumn.
func IndexedRow(indexColumn int, optFns ...Option) (*Store, error) {
	return New(indexed.New(indexColumn), optFns...)
}

// Hybrid creates a Store over a table split into two row-major column
// groups. To change the split point, construct the layout directly:
//
//	store, _ := tabgo.New(hybrid.New(func(o *hybrid.Options) {
//	    o.SplitColumn = 2
//	}))
func Hybrid(optFns ...Option) (*Store, error) {
	return New(hybrid.New(), optFns...)
}

// Table returns the underlying table layout.
func (s *Store) Table() table.Table { return s.table }

// Layout returns the name of the underlying layout.
func (s *Store) Layout() string { return s.table.Name() }

// NumRows returns the number of loaded rows.
func (s *Store) NumRows() int { return s.table.NumRows() }

// NumCols returns the number of fields per row.
func (s *Store) NumCols() int { return s.table.NumCols() }

// Load ingests src into the table. A Store loads exactly once; loading
// again returns ErrAlreadyLoaded.
func (s *Store) Load(ctx context.Context, src dataset.Source) error {
	start := time.Now()
	err := translateError(s.table.Load(ctx, src))
	duration := time.Since(start)
	s.metrics.RecordLoad(s.table.NumRows(), s.table.NumCols(), duration, err)
	s.logger.LogLoad(ctx, s.table.Name(), s.table.NumRows(), s.table.NumCols(), err)
	return err
}

// LoadFromFile opens the dataset file at path and loads it, detecting
// compression and format by magic bytes.
func (s *Store) LoadFromFile(ctx context.Context, path string) error {
	src, err := dataset.Open(path)
	if err != nil {
		err = translateError(err)
		s.logger.LogResolve(ctx, path, err)
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	return s.Load(ctx, src)
}

// LoadFromCatalog resolves name through the catalog, fetches the described
// object and loads it.
func (s *Store) LoadFromCatalog(ctx context.Context, c catalog.Catalog, f fetch.Fetcher, name string) error {
	src, err := catalog.Resolve(ctx, c, f, name)
	if err != nil {
		err = translateError(err)
		s.logger.LogResolve(ctx, name, err)
		return err
	}
	s.logger.LogResolve(ctx, name, nil)

	return s.Load(ctx, src)
}

// GetField returns the field at (rowID, colID). Out-of-range coordinates
// panic.
func (s *Store) GetField(rowID, colID int) int32 {
	return s.table.GetField(rowID, colID)
}

// PutField sets the field at (rowID, colID). Out-of-range coordinates
// panic.
func (s *Store) PutField(rowID, colID int, value int32) {
	s.table.PutField(rowID, colID, value)
}

// ColumnSum returns the sum of column 0 over all rows.
func (s *Store) ColumnSum() int64 {
	start := time.Now()
	sum := s.table.ColumnSum()
	s.metrics.RecordQuery("column_sum", time.Since(start))
	s.logger.LogQuery(s.table.Name(), "column_sum", sum)
	return sum
}

// PredicatedColumnSum returns the sum of column 0 over rows with
// col1 > threshold1 and col2 < threshold2.
func (s *Store) PredicatedColumnSum(threshold1, threshold2 int32) int64 {
	start := time.Now()
	sum := s.table.PredicatedColumnSum(threshold1, threshold2)
	s.metrics.RecordQuery("predicated_column_sum", time.Since(start))
	s.logger.LogQuery(s.table.Name(), "predicated_column_sum", sum)
	return sum
}

// PredicatedAllColumnsSum returns the sum of every field of rows with
// col0 > threshold.
func (s *Store) PredicatedAllColumnsSum(threshold int32) int64 {
	start := time.Now()
	sum := s.table.PredicatedAllColumnsSum(threshold)
	s.metrics.RecordQuery("predicated_all_columns_sum", time.Since(start))
	s.logger.LogQuery(s.table.Name(), "predicated_all_columns_sum", sum)
	return sum
}

// PredicatedUpdate sets col3 = col2 + col3 for rows with col0 < threshold
// and returns the number of updated rows.
func (s *Store) PredicatedUpdate(threshold int32) int {
	start := time.Now()
	updated := s.table.PredicatedUpdate(threshold)
	s.metrics.RecordUpdate(updated, time.Since(start))
	s.logger.LogUpdate(s.table.Name(), updated)
	return updated
}
