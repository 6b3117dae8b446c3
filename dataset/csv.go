package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"runtime"

	"github.com/hupe1980/tabgo/field"
	"golang.org/x/sync/errgroup"
)

// Compile-time check to ensure CSV satisfies the Source interface.
var _ Source = (*CSV)(nil)

// CSVOptions contains configuration options for CSV parsing.
type CSVOptions struct {
	// Comma is the field separator byte.
	Comma byte

	// SkipHeader drops the first line before parsing.
	SkipHeader bool

	// Workers bounds the number of parallel parse workers. Zero or negative
	// means GOMAXPROCS.
	Workers int
}

// DefaultCSVOptions contains the default configuration options for CSV parsing.
var DefaultCSVOptions = CSVOptions{
	Comma: ',',
}

// CSV is a Source over comma-separated integer text. The whole input is read
// and parsed once at construction; line chunks are parsed in parallel into
// disjoint regions of a pre-sized grid, so row order is preserved.
//
// Each non-blank line is one row of decimal int32 fields. Leading/trailing
// ASCII spaces around a field and a trailing CR are tolerated; blank lines
// are skipped. The column count is taken from the first parsed line.
type CSV struct {
	numCols int
	numRows int
	values  []int32 // row-major parsed fields
}

// NewCSV creates a CSV source by reading and parsing r in full.
func NewCSV(r io.Reader, optFns ...func(o *CSVOptions)) (*CSV, error) {
	opts := DefaultCSVOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv: %w", err)
	}

	return parseCSV(content, opts)
}

// OpenCSV creates a CSV source from a file.
func OpenCSV(path string, optFns ...func(o *CSVOptions)) (*CSV, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open csv: %w", err)
	}

	opts := DefaultCSVOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	return parseCSV(content, opts)
}

// NumCols returns the number of fields per row.
func (c *CSV) NumCols() int { return c.numCols }

// NumRows returns the number of parsed rows.
func (c *CSV) NumRows() int { return c.numRows }

// Rows yields the parsed rows as encoded records. The record buffer is
// reused between rows.
func (c *CSV) Rows(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		record := make([]byte, c.numCols*field.Width)
		for r := range c.numRows {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			encodeRow(record, c.values[r*c.numCols:(r+1)*c.numCols])
			if !yield(record, nil) {
				return
			}
		}
	}
}

func parseCSV(content []byte, opts CSVOptions) (*CSV, error) {
	if opts.SkipHeader {
		if idx := bytes.IndexByte(content, '\n'); idx != -1 {
			content = content[idx+1:]
		} else {
			content = nil
		}
	}

	first, ok := firstLine(content)
	if !ok {
		return nil, ErrEmptyInput
	}
	numCols := bytes.Count(first, []byte{opts.Comma}) + 1

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	bounds := chunkBounds(content, workers)
	numChunks := len(bounds) - 1

	// Count rows per chunk first so each worker writes a disjoint,
	// exactly-sized region of the grid.
	rowCounts := make([]int, numChunks)
	var cg errgroup.Group
	cg.SetLimit(workers)
	for i := range numChunks {
		cg.Go(func() error {
			rowCounts[i] = countRows(content[bounds[i]:bounds[i+1]])
			return nil
		})
	}
	_ = cg.Wait()

	offsets := make([]int, numChunks)
	numRows := 0
	for i, n := range rowCounts {
		offsets[i] = numRows
		numRows += n
	}
	if numRows == 0 {
		return nil, ErrEmptyInput
	}

	values := make([]int32, numRows*numCols)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range numChunks {
		g.Go(func() error {
			return parseChunk(content[bounds[i]:bounds[i+1]], opts.Comma, numCols, offsets[i], values)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CSV{numCols: numCols, numRows: numRows, values: values}, nil
}

// parseChunk parses the non-blank lines of chunk into values, starting at row
// id rowOffset. The chunk must begin at a line start and end at a line end.
func parseChunk(chunk []byte, comma byte, numCols, rowOffset int, values []int32) error {
	sep := []byte{comma}
	row := rowOffset

	for len(chunk) > 0 {
		var line []byte
		if idx := bytes.IndexByte(chunk, '\n'); idx != -1 {
			line, chunk = chunk[:idx], chunk[idx+1:]
		} else {
			line, chunk = chunk, nil
		}
		if isBlank(line) {
			continue
		}

		dst := values[row*numCols : (row+1)*numCols]
		rest := line
		for c := range numCols {
			var fieldBytes []byte
			if c == numCols-1 {
				if bytes.IndexByte(rest, comma) != -1 {
					return fmt.Errorf("dataset: csv row %d has more than %d fields", row, numCols)
				}
				fieldBytes, rest = rest, nil
			} else {
				var found bool
				fieldBytes, rest, found = bytes.Cut(rest, sep)
				if !found {
					return fmt.Errorf("dataset: csv row %d has %d fields, want %d", row, c+1, numCols)
				}
			}

			v, err := parseInt32(fieldBytes)
			if err != nil {
				return fmt.Errorf("dataset: csv row %d column %d: %w", row, c, err)
			}
			dst[c] = v
		}

		row++
	}

	return nil
}

// parseInt32 parses a decimal int32, tolerating surrounding ASCII spaces and
// a trailing CR. Manual parsing keeps the hot loop allocation-free.
func parseInt32(b []byte) (int32, error) {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	if len(b) == 0 {
		return 0, errors.New("empty field")
	}

	neg := false
	switch b[0] {
	case '-':
		neg = true
		b = b[1:]
	case '+':
		b = b[1:]
	}
	if len(b) == 0 {
		return 0, errors.New("missing digits")
	}

	var n int64
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("invalid character %q", ch)
		}
		n = n*10 + int64(ch-'0')
		if n > math.MaxInt32+1 {
			return 0, errors.New("value out of int32 range")
		}
	}
	if neg {
		n = -n
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, errors.New("value out of int32 range")
	}

	return int32(n), nil
}

// chunkBounds splits content into up to n byte ranges aligned to line starts.
// The returned slice holds range borders: chunk i is content[bounds[i]:bounds[i+1]].
func chunkBounds(content []byte, n int) []int {
	if n < 1 {
		n = 1
	}

	bounds := []int{0}
	chunkSize := len(content)/n + 1
	for pos := chunkSize; pos < len(content); pos += chunkSize {
		// Move forward to the byte after the next newline.
		idx := bytes.IndexByte(content[pos:], '\n')
		if idx == -1 {
			break
		}
		next := pos + idx + 1
		if next > bounds[len(bounds)-1] && next < len(content) {
			bounds = append(bounds, next)
		}
	}
	bounds = append(bounds, len(content))

	return bounds
}

func countRows(chunk []byte) int {
	count := 0
	for len(chunk) > 0 {
		var line []byte
		if idx := bytes.IndexByte(chunk, '\n'); idx != -1 {
			line, chunk = chunk[:idx], chunk[idx+1:]
		} else {
			line, chunk = chunk, nil
		}
		if !isBlank(line) {
			count++
		}
	}
	return count
}

func firstLine(content []byte) ([]byte, bool) {
	for len(content) > 0 {
		var line []byte
		if idx := bytes.IndexByte(content, '\n'); idx != -1 {
			line, content = content[:idx], content[idx+1:]
		} else {
			line, content = content, nil
		}
		if !isBlank(line) {
			return line, true
		}
	}
	return nil, false
}

func isBlank(line []byte) bool {
	for _, ch := range line {
		if ch != ' ' && ch != '\t' && ch != '\r' {
			return false
		}
	}
	return true
}
