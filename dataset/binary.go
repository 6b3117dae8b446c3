package dataset

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"iter"

	"github.com/hupe1980/tabgo/internal/mmap"
)

// Compile-time checks to ensure binary sources satisfy the Source interface.
var (
	_ Source = (*Binary)(nil)
	_ Source = (*BinaryFile)(nil)
)

// WriteBinary consumes src and writes it as a binary dataset: file header,
// row records, and a trailing payload CRC32.
func WriteBinary(ctx context.Context, w io.Writer, src Source) error {
	data, numRows, err := ReadAll(ctx, src)
	if err != nil {
		return err
	}

	header := FileHeader{
		Magic:      FormatMagic,
		Version:    FormatVersion,
		Flags:      FlagChecksummed,
		NumCols:    uint32(src.NumCols()), //nolint:gosec
		NumRows:    uint64(numRows),       //nolint:gosec
		DataOffset: HeaderSize,
	}
	if _, err := header.WriteTo(w); err != nil {
		return fmt.Errorf("dataset: write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("dataset: write rows: %w", err)
	}

	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], crc32.ChecksumIEEE(data))
	if _, err := w.Write(sum[:]); err != nil {
		return fmt.Errorf("dataset: write payload checksum: %w", err)
	}

	return nil
}

// Binary is a streaming Source over binary dataset input. The header is read
// at construction; records are read one at a time during iteration, so the
// stream can sit behind a decompressor without buffering the payload.
//
// A Binary can be iterated only once.
type Binary struct {
	r        io.Reader
	header   FileHeader
	consumed bool
}

// NewBinary creates a streaming binary source by reading the header from r.
func NewBinary(r io.Reader) (*Binary, error) {
	var header FileHeader
	if _, err := header.ReadFrom(r); err != nil {
		return nil, err
	}
	if header.NumCols == 0 {
		return nil, ErrNoColumns
	}
	if header.DataOffset > HeaderSize {
		if _, err := io.CopyN(io.Discard, r, int64(header.DataOffset)-HeaderSize); err != nil {
			return nil, fmt.Errorf("dataset: skip to row data: %w", err)
		}
	}

	return &Binary{r: r, header: header}, nil
}

// NumCols returns the number of fields per row.
func (b *Binary) NumCols() int { return int(b.header.NumCols) }

// NumRows returns the declared number of rows.
func (b *Binary) NumRows() int { return int(b.header.NumRows) } //nolint:gosec

// Header returns a copy of the decoded file header.
func (b *Binary) Header() FileHeader { return b.header }

// Rows yields the stream's records. The record buffer is reused between
// rows. The payload checksum, when present, is verified after the last
// record.
func (b *Binary) Rows(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if b.consumed {
			yield(nil, errors.New("dataset: binary stream already consumed"))
			return
		}
		b.consumed = true

		record := make([]byte, b.header.RowWidth())
		var crc uint32
		for i := uint64(0); i < b.header.NumRows; i++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			if _, err := io.ReadFull(b.r, record); err != nil {
				yield(nil, fmt.Errorf("dataset: read row %d: %w", i, err))
				return
			}
			if b.header.Checksummed() {
				crc = crc32.Update(crc, crc32.IEEETable, record)
			}
			if !yield(record, nil) {
				return
			}
		}

		if b.header.Checksummed() {
			var sum [4]byte
			if _, err := io.ReadFull(b.r, sum[:]); err != nil {
				yield(nil, fmt.Errorf("dataset: read payload checksum: %w", err))
				return
			}
			if binary.LittleEndian.Uint32(sum[:]) != crc {
				yield(nil, fmt.Errorf("%w: payload checksum mismatch", ErrCorrupted))
				return
			}
		}
	}
}

// BinaryFile is a Source over a memory-mapped binary dataset file. Records
// are served as zero-copy slices of the mapping. Close releases the mapping;
// callers must not use yielded records after Close.
type BinaryFile struct {
	m      *mmap.Mapping
	header FileHeader
	data   []byte // row payload within the mapping
}

// OpenBinary maps a binary dataset file read-only and validates its header
// and, when present, its payload checksum.
func OpenBinary(path string) (*BinaryFile, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open binary: %w", err)
	}
	_ = m.Advise(mmap.AccessSequential) // ingest is one front-to-back pass

	bf, err := newBinaryFile(m)
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	return bf, nil
}

func newBinaryFile(m *mmap.Mapping) (*BinaryFile, error) {
	buf := m.Bytes()

	var header FileHeader
	if _, err := header.ReadFrom(bytes.NewReader(buf)); err != nil {
		return nil, err
	}
	if header.NumCols == 0 {
		return nil, ErrNoColumns
	}

	end := int64(header.DataOffset) + header.DataSize()
	total := end
	if header.Checksummed() {
		total += 4
	}
	if total > int64(len(buf)) {
		return nil, fmt.Errorf("%w: file is %d bytes, header declares %d", ErrCorrupted, len(buf), total)
	}

	data := buf[header.DataOffset:end]
	if header.Checksummed() {
		sum := binary.LittleEndian.Uint32(buf[end : end+4])
		if crc32.ChecksumIEEE(data) != sum {
			return nil, fmt.Errorf("%w: payload checksum mismatch", ErrCorrupted)
		}
	}

	return &BinaryFile{m: m, header: header, data: data}, nil
}

// NumCols returns the number of fields per row.
func (f *BinaryFile) NumCols() int { return int(f.header.NumCols) }

// NumRows returns the number of rows.
func (f *BinaryFile) NumRows() int { return int(f.header.NumRows) } //nolint:gosec

// Header returns a copy of the decoded file header.
func (f *BinaryFile) Header() FileHeader { return f.header }

// Rows yields the file's records as slices of the mapping.
func (f *BinaryFile) Rows(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		rowWidth := f.header.RowWidth()
		for i := 0; i < f.NumRows(); i++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(f.data[i*rowWidth:(i+1)*rowWidth], nil) {
				return
			}
		}
	}
}

// Close releases the file mapping.
func (f *BinaryFile) Close() error {
	return f.m.Close()
}
