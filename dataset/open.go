package dataset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format names used by sniffing and catalog descriptors.
const (
	FormatBinary = "binary"
	FormatCSV    = "csv"
)

// Compression names used by sniffing and catalog descriptors.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

var (
	// ErrUnknownFormat is returned for an unrecognized format name.
	ErrUnknownFormat = errors.New("dataset: unknown format")

	// ErrUnknownCompression is returned for an unrecognized compression name.
	ErrUnknownCompression = errors.New("dataset: unknown compression")
)

const (
	zstdFrameMagic uint32 = 0xFD2FB528
	lz4FrameMagic  uint32 = 0x184D2204
)

// Open opens a dataset file, detecting compression and format by magic
// bytes: gzip, zstd, and lz4 frames are decompressed; binary dataset
// payloads are decoded; anything else is parsed as CSV.
//
// A plain (uncompressed) binary file is served zero-copy from a file
// mapping; the returned Source then implements io.Closer and should be
// closed after the table has loaded.
func Open(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open: %w", err)
	}

	var prefix [4]byte
	n, _ := io.ReadFull(f, prefix[:])
	if isBinaryMagic(prefix[:n]) {
		_ = f.Close()
		return OpenBinary(path)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("dataset: open: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a dataset from r, detecting compression and format by magic
// bytes. The input is buffered in full before parsing.
func Decode(r io.Reader) (Source, error) {
	br := bufio.NewReader(r)
	prefix, err := br.Peek(4)
	if len(prefix) == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset: decode: %w", err)
		}
		return nil, ErrEmptyInput
	}

	rc, err := NewDecompressor(br, sniffCompression(prefix))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	buf, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("dataset: decompress: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyInput
	}

	if isBinaryMagic(buf) {
		return NewBinary(bytes.NewReader(buf))
	}
	return parseCSV(buf, DefaultCSVOptions)
}

// DecodeAs reads a dataset from r using explicit format and compression
// names, as recorded in catalog descriptors.
func DecodeAs(r io.Reader, format, compression string) (Source, error) {
	rc, err := NewDecompressor(r, compression)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	switch format {
	case FormatBinary:
		buf, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("dataset: decompress: %w", err)
		}
		return NewBinary(bytes.NewReader(buf))
	case FormatCSV:
		return NewCSV(rc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// NewDecompressor wraps r with the decompressor for the named compression.
// CompressionNone (or empty) passes r through.
func NewDecompressor(r io.Reader, compression string) (io.ReadCloser, error) {
	switch compression {
	case CompressionNone, "":
		return io.NopCloser(r), nil
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("dataset: gzip: %w", err)
		}
		return gz, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("dataset: zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, compression)
	}
}

func sniffCompression(prefix []byte) string {
	if len(prefix) >= 2 && prefix[0] == 0x1f && prefix[1] == 0x8b {
		return CompressionGzip
	}
	if len(prefix) >= 4 {
		switch binary.LittleEndian.Uint32(prefix) {
		case zstdFrameMagic:
			return CompressionZstd
		case lz4FrameMagic:
			return CompressionLZ4
		}
	}
	return CompressionNone
}

func isBinaryMagic(prefix []byte) bool {
	return len(prefix) >= 4 && binary.LittleEndian.Uint32(prefix) == FormatMagic
}
