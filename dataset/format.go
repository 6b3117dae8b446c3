package dataset

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"

	"github.com/hupe1980/tabgo/field"
)

const (
	// FormatMagic identifies binary dataset files (ASCII: "TBD1").
	FormatMagic uint32 = 0x54424431

	// FormatVersion is the current binary dataset format version.
	FormatVersion uint32 = 1

	// HeaderSize is the size of the file header in bytes.
	HeaderSize = 40

	// FlagChecksummed indicates that a CRC32 of the row payload follows the
	// last record.
	FlagChecksummed uint32 = 1 << 0
)

var (
	// ErrInvalidMagic is returned when input lacks the binary dataset magic number.
	ErrInvalidMagic = errors.New("dataset: invalid magic number")

	// ErrInvalidVersion is returned when input has an unsupported format version.
	ErrInvalidVersion = errors.New("dataset: unsupported format version")

	// ErrCorrupted is returned when checksum validation fails or declared and
	// actual sizes disagree.
	ErrCorrupted = errors.New("dataset: corrupted input")
)

// FileHeader is the 40-byte header at the start of binary dataset files.
//
// All multi-byte fields are little-endian.
type FileHeader struct {
	Magic      uint32 // 0x54424431 ("TBD1")
	Version    uint32 // Format version (currently 1)
	Flags      uint32 // Feature flags
	NumCols    uint32 // Fields per row
	NumRows    uint64 // Row records following the header
	DataOffset uint64 // Offset of the first row record
	Checksum   uint32 // CRC32 of the preceding header bytes
	// 4 reserved bytes pad the header to 40 bytes.
}

// Validate checks that the header is structurally valid.
func (h *FileHeader) Validate() error {
	if h.Magic != FormatMagic {
		return ErrInvalidMagic
	}
	if h.Version > FormatVersion {
		return ErrInvalidVersion
	}
	if h.DataOffset < HeaderSize {
		return ErrCorrupted
	}
	return nil
}

// Checksummed returns true if a payload CRC32 follows the last record.
func (h *FileHeader) Checksummed() bool {
	return h.Flags&FlagChecksummed != 0
}

// RowWidth returns the size of one row record in bytes.
func (h *FileHeader) RowWidth() int {
	return int(h.NumCols) * field.Width
}

// DataSize returns the size of the row payload in bytes.
func (h *FileHeader) DataSize() int64 {
	return int64(h.NumRows) * int64(h.RowWidth())
}

// WriteTo writes the header to w, computing the header checksum.
func (h *FileHeader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.Flags)
	binary.LittleEndian.PutUint32(buf[12:16], h.NumCols)
	binary.LittleEndian.PutUint64(buf[16:24], h.NumRows)
	binary.LittleEndian.PutUint64(buf[24:32], h.DataOffset)

	// Checksum covers the first 32 bytes (excludes checksum + reserved).
	h.Checksum = crc32.ChecksumIEEE(buf[:32])
	binary.LittleEndian.PutUint32(buf[32:36], h.Checksum)

	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom reads and validates the header from r.
func (h *FileHeader) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(n), err
	}

	h.Magic = binary.LittleEndian.Uint32(buf[0:4])
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	h.Flags = binary.LittleEndian.Uint32(buf[8:12])
	h.NumCols = binary.LittleEndian.Uint32(buf[12:16])
	h.NumRows = binary.LittleEndian.Uint64(buf[16:24])
	h.DataOffset = binary.LittleEndian.Uint64(buf[24:32])
	h.Checksum = binary.LittleEndian.Uint32(buf[32:36])

	if h.Magic != FormatMagic {
		return int64(n), ErrInvalidMagic
	}
	if expected := crc32.ChecksumIEEE(buf[:32]); h.Checksum != expected {
		return int64(n), ErrCorrupted
	}

	return int64(n), h.Validate()
}
