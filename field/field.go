// Package field implements the fixed-width signed-integer field codec shared
// by every table layout.
//
// A field is a 4-byte little-endian two's-complement integer stored at an
// arbitrary byte offset of a contiguous arena. Dataset row records use the
// same encoding, so ingest and point access always agree on byte
// interpretation.
package field

import "encoding/binary"

// Width is the size in bytes of one encoded field.
const Width = 4

// Get decodes the field at byte offset off of buf.
func Get(buf []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[off : off+Width]))
}

// Put encodes v at byte offset off of buf.
func Put(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:off+Width], uint32(v))
}

// Append appends the encoding of v to buf and returns the extended slice.
func Append(buf []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(v))
}
