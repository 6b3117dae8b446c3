// Package mmap provides read-only memory-mapped file access for zero-copy
// dataset ingest.
//
// On unix platforms the file is mapped with mmap(2) and the kernel is hinted
// about the expected access pattern. Elsewhere the file is read into memory,
// which keeps the API uniform at the cost of one copy.
package mmap

import (
	"errors"
	"os"
	"sync/atomic"
)

// ErrClosed is returned when accessing a closed mapping.
var ErrClosed = errors.New("mmap: mapping is closed")

// AccessPattern hints how the mapped data will be accessed.
type AccessPattern int

const (
	// AccessDefault leaves the kernel's default paging behavior in place.
	AccessDefault AccessPattern = iota
	// AccessSequential expects a single front-to-back pass.
	AccessSequential
	// AccessRandom expects scattered point access.
	AccessRandom
)

// Mapping is a read-only mapping of a file. It owns the mapped bytes and is
// responsible for releasing them.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	return &Mapping{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped bytes. The slice is valid only until Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Advise hints the kernel about the expected access pattern. The hint is
// advisory; platforms without madvise accept it as a no-op.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// Close releases the mapping. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}
