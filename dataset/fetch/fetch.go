// Package fetch retrieves remote dataset objects for one-shot sequential
// ingest.
//
// A Fetcher resolves a name to a readable object stream. Backends exist for
// the local filesystem, AWS S3 (fetch/s3), and MinIO or other S3-compatible
// stores (fetch/minio).
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a named object does not exist.
var ErrNotFound = errors.New("fetch: not found")

// Fetcher retrieves named dataset objects.
type Fetcher interface {
	// Open returns a stream over the named object and its size in bytes.
	// A negative size means unknown. The caller must close the stream.
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
}

// Compile-time check to ensure Local satisfies the Fetcher interface.
var _ Fetcher = (*Local)(nil)

// Local is a Fetcher over a directory tree.
type Local struct {
	root string
}

// NewLocal creates a Local fetcher rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

// Open opens the named file beneath the fetcher's root.
func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, int64, error) {
	f, err := os.Open(filepath.Join(l.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, 0, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}

	return f, fi.Size(), nil
}
