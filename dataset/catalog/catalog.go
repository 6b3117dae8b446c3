// Package catalog maintains a registry of named dataset descriptors.
//
// A Descriptor records where a dataset object lives and how to decode it.
// Catalogs resolve a short name ("trades-2026-08") into a dataset.Source
// without the caller knowing the object layout. Backends exist for a local
// JSON file and for DynamoDB.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/dataset/fetch"
)

var (
	// ErrNotFound is returned when a named descriptor does not exist.
	ErrNotFound = errors.New("catalog: not found")

	// ErrAlreadyExists is returned when registering a name that is taken.
	ErrAlreadyExists = errors.New("catalog: already exists")
)

// Descriptor describes a registered dataset object.
type Descriptor struct {
	// Name is the catalog key.
	Name string `json:"name"`

	// Object is the fetcher-relative object name.
	Object string `json:"object"`

	// Format is the payload format, e.g. dataset.FormatBinary.
	Format string `json:"format"`

	// Compression is the payload compression, e.g. dataset.CompressionGzip.
	// Empty means uncompressed.
	Compression string `json:"compression,omitempty"`

	// NumCols is the declared column count. Zero means unknown.
	NumCols int64 `json:"num_cols,omitempty"`

	// NumRows is the declared row count. Zero means unknown.
	NumRows int64 `json:"num_rows,omitempty"`
}

// Catalog is a registry of dataset descriptors.
type Catalog interface {
	// Get returns the descriptor registered under name.
	Get(ctx context.Context, name string) (Descriptor, error)

	// Put registers a descriptor under its name. Registering a name that
	// already exists returns ErrAlreadyExists.
	Put(ctx context.Context, d Descriptor) error

	// List returns the registered names in ascending order.
	List(ctx context.Context) ([]string, error)
}

// Resolve looks up name in c, fetches the described object through f and
// decodes it according to the descriptor. A column count declared by the
// descriptor is verified against the decoded payload.
func Resolve(ctx context.Context, c Catalog, f fetch.Fetcher, name string) (dataset.Source, error) {
	d, err := c.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	rc, _, err := f.Open(ctx, d.Object)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", d.Object, err)
	}
	defer rc.Close()

	compression := d.Compression
	if compression == "" {
		compression = dataset.CompressionNone
	}

	src, err := dataset.DecodeAs(rc, d.Format, compression)
	if err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", name, err)
	}

	if d.NumCols > 0 && int64(src.NumCols()) != d.NumCols {
		return nil, fmt.Errorf("catalog: %s: descriptor declares %d columns, payload has %d", name, d.NumCols, src.NumCols())
	}

	return src, nil
}
