// Package minio provides a dataset fetcher backed by MinIO or any other
// S3-compatible object store.
package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/tabgo/dataset/fetch"
	"github.com/minio/minio-go/v7"
)

// Compile-time check to ensure Fetcher satisfies the fetch.Fetcher interface.
var _ fetch.Fetcher = (*Fetcher)(nil)

// Fetcher implements fetch.Fetcher for MinIO.
type Fetcher struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates a new MinIO fetcher.
// rootPrefix is prepended to all keys (e.g. "datasets/").
func New(client *minio.Client, bucket, rootPrefix string) *Fetcher {
	return &Fetcher{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (f *Fetcher) key(name string) string {
	return path.Join(f.prefix, name)
}

// Open returns a stream over the named object and its size.
func (f *Fetcher) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	key := f.key(name)

	// Stat to verify existence and size
	info, err := f.client.StatObject(ctx, f.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, 0, fmt.Errorf("%w: %s", fetch.ErrNotFound, name)
		}
		return nil, 0, err
	}

	obj, err := f.client.GetObject(ctx, f.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}

	return obj, info.Size, nil
}
