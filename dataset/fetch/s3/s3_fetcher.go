// Package s3 provides a dataset fetcher backed by AWS S3.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/tabgo/dataset/fetch"
)

// Client is the interface for the S3 operations the fetcher uses.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Compile-time check to ensure Fetcher satisfies the fetch.Fetcher interface.
var _ fetch.Fetcher = (*Fetcher)(nil)

// Fetcher implements fetch.Fetcher for S3.
type Fetcher struct {
	client Client
	bucket string
	prefix string
}

// New creates a new S3 fetcher.
// rootPrefix is prepended to all keys (e.g. "datasets/").
func New(client Client, bucket, rootPrefix string) *Fetcher {
	return &Fetcher{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

// NewFromConfig creates a new S3 fetcher using the default AWS credential
// and region chain.
func NewFromConfig(ctx context.Context, bucket, rootPrefix string) (*Fetcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return New(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

func (f *Fetcher) key(name string) string {
	return path.Join(f.prefix, name)
}

// Open returns a stream over the named object and its size.
func (f *Fetcher) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	key := f.key(name)

	// Get metadata to verify existence and size
	head, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, 0, fmt.Errorf("%w: %s", fetch.ErrNotFound, name)
		}
		return nil, 0, err
	}

	obj, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, 0, fmt.Errorf("%w: %s", fetch.ErrNotFound, name)
		}
		return nil, 0, err
	}

	size := int64(-1)
	if head.ContentLength != nil {
		size = *head.ContentLength
	}

	return obj.Body, size, nil
}

// Download buffers the named object in memory using concurrent ranged
// requests. Prefer Open for sequential one-pass ingest.
func (f *Fetcher) Download(ctx context.Context, name string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)

	downloader := manager.NewDownloader(f.client)
	if _, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(name)),
	}); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", fetch.ErrNotFound, name)
		}
		return nil, err
	}

	return buf.Bytes(), nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}
