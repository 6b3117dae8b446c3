package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/tabgo/dataset/fetch"
	"golang.org/x/time/rate"
)

// FetchOptions contains options for FetchSource.
type FetchOptions struct {
	// RateLimit paces the download in bytes per second. Zero disables pacing.
	RateLimit int

	// Burst is the limiter burst size in bytes. Zero derives the burst from
	// RateLimit.
	Burst int
}

// DefaultFetchOptions contains the default options for FetchSource.
var DefaultFetchOptions = FetchOptions{}

// FetchSource retrieves the named object through f and decodes it into a
// Source. Compression and format are detected from the stream, so a fetched
// object may be a binary table file or a CSV file, optionally compressed.
func FetchSource(ctx context.Context, f fetch.Fetcher, name string, optFns ...func(o *FetchOptions)) (Source, error) {
	opts := DefaultFetchOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	rc, _, err := f.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dataset: fetch %s: %w", name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = opts.RateLimit
		}
		r = NewRateLimitedReader(ctx, r, rate.NewLimiter(rate.Limit(opts.RateLimit), burst))
	}

	src, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("dataset: fetch %s: %w", name, err)
	}

	return src, nil
}
