package dataset

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewRateLimitedReader wraps r so reads are paced by limiter, charging one
// token per byte. A single read never exceeds the limiter's burst. The
// context bounds waiting; its cancellation fails the next Read.
func NewRateLimitedReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) io.Reader {
	return &rateLimitedReader{ctx: ctx, r: r, limiter: limiter}
}

type rateLimitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (r *rateLimitedReader) Read(p []byte) (int, error) {
	if burst := r.limiter.Burst(); burst > 0 && len(p) > burst {
		p = p[:burst]
	}

	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.limiter.WaitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
