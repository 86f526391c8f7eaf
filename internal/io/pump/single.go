package pump

import (
	"context"
	"io"

	"github.com/linefeedio/linefeed/internal/errors"
	"github.com/linefeedio/linefeed/internal/io/pool"
)

// SinglePump is the no-prefetch baseline: one buffer, a synchronous fill
// per Next, no overlap and no swap bookkeeping. It exists as a complexity
// and throughput comparison point for Pump, not as a separate algorithm.
type SinglePump[T any] struct {
	f      Filler[T]
	buf    []T
	pool   pool.Pool[T]
	closed bool
	err    error
}

// NewSinglePump creates a single-buffer pump reading blocks of up to size
// elements from f.
func NewSinglePump[T any](f Filler[T], size int, p pool.Pool[T]) *SinglePump[T] {
	if p == nil {
		p = pool.NewSyncPool[T](size)
	}
	return &SinglePump[T]{
		f:    f,
		buf:  p.Rent(size)[:size],
		pool: p,
	}
}

// Next fills the buffer and returns its filled prefix. io.EOF is the
// terminal signal.
func (p *SinglePump[T]) Next(ctx context.Context) ([]T, error) {
	if p.closed {
		return nil, p.err
	}
	if err := ctx.Err(); err != nil {
		p.finish(err)
		return nil, err
	}
	n, err := p.f.Fill(ctx, p.buf)
	if err != nil && err != io.EOF {
		err = errors.Wrap(err, "pump fill")
		p.finish(err)
		return nil, err
	}
	if n == 0 {
		p.finish(io.EOF)
		return nil, io.EOF
	}
	return p.buf[:n], nil
}

// Close releases the buffer. Subsequent Next calls return ErrPumpClosed.
func (p *SinglePump[T]) Close() {
	if !p.closed {
		p.finish(errors.ErrPumpClosed)
	}
}

func (p *SinglePump[T]) finish(err error) {
	p.closed = true
	p.err = err
	if p.buf != nil {
		p.pool.Return(p.buf)
		p.buf = nil
	}
}
