// Package pump provides a generic double-buffered prefetch loop: while the
// consumer works on the current block, the next fill request is already in
// flight into the second buffer. Overlap is exactly one request deep and
// there is no internal worker pool; a single goroutine per outstanding fill
// carries the request, and issuing the next request and handing off the
// previous result are strictly sequenced.
//
// A single-buffer variant with no prefetch is offered as a baseline for
// throughput comparisons.
package pump

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/linefeedio/linefeed/internal/errors"
	"github.com/linefeedio/linefeed/internal/io/pool"
)

// Filler fills a provided buffer and returns the element count. A count of
// zero, or io.EOF, ends the sequence. Fillers may return both a positive
// count and io.EOF for a final short fill.
type Filler[T any] interface {
	Fill(ctx context.Context, buf []T) (int, error)
}

// FillerFunc adapts a function to the Filler interface.
type FillerFunc[T any] func(ctx context.Context, buf []T) (int, error)

// Fill calls f.
func (f FillerFunc[T]) Fill(ctx context.Context, buf []T) (int, error) {
	return f(ctx, buf)
}

type fillResult struct {
	n   int
	err error
}

// Pump yields the filled prefix of two rotating buffers. A yielded view is
// valid only until the next call to Next, because that call's predecessor
// already re-targeted the same physical buffer for the following fill.
// Not safe for concurrent use.
type Pump[T any] struct {
	f    Filler[T]
	bufs [2][]T
	cur  int // buffer index of the outstanding fill
	pool pool.Pool[T]
	log  *zap.Logger

	pending  chan fillResult
	started  bool
	draining bool // final short fill yielded, next await is EOF
	closed   bool
	err      error
}

// Option configures a pump at construction time.
type Option[T any] func(*Pump[T])

// WithPool sets the buffer pool. The default is a sync.Pool sized to the
// pump's buffer size.
func WithPool[T any](p pool.Pool[T]) Option[T] {
	return func(pm *Pump[T]) {
		if p != nil {
			pm.pool = p
		}
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger[T any](log *zap.Logger) Option[T] {
	return func(pm *Pump[T]) {
		if log != nil {
			pm.log = log
		}
	}
}

// NewPump creates a pump reading blocks of up to size elements from f.
// Both buffers are rented up front and are returned on every exit path:
// normal exhaustion, error, cancellation, or Close.
func NewPump[T any](f Filler[T], size int, opts ...Option[T]) *Pump[T] {
	p := &Pump[T]{
		f:   f,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.pool == nil {
		p.pool = pool.NewSyncPool[T](size)
	}
	p.bufs[0] = p.pool.Rent(size)[:size]
	p.bufs[1] = p.pool.Rent(size)[:size]
	return p
}

// Next returns the filled prefix of the buffer whose fill completed, after
// issuing the next fill into the other buffer. io.EOF is the terminal
// signal. Cancellation is checked before a fill is issued, never against an
// already outstanding fill, which completes on its own terms.
func (p *Pump[T]) Next(ctx context.Context) ([]T, error) {
	if p.closed {
		return nil, p.err
	}
	if p.draining {
		p.finish(io.EOF)
		return nil, io.EOF
	}
	if !p.started {
		if err := ctx.Err(); err != nil {
			p.finish(err)
			return nil, err
		}
		p.started = true
		p.issue(ctx)
	}
	res := <-p.pending
	if res.err != nil && res.err != io.EOF {
		err := errors.Wrap(res.err, "pump fill")
		p.finish(err)
		return nil, err
	}
	if res.n == 0 {
		p.finish(io.EOF)
		return nil, io.EOF
	}
	view := p.bufs[p.cur][:res.n]
	if res.err == io.EOF {
		// Final short fill: nothing further to prefetch.
		p.draining = true
		p.pending = nil
	} else {
		if err := ctx.Err(); err != nil {
			p.finish(err)
			return nil, err
		}
		p.cur = 1 - p.cur
		p.issue(ctx)
	}
	return view, nil
}

// issue starts the next fill into the current buffer.
func (p *Pump[T]) issue(ctx context.Context) {
	ch := make(chan fillResult, 1)
	p.pending = ch
	buf := p.bufs[p.cur]
	go func() {
		n, err := p.f.Fill(ctx, buf)
		ch <- fillResult{n: n, err: err}
	}()
}

// Close releases both buffers, first draining an outstanding fill so no
// buffer is returned while still being written. Subsequent Next calls
// return ErrPumpClosed. Safe to call after the sequence already ended.
func (p *Pump[T]) Close() {
	if p.closed {
		return
	}
	if p.pending != nil && p.started {
		<-p.pending
	}
	p.finish(errors.ErrPumpClosed)
}

// finish ends the sequence and returns the buffers to the pool.
func (p *Pump[T]) finish(err error) {
	p.closed = true
	p.err = err
	p.pending = nil
	for i, buf := range p.bufs {
		if buf != nil {
			p.pool.Return(buf)
			p.bufs[i] = nil
		}
	}
}
