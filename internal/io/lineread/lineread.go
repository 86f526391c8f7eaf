// Package lineread applies one-deep prefetching at line granularity: the
// request for line N+1 is issued before line N is yielded, so the transport
// works on the next line while the consumer handles the current one. It
// relies on a transport-native read-one-line primitive and therefore never
// deals with delimiters or partial lines itself; it exists to measure the
// benefit of prefetching independent of manual delimiter handling.
package lineread

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/linefeedio/linefeed/internal/errors"
)

// LineSource is a transport-native primitive returning one whole decoded
// line per call, without its delimiter.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

type lineResult struct {
	line string
	err  error
}

// Reader yields lines one prefetch ahead of the consumer. Not safe for
// concurrent use.
type Reader struct {
	src     LineSource
	log     *zap.Logger
	pending chan lineResult
	started bool
	closed  bool
	err     error
}

// Option configures a reader at construction time.
type Option func(*Reader)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReader creates a preemptive reader over src.
func NewReader(src LineSource, opts ...Option) *Reader {
	r := &Reader{
		src: src,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next line, issuing the request for the following one
// before returning. io.EOF is the terminal signal. Cancellation is checked
// only when a request is issued, never mid-line; a cancellation reported by
// the primitive itself is treated as an ordinary end of sequence, so no
// partial line is ever surfaced.
func (r *Reader) Next(ctx context.Context) (string, error) {
	if r.closed {
		return "", r.err
	}
	if !r.started {
		if err := ctx.Err(); err != nil {
			r.finish(err)
			return "", err
		}
		r.started = true
		r.issue(ctx)
	}
	res := <-r.pending
	if res.err != nil {
		switch {
		case res.err == io.EOF:
			r.finish(io.EOF)
		case errors.Is(res.err, context.Canceled),
			errors.Is(res.err, context.DeadlineExceeded):
			// The primitive observed cancellation internally; end the
			// sequence without surfacing a partial line.
			r.finish(io.EOF)
		default:
			r.finish(errors.Wrap(res.err, "read line"))
		}
		return "", r.err
	}
	if err := ctx.Err(); err != nil {
		r.finish(err)
		return "", err
	}
	r.issue(ctx)
	return res.line, nil
}

func (r *Reader) issue(ctx context.Context) {
	ch := make(chan lineResult, 1)
	r.pending = ch
	go func() {
		line, err := r.src.ReadLine(ctx)
		ch <- lineResult{line: line, err: err}
	}()
}

// Close ends the sequence, draining an outstanding request first.
// Subsequent Next calls return io.EOF.
func (r *Reader) Close() {
	if r.closed {
		return
	}
	if r.started && r.pending != nil {
		<-r.pending
	}
	r.finish(io.EOF)
}

func (r *Reader) finish(err error) {
	r.closed = true
	r.err = err
	r.pending = nil
}
