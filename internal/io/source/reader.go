package source

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/linefeedio/linefeed/internal/errors"
)

// ReaderSource adapts any io.Reader to the Source contract. Each Read call
// performs at most one underlying read, appends the result to the buffered
// window, and presents the whole window. A short or empty underlying read
// therefore surfaces as a window with little or no growth, which is exactly
// the no-forward-progress case downstream consumers must absorb.
type ReaderSource struct {
	r         io.Reader
	win       window
	eof       bool
	completed bool
	opts      options
	once      sync.Once
}

// NewReaderSource creates a chunk source reading from r.
func NewReaderSource(r io.Reader, opts ...Option) *ReaderSource {
	o := newOptions(opts)
	return &ReaderSource{
		r:    r,
		win:  newWindow(o.pool, o.chunkSize),
		opts: o,
	}
}

// Read appends one underlying read to the window and returns it. Reading
// from a completed source is a contract violation and reports
// ErrSourceCompleted.
func (s *ReaderSource) Read(ctx context.Context) (Chunk, error) {
	if err := ctx.Err(); err != nil {
		return Chunk{}, err
	}
	if s.completed {
		return Chunk{}, errors.ErrSourceCompleted
	}
	if !s.eof {
		tail := s.win.tail(s.opts.chunkSize)
		n, err := s.r.Read(tail)
		if n > 0 {
			s.win.extend(n)
		}
		switch {
		case err == io.EOF:
			s.eof = true
		case err != nil:
			return Chunk{}, errors.Wrap(err, "source read")
		}
	}
	return Chunk{Data: s.win.view(), EOF: s.eof}, nil
}

// Advance consumes n bytes from the window head.
func (s *ReaderSource) Advance(n int) {
	s.win.advance(n)
}

// Complete releases the window buffer and closes the attached closer, if
// any. Safe to call multiple times; only the first call takes effect.
func (s *ReaderSource) Complete(err error) {
	s.once.Do(func() {
		s.completed = true
		s.win.release()
		if err != nil {
			s.opts.log.Debug("source completed with error", zap.Error(err))
		}
		if s.opts.closer != nil {
			if cerr := s.opts.closer.Close(); cerr != nil {
				s.opts.log.Warn("source close failed", zap.Error(cerr))
			}
		}
	})
}
