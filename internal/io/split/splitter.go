// Package split implements the chunk-boundary line splitter: a stateful
// engine over a chunk source that accumulates partial-line bytes across
// chunks, locates delimiters, decodes, and yields complete lines.
//
// The splitter is correct for any fragmentation of the input. A delimiter
// may straddle two or many chunk boundaries, and a source read gives no
// forward-progress guarantee: the same unconsumed window may come back
// until more data arrives. Bytes without a delimiter are carried in a
// holdover buffer; a window that stops growing is absorbed into the
// holdover so the loop never stalls on a starving transport.
//
// Lines are reused views. A consumer that needs a line past the next
// iteration must copy it.
package split

import (
	"bytes"
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/linefeedio/linefeed/internal/errors"
	"github.com/linefeedio/linefeed/internal/io/codec"
	"github.com/linefeedio/linefeed/internal/io/pool"
	"github.com/linefeedio/linefeed/internal/io/source"
)

// state of the splitting loop.
type state int

const (
	awaitingChunk state = iota
	scanning
	flushFinal
	done
)

// Splitter produces a lazy, non-restartable sequence of lines from a chunk
// source. The sequence is finite iff the source eventually completes or the
// context is cancelled. Not safe for concurrent use; the design is a single
// logical consumer.
type Splitter struct {
	src      source.Source
	delim    []byte
	cod      codec.Codec
	verbatim bool
	log      *zap.Logger

	holdover *bytes.Buffer
	scratch  []byte // decode destination, reused per line
	lastLen  int    // window length left buffered after the previous scan

	st        state
	err       error // terminal signal, sticky once st == done
	completed bool

	win  []byte // current window under scan
	wpos int    // scan offset into win
}

// Option configures a splitter at construction time.
type Option func(*Splitter)

// WithDelimiter sets the line delimiter, matched verbatim as a byte
// sequence. The default is the platform line terminator. Empty delimiters
// are ignored.
func WithDelimiter(d []byte) Option {
	return func(s *Splitter) {
		if len(d) > 0 {
			s.delim = append([]byte(nil), d...)
		}
	}
}

// WithCodec sets the byte to text codec. The default is the validating
// UTF-8 pass-through.
func WithCodec(c codec.Codec) Option {
	return func(s *Splitter) {
		if c != nil {
			s.cod = c
		}
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Splitter) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSplitter creates a splitter over src.
func NewSplitter(src source.Source, opts ...Option) *Splitter {
	s := &Splitter{
		src:      src,
		delim:    []byte(defaultDelimiter),
		cod:      codec.UTF8,
		log:      zap.NewNop(),
		holdover: pool.BytesBuffer.Get().(*bytes.Buffer),
		st:       awaitingChunk,
	}
	for _, opt := range opts {
		opt(s)
	}
	if v, ok := s.cod.(codec.Verbatim); ok && v.Verbatim() {
		s.verbatim = true
	}
	return s
}

// Next returns the next line, or io.EOF once the source is drained and the
// final holdover flushed. Decode and source errors terminate the sequence
// and are sticky. Cancellation is checked before each source read; a
// cancelled splitter discards its holdover rather than flushing it, so no
// line is ever built from possibly incomplete data.
func (s *Splitter) Next(ctx context.Context) (Line, error) {
	for {
		switch s.st {
		case awaitingChunk:
			if err := ctx.Err(); err != nil {
				s.terminate(err)
				return Line{}, err
			}
			chunk, err := s.src.Read(ctx)
			if err != nil {
				s.terminate(err)
				return Line{}, err
			}
			switch {
			case chunk.Len() == 0 && chunk.EOF:
				s.st = flushFinal
			case chunk.Len() == 0:
				// Empty but not done: the transport has nothing buffered
				// right now. Keep waiting for fresh bytes.
				s.lastLen = 0
			case chunk.Len() == s.lastLen:
				// Starvation: the source made no forward progress.
				// Absorb the stalled window so it can reclaim the
				// space, and keep waiting for fresh bytes.
				s.holdover.Write(chunk.Data)
				s.src.Advance(chunk.Len())
				s.lastLen = 0
				s.log.Debug("absorbed stalled window into holdover",
					zap.Int("bytes", chunk.Len()))
			default:
				s.win = chunk.Data
				s.wpos = 0
				s.st = scanning
			}

		case scanning:
			line, ok, err := s.scanOne()
			if err != nil {
				s.terminate(err)
				return Line{}, err
			}
			if ok {
				return line, nil
			}
			// No delimiter left in the window. Advance past the
			// emitted lines only; the unmatched tail stays buffered
			// in the source and its length is the starvation
			// reference for the next read.
			s.src.Advance(s.wpos)
			s.lastLen = len(s.win) - s.wpos
			s.win = nil
			s.wpos = 0
			s.st = awaitingChunk

		case flushFinal:
			if s.holdover.Len() > 0 {
				line, err := s.decode(s.holdover.Bytes())
				if err != nil {
					s.terminate(err)
					return Line{}, err
				}
				s.holdover.Reset()
				s.log.Debug("flushed final line without trailing delimiter",
					zap.Int("bytes", line.Len()))
				s.finish()
				return line, nil
			}
			s.finish()

		case done:
			s.recycleHoldover()
			return Line{}, s.err
		}
	}
}

// Close terminates the sequence early, discarding any holdover, and signals
// completion to the source. Subsequent Next calls return io.EOF. Safe to
// call after the sequence already ended.
func (s *Splitter) Close() {
	if s.st != done {
		s.complete(nil)
		s.st = done
		s.err = io.EOF
	}
	s.recycleHoldover()
}

// scanOne locates the next delimiter in holdover plus the unscanned window
// and emits the line in front of it. ok is false when no further delimiter
// exists in the window.
func (s *Splitter) scanOne() (Line, bool, error) {
	win := s.win[s.wpos:]
	hold := s.holdover.Bytes()

	// A multi-byte delimiter may straddle the holdover/window boundary.
	if len(hold) > 0 && len(s.delim) > 1 {
		if hEnd, wNext, ok := straddleMatch(hold, win, s.delim); ok {
			s.holdover.Truncate(hEnd)
			line, err := s.decode(s.holdover.Bytes())
			if err != nil {
				return Line{}, false, err
			}
			s.holdover.Reset()
			s.wpos += wNext
			return line, true, nil
		}
	}

	j := bytes.Index(win, s.delim)
	if j < 0 {
		return Line{}, false, nil
	}
	var raw []byte
	if len(hold) > 0 {
		s.holdover.Write(win[:j])
		raw = s.holdover.Bytes()
	} else {
		// Holdover is empty: decode straight from the window.
		raw = win[:j]
	}
	line, err := s.decode(raw)
	if err != nil {
		return Line{}, false, err
	}
	s.holdover.Reset()
	s.wpos += j + len(s.delim)
	return line, true, nil
}

// straddleMatch checks whether the delimiter starts inside the holdover
// tail and completes at the window head. On a match the line content is
// hold[:hEnd] and the delimiter consumes wNext window bytes.
func straddleMatch(hold, win, delim []byte) (hEnd, wNext int, ok bool) {
	start := len(hold) - len(delim) + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(hold); i++ {
		head := hold[i:]
		if !bytes.Equal(head, delim[:len(head)]) {
			continue
		}
		tail := delim[len(head):]
		if len(tail) > len(win) || !bytes.Equal(win[:len(tail)], tail) {
			continue
		}
		return i, len(tail), true
	}
	return 0, 0, false
}

// decode turns raw line bytes into a Line view. Verbatim codecs validate
// and hand out the raw bytes without a copy; others decode into the reused
// scratch buffer.
func (s *Splitter) decode(raw []byte) (Line, error) {
	if s.verbatim {
		if _, err := s.cod.DecodedLen(raw); err != nil {
			return Line{}, errors.Wrap(err, "split")
		}
		return Line{b: raw}, nil
	}
	n, err := s.cod.DecodedLen(raw)
	if err != nil {
		return Line{}, errors.Wrap(err, "split")
	}
	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	k, err := s.cod.Decode(s.scratch[:n], raw)
	if err != nil {
		return Line{}, errors.Wrap(err, "split")
	}
	return Line{b: s.scratch[:k]}, nil
}

// finish ends the sequence normally.
func (s *Splitter) finish() {
	s.complete(nil)
	s.st = done
	s.err = io.EOF
}

// terminate ends the sequence on error or cancellation. The holdover is
// discarded, not flushed: a terminated sequence must not emit a line built
// from possibly incomplete data.
func (s *Splitter) terminate(err error) {
	s.complete(err)
	s.st = done
	s.err = err
	s.recycleHoldover()
}

func (s *Splitter) complete(err error) {
	if !s.completed {
		s.completed = true
		s.src.Complete(err)
	}
}

func (s *Splitter) recycleHoldover() {
	if s.holdover != nil {
		pool.RecycleBytesBuffer(s.holdover)
		s.holdover = nil
	}
}
