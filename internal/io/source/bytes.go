package source

import (
	"context"

	"github.com/linefeedio/linefeed/internal/errors"
)

// BytesSource is an in-memory source delivering data with scripted chunk
// boundaries. Each Read appends the next scripted chunk to the window, so a
// script of 1-byte chunks exercises every possible delimiter straddle.
// It records completion, which tests use to verify the complete-exactly-once
// contract.
type BytesSource struct {
	chunks      [][]byte
	next        int
	win         []byte
	consumed    int
	completions int
	completeErr error
}

// NewBytesSource creates a source delivering the given chunks in order.
func NewBytesSource(chunks ...[]byte) *BytesSource {
	return &BytesSource{chunks: chunks}
}

// Read appends the next scripted chunk to the window and returns it.
func (s *BytesSource) Read(ctx context.Context) (Chunk, error) {
	if err := ctx.Err(); err != nil {
		return Chunk{}, err
	}
	if s.next < len(s.chunks) {
		s.win = append(s.win, s.chunks[s.next]...)
		s.next++
	}
	return Chunk{Data: s.win, EOF: s.next == len(s.chunks)}, nil
}

// Advance consumes n bytes from the window head.
func (s *BytesSource) Advance(n int) {
	if n < 0 || n > len(s.win) {
		panic(errors.Wrapf(errors.ErrAdvanceOutOfRange,
			"advance %d of %d buffered bytes", n, len(s.win)))
	}
	s.win = s.win[n:]
	s.consumed += n
}

// Complete records that the consumer finished.
func (s *BytesSource) Complete(err error) {
	s.completions++
	s.completeErr = err
}

// Completions returns how many times Complete was called.
func (s *BytesSource) Completions() int {
	return s.completions
}

// CompleteErr returns the error passed to Complete.
func (s *BytesSource) CompleteErr() error {
	return s.completeErr
}

// Consumed returns the total number of bytes advanced past.
func (s *BytesSource) Consumed() int {
	return s.consumed
}
