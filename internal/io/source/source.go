// Package source defines the chunk source contract consumed by the line
// splitter and provides the common transport adapters: io.Reader, in-memory
// byte script, plain and zstd-compressed files, and raw file descriptors.
//
// A source hands out its buffered, not-yet-consumed bytes as a window. The
// same unconsumed bytes may be presented repeatedly until more data arrives;
// a read gives no forward-progress guarantee. The consumer reports progress
// with Advance, which lets the source reclaim the consumed prefix, and must
// retain everything after the advance position.
package source

import (
	"context"
)

// Chunk is the result of one source read: a contiguous window over all
// currently buffered, unconsumed bytes, plus a completion flag. The window
// is owned by the source and is only valid until the next Read or Advance.
type Chunk struct {
	Data []byte
	// EOF reports that no further data will ever arrive. The window may
	// still be non-empty; the source is drained once EOF is set and the
	// window is empty.
	EOF bool
}

// Len returns the window length in bytes.
func (c Chunk) Len() int {
	return len(c.Data)
}

// Source is a pull-based provider of byte chunks.
type Source interface {
	// Read returns the current window of unconsumed bytes, reading more
	// from the transport when possible. Cancellation is honored at the
	// point of the call; an in-flight transport read completes on its
	// own terms.
	Read(ctx context.Context) (Chunk, error)

	// Advance consumes n bytes from the head of the window. n must not
	// exceed the window length and the position never regresses. The
	// source may reclaim or overwrite consumed bytes afterwards.
	Advance(n int)

	// Complete signals that the consumer is finished with the source,
	// normally (err == nil) or not. It is called exactly once and
	// releases transport resources.
	Complete(err error)
}
