package source

import (
	"github.com/linefeedio/linefeed/internal/errors"
	"github.com/linefeedio/linefeed/internal/io/pool"
)

// window manages a source's backing storage: a rented buffer holding the
// unconsumed bytes between start and end, with new transport reads appended
// at the tail. Consumed bytes are reclaimed by compaction once more space is
// needed, mirroring the release/extend discipline of a scanning byte reader.
type window struct {
	buf    []byte
	start  int
	end    int
	pool   pool.Pool[byte]
	pooled bool // buf still is the original pool rental
}

func newWindow(p pool.Pool[byte], size int) window {
	return window{
		buf:    p.Rent(size),
		pool:   p,
		pooled: true,
	}
}

// view returns the current unconsumed bytes.
func (w *window) view() []byte {
	return w.buf[w.start:w.end]
}

func (w *window) length() int {
	return w.end - w.start
}

// tail returns the free space after the buffered bytes, growing the backing
// buffer when less than need bytes are free. Growth replaces the pool rental
// with a plain allocation; the rental goes back to the pool.
func (w *window) tail(need int) []byte {
	if len(w.buf)-w.end >= need {
		return w.buf[w.end:]
	}
	// Reclaim the consumed prefix first.
	if w.start > 0 {
		copy(w.buf, w.buf[w.start:w.end])
		w.end -= w.start
		w.start = 0
	}
	if len(w.buf)-w.end < need {
		grown := make([]byte, 2*len(w.buf)+need)
		copy(grown, w.buf[:w.end])
		if w.pooled {
			w.pool.Return(w.buf)
			w.pooled = false
		}
		w.buf = grown
	}
	return w.buf[w.end:]
}

// extend marks n freshly read bytes at the tail as buffered.
func (w *window) extend(n int) {
	w.end += n
}

// advance consumes n bytes from the window head.
func (w *window) advance(n int) {
	if n < 0 || n > w.length() {
		panic(errors.Wrapf(errors.ErrAdvanceOutOfRange,
			"advance %d of %d buffered bytes", n, w.length()))
	}
	w.start += n
	if w.start == w.end {
		w.start = 0
		w.end = 0
	}
}

// release hands the backing buffer back to the pool, if it still came from
// there.
func (w *window) release() {
	if w.pooled && w.buf != nil {
		w.pool.Return(w.buf)
	}
	w.pooled = false
	w.buf = nil
	w.start = 0
	w.end = 0
}
