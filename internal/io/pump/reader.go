package pump

import (
	"context"
	"io"
)

// readerFiller adapts an io.Reader to the Filler contract. The context is
// checked before the read; a blocked read is not preempted.
type readerFiller struct {
	r io.Reader
}

func (f readerFiller) Fill(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.r.Read(buf)
}

// NewReaderPump creates a byte pump over an io.Reader with the given block
// size.
func NewReaderPump(r io.Reader, size int, opts ...Option[byte]) *Pump[byte] {
	return NewPump[byte](readerFiller{r: r}, size, opts...)
}

// NewSingleReaderPump creates the single-buffer baseline over an io.Reader.
func NewSingleReaderPump(r io.Reader, size int) *SinglePump[byte] {
	return NewSinglePump[byte](readerFiller{r: r}, size, nil)
}
