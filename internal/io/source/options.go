package source

import (
	"io"

	"go.uber.org/zap"

	"github.com/linefeedio/linefeed/internal/io/pool"
)

type options struct {
	chunkSize int
	log       *zap.Logger
	closer    io.Closer
	pool      pool.Pool[byte]
}

// Option configures a source at construction time.
type Option func(*options)

// WithChunkSize sets how many bytes a single transport read may produce.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithCloser attaches a closer that is closed when the source completes.
func WithCloser(c io.Closer) Option {
	return func(o *options) {
		o.closer = c
	}
}

// WithPool sets the buffer pool backing the source's window.
func WithPool(p pool.Pool[byte]) Option {
	return func(o *options) {
		if p != nil {
			o.pool = p
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		chunkSize: pool.MediumSize,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pool == nil {
		o.pool = pool.ForSize(o.chunkSize)
	}
	return o
}
