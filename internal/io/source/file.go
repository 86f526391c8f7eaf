package source

import (
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"

	"github.com/linefeedio/linefeed/internal/errors"
)

// OpenFile opens path as a chunk source. Files with a .zst suffix are
// transparently decompressed while streaming. The returned source owns the
// file handle and closes it on Complete.
func OpenFile(path string, opts ...Option) (*ReaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if strings.HasSuffix(path, ".zst") {
		zr := zstd.NewReader(f)
		opts = append(opts, WithCloser(multiCloser{zr, f}))
		return NewReaderSource(zr, opts...), nil
	}
	opts = append(opts, WithCloser(f))
	return NewReaderSource(f, opts...), nil
}

// multiCloser closes in order, keeping the first error. The decompressor
// must close before the file underneath it.
type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
