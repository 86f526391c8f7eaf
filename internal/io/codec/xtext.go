package codec

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/linefeedio/linefeed/internal/errors"
)

// textCodec adapts a golang.org/x/text decoder to the Codec contract.
// Not safe for concurrent use; the splitter is a single-consumer machine
// and each splitter owns its codec.
type textCodec struct {
	dec     *encoding.Decoder
	scratch []byte
}

// ForEncoding returns a Codec decoding the given x/text encoding into UTF-8.
// Malformed input handling follows the encoding's own decoder policy.
func ForEncoding(e encoding.Encoding) Codec {
	return &textCodec{dec: e.NewDecoder()}
}

func (c *textCodec) DecodedLen(src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	if c.scratch == nil {
		c.scratch = make([]byte, len(src)+utf8Headroom)
	}
	for {
		c.dec.Reset()
		nDst, nSrc, err := c.dec.Transform(c.scratch, src, true)
		if err == transform.ErrShortDst {
			c.scratch = make([]byte, 2*len(c.scratch)+utf8Headroom)
			continue
		}
		if err != nil {
			return 0, errors.Wrapf(errors.ErrDecodeFailed, "decoded length: %v", err)
		}
		if nSrc != len(src) {
			return 0, errors.Wrapf(errors.ErrDecodeFailed,
				"decoded length: short source transform: %d < %d", nSrc, len(src))
		}
		return nDst, nil
	}
}

func (c *textCodec) Decode(dst, src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	c.dec.Reset()
	nDst, nSrc, err := c.dec.Transform(dst, src, true)
	if err != nil {
		return nDst, errors.Wrapf(errors.ErrDecodeFailed, "decode: %v", err)
	}
	if nSrc != len(src) {
		return nDst, errors.Wrapf(errors.ErrDecodeFailed,
			"decode: short source transform: %d < %d", nSrc, len(src))
	}
	return nDst, nil
}

// utf8Headroom pads scratch growth so single-byte encodings expanding into
// multi-byte UTF-8 sequences converge in one or two rounds.
const utf8Headroom = 16
