// Package codec converts raw bytes from a source encoding into UTF-8 text.
// The line splitter decodes matched spans through a Codec so that transports
// carrying non-UTF-8 data (Latin-1 logs, UTF-16 exports) still yield proper
// text lines. Encoding detection is out of scope; the caller picks the codec.
package codec

import (
	"unicode/utf8"

	"github.com/linefeedio/linefeed/internal/errors"
)

// Codec decodes byte spans into UTF-8 text.
//
// Both methods are allocation-free for the destination: DecodedLen reports
// how many bytes Decode will write for src, and Decode writes into a caller
// provided buffer of at least that capacity.
type Codec interface {
	// DecodedLen reports the decoded size of src in bytes. It fails on
	// input that is malformed for the codec's encoding.
	DecodedLen(src []byte) (int, error)

	// Decode decodes src into dst and returns the number of bytes written.
	Decode(dst, src []byte) (int, error)
}

// Verbatim is implemented by codecs whose decoded output is byte-identical
// to their input. Consumers may then skip the decode copy and hand out the
// source bytes directly.
type Verbatim interface {
	Verbatim() bool
}

// UTF8 is a validating pass-through codec. Malformed UTF-8 is a decode
// error, not silently replaced.
var UTF8 Codec = utf8Codec{}

type utf8Codec struct{}

func (utf8Codec) DecodedLen(src []byte) (int, error) {
	if !utf8.Valid(src) {
		return 0, errors.Wrap(errors.ErrMalformedInput, "utf-8")
	}
	return len(src), nil
}

func (utf8Codec) Decode(dst, src []byte) (int, error) {
	if !utf8.Valid(src) {
		return 0, errors.Wrap(errors.ErrMalformedInput, "utf-8")
	}
	if len(dst) < len(src) {
		return 0, errors.New("utf-8: destination buffer too small: %d < %d",
			len(dst), len(src))
	}
	return copy(dst, src), nil
}

func (utf8Codec) Verbatim() bool { return true }
