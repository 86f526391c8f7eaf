package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/linefeedio/linefeed/internal/errors"
)

func TestUTF8(t *testing.T) {
	t.Run("valid input passes through", func(t *testing.T) {
		src := []byte("héllo wörld")

		n, err := UTF8.DecodedLen(src)
		require.NoError(t, err)
		assert.Equal(t, len(src), n)

		dst := make([]byte, n)
		k, err := UTF8.Decode(dst, src)
		require.NoError(t, err)
		assert.Equal(t, src, dst[:k])
	})

	t.Run("empty input", func(t *testing.T) {
		n, err := UTF8.DecodedLen(nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("malformed input is an error", func(t *testing.T) {
		src := []byte{'a', 0xff, 0xfe}

		_, err := UTF8.DecodedLen(src)
		assert.ErrorIs(t, err, errors.ErrMalformedInput)

		_, err = UTF8.Decode(make([]byte, 3), src)
		assert.ErrorIs(t, err, errors.ErrMalformedInput)
	})

	t.Run("short destination is an error", func(t *testing.T) {
		_, err := UTF8.Decode(make([]byte, 1), []byte("ab"))
		assert.Error(t, err)
	})

	t.Run("is verbatim", func(t *testing.T) {
		v, ok := UTF8.(Verbatim)
		require.True(t, ok)
		assert.True(t, v.Verbatim())
	})
}

func TestForEncoding(t *testing.T) {
	t.Run("latin-1 expands into multi-byte utf-8", func(t *testing.T) {
		c := ForEncoding(charmap.ISO8859_1)
		src := []byte{0xe9, 't', 0xe9} // été

		n, err := c.DecodedLen(src)
		require.NoError(t, err)
		require.Equal(t, len("été"), n)

		dst := make([]byte, n)
		k, err := c.Decode(dst, src)
		require.NoError(t, err)
		assert.Equal(t, "été", string(dst[:k]))
	})

	t.Run("utf-16le", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
		raw, err := enc.NewEncoder().Bytes([]byte("hello"))
		require.NoError(t, err)

		c := ForEncoding(enc)
		n, err := c.DecodedLen(raw)
		require.NoError(t, err)

		dst := make([]byte, n)
		k, err := c.Decode(dst, raw)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(dst[:k]))
	})

	t.Run("scratch grows for large inputs", func(t *testing.T) {
		c := ForEncoding(charmap.ISO8859_1)
		src := []byte(strings.Repeat("\xe9", 4096))

		n, err := c.DecodedLen(src)
		require.NoError(t, err)
		assert.Equal(t, 2*4096, n, "each latin-1 é becomes two utf-8 bytes")
	})

	t.Run("empty input", func(t *testing.T) {
		c := ForEncoding(charmap.ISO8859_1)
		n, err := c.DecodedLen(nil)
		require.NoError(t, err)
		assert.Zero(t, n)

		k, err := c.Decode(nil, nil)
		require.NoError(t, err)
		assert.Zero(t, k)
	})
}

// failEncoding's transformer rejects every input, standing in for a
// decoder hitting bytes it cannot represent.
type failEncoding struct{}

func (failEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: failTransformer{}}
}

func (failEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: failTransformer{}}
}

type failTransformer struct{}

func (failTransformer) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	return 0, 0, errors.New("broken transform")
}

func (failTransformer) Reset() {}

func TestForEncodingDecodeFailure(t *testing.T) {
	c := ForEncoding(failEncoding{})

	_, err := c.DecodedLen([]byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDecodeFailed)

	_, err = c.Decode(make([]byte, 8), []byte("x"))
	assert.ErrorIs(t, err, errors.ErrDecodeFailed)
}
