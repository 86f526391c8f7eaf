package split

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/linefeedio/linefeed/internal/errors"
	"github.com/linefeedio/linefeed/internal/io/codec"
	"github.com/linefeedio/linefeed/internal/io/source"
)

// collect drains the splitter into owned strings.
func collect(t *testing.T, s *Splitter) []string {
	t.Helper()
	var lines []string
	for {
		line, err := s.Next(context.Background())
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line.String())
	}
}

// chunked splits data into chunks of at most size bytes.
func chunked(data string, size int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		chunks = append(chunks, []byte(data[:n]))
		data = data[n:]
	}
	return chunks
}

func TestSplitterScenarios(t *testing.T) {
	t.Run("delimiter straddling a chunk boundary", func(t *testing.T) {
		src := source.NewBytesSource([]byte("a\nb"), []byte("b\nccc"))
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"a", "bb", "ccc"}, collect(t, s))
		assert.Equal(t, 1, src.Completions())
	})

	t.Run("final flush without trailing delimiter", func(t *testing.T) {
		src := source.NewBytesSource([]byte("x\ny"))
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"x", "y"}, collect(t, s))
	})

	t.Run("empty input yields zero lines", func(t *testing.T) {
		src := source.NewBytesSource()
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Empty(t, collect(t, s))
		assert.Equal(t, 1, src.Completions(), "completion must be signaled exactly once")
		assert.NoError(t, src.CompleteErr())
	})

	t.Run("delimiter exactly at chunk end", func(t *testing.T) {
		src := source.NewBytesSource([]byte("ab\n"), []byte("cd\n"))
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"ab", "cd"}, collect(t, s))
	})

	t.Run("empty lines survive", func(t *testing.T) {
		src := source.NewBytesSource([]byte("\n\na\n\n"))
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"", "", "a", ""}, collect(t, s))
	})

	t.Run("many lines in one chunk", func(t *testing.T) {
		src := source.NewBytesSource([]byte("1\n2\n3\n4\n5"))
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, collect(t, s))
	})
}

func TestSplitterChunkingInvariance(t *testing.T) {
	input := "first\nsecond line\n\nfourth\nno trailing delimiter"
	want := []string{"first", "second line", "", "fourth", "no trailing delimiter"}

	for size := 1; size <= len(input); size++ {
		src := source.NewBytesSource(chunked(input, size)...)
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		got := collect(t, s)
		require.Equalf(t, want, got, "chunk size %d", size)

		// Rejoining with the delimiter reconstructs the input, modulo
		// the missing final delimiter.
		assert.Equal(t, input, strings.Join(got, "\n"))
		assert.Equal(t, len(input), src.Consumed(), "chunk size %d", size)
	}
}

func TestSplitterMultiByteDelimiterStraddle(t *testing.T) {
	input := "alpha\r\nbeta\r\ngamma"
	want := []string{"alpha", "beta", "gamma"}

	for size := 1; size <= len(input); size++ {
		src := source.NewBytesSource(chunked(input, size)...)
		s := NewSplitter(src, WithDelimiter([]byte("\r\n")))
		require.Equalf(t, want, collect(t, s), "chunk size %d", size)
	}
}

func TestSplitterCustomDelimiter(t *testing.T) {
	src := source.NewBytesSource([]byte("a<!"), []byte(">b<!>c"))
	s := NewSplitter(src, WithDelimiter([]byte("<!>")))

	assert.Equal(t, []string{"a", "b", "c"}, collect(t, s))
}

// scriptSource drives the splitter with explicit stall steps: an empty step
// re-presents the window without growth, which is the starvation signal.
type scriptSource struct {
	steps       []string
	i           int
	win         []byte
	consumed    int
	completions int
	completeErr error
	onStep      func(i int)
}

func (s *scriptSource) Read(ctx context.Context) (source.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return source.Chunk{}, err
	}
	if s.i < len(s.steps) {
		if s.onStep != nil {
			s.onStep(s.i)
		}
		s.win = append(s.win, s.steps[s.i]...)
		s.i++
	}
	return source.Chunk{Data: s.win, EOF: s.i == len(s.steps)}, nil
}

func (s *scriptSource) Advance(n int) {
	s.win = s.win[n:]
	s.consumed += n
}

func (s *scriptSource) Complete(err error) {
	s.completions++
	s.completeErr = err
}

func TestSplitterStarvation(t *testing.T) {
	t.Run("stalled window is absorbed and the sequence continues", func(t *testing.T) {
		src := &scriptSource{steps: []string{"par", "", "", "tial\nrest"}}
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"partial", "rest"}, collect(t, s))
		assert.Equal(t, 1, src.completions)
	})

	t.Run("stall directly before completion", func(t *testing.T) {
		src := &scriptSource{steps: []string{"tail", ""}}
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"tail"}, collect(t, s))
	})

	t.Run("empty window while the transport is idle", func(t *testing.T) {
		// An empty window without EOF means the transport has nothing
		// buffered right now, not that the stream ended. The holdover
		// must survive until fresh bytes arrive.
		src := &scriptSource{steps: []string{"head\nmid", "", "", "", "dle\n"}}
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		assert.Equal(t, []string{"head", "middle"}, collect(t, s))
		assert.Equal(t, 1, src.completions)
	})

	t.Run("delimiter straddling an absorbed holdover", func(t *testing.T) {
		// The "\r" is absorbed into the holdover during the stall; the
		// "\n" arriving later must still complete the delimiter.
		src := &scriptSource{steps: []string{"ab\r", "", "\ncd\r\n"}}
		s := NewSplitter(src, WithDelimiter([]byte("\r\n")))

		assert.Equal(t, []string{"ab", "cd"}, collect(t, s))
	})
}

func TestSplitterCancellation(t *testing.T) {
	t.Run("before the first request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		src := source.NewBytesSource([]byte("data\n"))
		s := NewSplitter(src)

		_, err := s.Next(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, src.Completions())
		assert.ErrorIs(t, src.CompleteErr(), context.Canceled)
	})

	t.Run("holdover is discarded, not flushed", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		// Cancel while the splitter is absorbing the stalled window,
		// so it holds "abc" in the holdover when it next checks the
		// context.
		src := &scriptSource{steps: []string{"abc", ""}}
		src.onStep = func(i int) {
			if i == 1 {
				cancel()
			}
		}
		s := NewSplitter(src, WithDelimiter([]byte("\n")))

		_, err := s.Next(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, src.completions)
		assert.ErrorIs(t, src.completeErr, context.Canceled)

		// The discarded holdover must not surface later.
		_, err = s.Next(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSplitterDecodeError(t *testing.T) {
	src := source.NewBytesSource([]byte("ok\n\xff\xfe\n"))
	s := NewSplitter(src, WithDelimiter([]byte("\n")))

	line, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", line.String())

	_, err = s.Next(context.Background())
	require.ErrorIs(t, err, errors.ErrMalformedInput)
	assert.Equal(t, 1, src.Completions())
	assert.ErrorIs(t, src.CompleteErr(), errors.ErrMalformedInput)

	// The error is sticky.
	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, errors.ErrMalformedInput)
}

func TestSplitterEncodings(t *testing.T) {
	t.Run("latin-1", func(t *testing.T) {
		src := source.NewBytesSource([]byte{0xe9, 't', 0xe9, '\n', 'o', 'k'})
		s := NewSplitter(src,
			WithDelimiter([]byte("\n")),
			WithCodec(codec.ForEncoding(charmap.ISO8859_1)))

		assert.Equal(t, []string{"été", "ok"}, collect(t, s))
	})
}

func TestSplitterReusedViews(t *testing.T) {
	src := source.NewBytesSource([]byte("one\ntwo\n"))
	s := NewSplitter(src, WithDelimiter([]byte("\n")))

	first, err := s.Next(context.Background())
	require.NoError(t, err)
	owned := first.Copy()

	_, err = s.Next(context.Background())
	require.NoError(t, err)

	// The copy stays intact regardless of what the view now aliases.
	assert.Equal(t, []byte("one"), owned)
}

func TestSplitterClose(t *testing.T) {
	src := source.NewBytesSource([]byte("abandoned"))
	s := NewSplitter(src)

	s.Close()
	_, err := s.Next(context.Background())
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 1, src.Completions())

	// Idempotent.
	s.Close()
	assert.Equal(t, 1, src.Completions())
}
