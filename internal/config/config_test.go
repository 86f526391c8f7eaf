package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		Setup(nil)

		require.NotNil(t, Cat)
		assert.Equal(t, "", Cat.Delimiter)
		assert.Equal(t, DefaultEncoding, Cat.Encoding)
		assert.Equal(t, DefaultChunkSize, Cat.ChunkSize)
		assert.Equal(t, DefaultLogLevel, Cat.LogLevel)
		assert.False(t, Cat.Quiet)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LINEFEED_ENCODING", "latin-1")
		t.Setenv("LINEFEED_CHUNK_SIZE", "1024")
		t.Setenv("LINEFEED_QUIET", "yes")

		Setup(nil)
		assert.Equal(t, "latin-1", Cat.Encoding)
		assert.Equal(t, 1024, Cat.ChunkSize)
		assert.True(t, Cat.Quiet)
	})

	t.Run("arguments win over environment", func(t *testing.T) {
		t.Setenv("LINEFEED_ENCODING", "latin-1")

		Setup(&Args{Encoding: "utf-16le", ChunkSize: 512})
		assert.Equal(t, "utf-16le", Cat.Encoding)
		assert.Equal(t, 512, Cat.ChunkSize)
	})

	t.Run("invalid encoding panics", func(t *testing.T) {
		assert.Panics(t, func() {
			Setup(&Args{Encoding: "ebcdic"})
		})
	})

	t.Run("invalid chunk size from env is ignored", func(t *testing.T) {
		t.Setenv("LINEFEED_CHUNK_SIZE", "not-a-number")

		Setup(nil)
		assert.Equal(t, DefaultChunkSize, Cat.ChunkSize)
	})
}

func TestEnvHelpers(t *testing.T) {
	t.Run("Env", func(t *testing.T) {
		t.Setenv("LINEFEED_TEST_FLAG", "yes")
		assert.True(t, Env("LINEFEED_TEST_FLAG"))

		t.Setenv("LINEFEED_TEST_FLAG", "no")
		assert.False(t, Env("LINEFEED_TEST_FLAG"))
	})

	t.Run("EnvStr", func(t *testing.T) {
		_, ok := EnvStr("LINEFEED_TEST_UNSET")
		assert.False(t, ok)

		t.Setenv("LINEFEED_TEST_STR", "value")
		v, ok := EnvStr("LINEFEED_TEST_STR")
		assert.True(t, ok)
		assert.Equal(t, "value", v)
	})

	t.Run("EnvInt", func(t *testing.T) {
		t.Setenv("LINEFEED_TEST_INT", "42")
		v, ok := EnvInt("LINEFEED_TEST_INT")
		assert.True(t, ok)
		assert.Equal(t, 42, v)

		t.Setenv("LINEFEED_TEST_INT", "nope")
		_, ok = EnvInt("LINEFEED_TEST_INT")
		assert.False(t, ok)
	})
}
