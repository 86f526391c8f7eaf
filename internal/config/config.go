// Package config provides configuration for the linefeed command-line
// tools. Precedence, highest to lowest:
//
// 1. Command-line arguments
// 2. Environment variables (LINEFEED_ prefix)
// 3. Default values
package config

import (
	"fmt"

	"github.com/linefeedio/linefeed/internal/io/pool"
)

const (
	// DefaultChunkSize is the transport read size.
	DefaultChunkSize int = pool.MediumSize
	// DefaultLogLevel specifies the default log level.
	DefaultLogLevel string = "info"
	// DefaultEncoding is the input text encoding.
	DefaultEncoding string = "utf-8"
)

// Cat holds the lfcat configuration. This global variable provides access
// to the settings after Setup ran.
var Cat *CatConfig

// CatConfig configures one lfcat run.
type CatConfig struct {
	// Delimiter is the line delimiter; empty selects the platform line
	// terminator.
	Delimiter string
	// Encoding is the input encoding name (utf-8, latin-1, utf-16le,
	// utf-16be).
	Encoding string
	// ChunkSize is the transport read size in bytes.
	ChunkSize int
	// Quiet suppresses everything but line output.
	Quiet bool
	// LogLevel selects the zap log level.
	LogLevel string
}

// Args holds parsed command-line arguments.
type Args struct {
	Delimiter string
	Encoding  string
	ChunkSize int
	Quiet     bool
	LogLevel  string
}

func newDefaultCatConfig() *CatConfig {
	return &CatConfig{
		Encoding:  DefaultEncoding,
		ChunkSize: DefaultChunkSize,
		LogLevel:  DefaultLogLevel,
	}
}

// Setup initializes the configuration from defaults, environment variables
// and command-line arguments, and makes it available via the Cat global.
// It panics on invalid configuration so the tool cannot start half set up.
func Setup(args *Args) {
	c := newDefaultCatConfig()
	c.applyEnv()
	c.applyArgs(args)
	if err := c.validate(); err != nil {
		panic(err)
	}
	Cat = c
}

func (c *CatConfig) applyEnv() {
	if v, ok := EnvStr("LINEFEED_DELIMITER"); ok {
		c.Delimiter = v
	}
	if v, ok := EnvStr("LINEFEED_ENCODING"); ok {
		c.Encoding = v
	}
	if v, ok := EnvInt("LINEFEED_CHUNK_SIZE"); ok {
		c.ChunkSize = v
	}
	if v, ok := EnvStr("LINEFEED_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if Env("LINEFEED_QUIET") {
		c.Quiet = true
	}
}

func (c *CatConfig) applyArgs(args *Args) {
	if args == nil {
		return
	}
	if args.Delimiter != "" {
		c.Delimiter = args.Delimiter
	}
	if args.Encoding != "" {
		c.Encoding = args.Encoding
	}
	if args.ChunkSize > 0 {
		c.ChunkSize = args.ChunkSize
	}
	if args.LogLevel != "" {
		c.LogLevel = args.LogLevel
	}
	if args.Quiet {
		c.Quiet = true
	}
}

func (c *CatConfig) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("invalid chunk size %d", c.ChunkSize)
	}
	switch c.Encoding {
	case "utf-8", "latin-1", "utf-16le", "utf-16be":
	default:
		return fmt.Errorf("unknown encoding %q", c.Encoding)
	}
	return nil
}
