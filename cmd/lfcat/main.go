// Package main provides the lfcat command-line tool. It reads files (plain
// or zstd-compressed) or standard input, splits the stream into lines with
// the chunk-boundary splitter, and writes the lines to standard output.
// It is the smallest end-to-end consumer of the streaming engine and doubles
// as a manual test harness for delimiters, encodings and chunk sizes.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/linefeedio/linefeed/internal/config"
	"github.com/linefeedio/linefeed/internal/errors"
	"github.com/linefeedio/linefeed/internal/io/codec"
	"github.com/linefeedio/linefeed/internal/io/signal"
	"github.com/linefeedio/linefeed/internal/io/source"
	"github.com/linefeedio/linefeed/internal/io/split"
	"github.com/linefeedio/linefeed/internal/profiling"
	"github.com/linefeedio/linefeed/internal/version"
)

func main() {
	var args config.Args
	var displayVersion bool
	var prof profiling.Flags

	profiling.AddFlags(&prof)
	flag.StringVar(&args.Delimiter, "delimiter", "",
		"Line delimiter (default: platform line terminator)")
	flag.StringVar(&args.Encoding, "encoding", "",
		"Input encoding: utf-8, latin-1, utf-16le, utf-16be")
	flag.IntVar(&args.ChunkSize, "chunkSize", 0, "Transport read size in bytes")
	flag.BoolVar(&args.Quiet, "quiet", false, "Quiet output mode")
	flag.StringVar(&args.LogLevel, "logLevel", "", "Log level")
	flag.BoolVar(&displayVersion, "version", false, "Display version")
	flag.Parse()

	if displayVersion {
		version.PrintAndExit()
	}
	config.Setup(&args)

	log := newLogger(config.Cat)
	defer log.Sync()

	profiler := profiling.Start(&prof, version.Name, log)
	defer profiler.Stop()

	ctx, cancel := signal.InterruptCtx(context.Background())
	defer cancel()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	merr := errors.NewMultiError()
	paths := flag.Args()
	if len(paths) == 0 {
		merr.Add(catStdin(ctx, out, log))
	}
	for _, path := range paths {
		if err := catFile(ctx, out, log, path); err != nil {
			merr.Add(errors.Wrapf(err, "%s", path))
			log.Error("cat failed", zap.String("path", path), zap.Error(err))
		}
	}

	out.Flush()
	if merr.HasErrors() {
		if !config.Cat.Quiet {
			fmt.Fprintln(os.Stderr, merr.Error())
		}
		os.Exit(1)
	}
}

func catFile(ctx context.Context, out *bufio.Writer, log *zap.Logger,
	path string) error {

	src, err := source.OpenFile(path,
		source.WithChunkSize(config.Cat.ChunkSize),
		source.WithLogger(log))
	if err != nil {
		return err
	}
	return cat(ctx, out, log, src)
}

func catStdin(ctx context.Context, out *bufio.Writer, log *zap.Logger) error {
	src := source.NewReaderSource(os.Stdin,
		source.WithChunkSize(config.Cat.ChunkSize),
		source.WithLogger(log))
	return cat(ctx, out, log, src)
}

// cat drains one source through the splitter into out.
func cat(ctx context.Context, out *bufio.Writer, log *zap.Logger,
	src source.Source) error {

	opts := []split.Option{split.WithLogger(log)}
	if config.Cat.Delimiter != "" {
		opts = append(opts, split.WithDelimiter([]byte(config.Cat.Delimiter)))
	}
	cod, err := codecFor(config.Cat.Encoding)
	if err != nil {
		return err
	}
	opts = append(opts, split.WithCodec(cod))

	splitter := split.NewSplitter(src, opts...)
	defer splitter.Close()

	var count uint64
	for {
		line, err := splitter.Next(ctx)
		if err == io.EOF {
			log.Debug("source drained", zap.Uint64("lines", count))
			return nil
		}
		if err != nil {
			return err
		}
		count++
		if _, err := out.Write(line.Bytes()); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
}

func codecFor(name string) (codec.Codec, error) {
	switch name {
	case "", "utf-8":
		return codec.UTF8, nil
	case "latin-1":
		return codec.ForEncoding(charmap.ISO8859_1), nil
	case "utf-16le":
		return codec.ForEncoding(unicode.UTF16(unicode.LittleEndian,
			unicode.IgnoreBOM)), nil
	case "utf-16be":
		return codec.ForEncoding(unicode.UTF16(unicode.BigEndian,
			unicode.IgnoreBOM)), nil
	default:
		return nil, errors.New("unknown encoding %q", name)
	}
}

func newLogger(cfg *config.CatConfig) *zap.Logger {
	if cfg.Quiet {
		return zap.NewNop()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
