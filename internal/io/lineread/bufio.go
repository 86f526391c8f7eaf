package lineread

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// BufioSource adapts a bufio.Reader to the LineSource contract, using its
// native ReadString as the read-one-line primitive. The trailing delimiter
// is stripped. A final line without a trailing delimiter is still returned
// once, before io.EOF.
type BufioSource struct {
	br    *bufio.Reader
	delim byte
	eol   string // suffix to strip, e.g. "\r\n"
}

// NewBufioSource creates a LineSource over r. eol is the line terminator to
// strip; its last byte is the read delimiter.
func NewBufioSource(r io.Reader, eol string) *BufioSource {
	if eol == "" {
		eol = "\n"
	}
	return &BufioSource{
		br:    bufio.NewReader(r),
		delim: eol[len(eol)-1],
		eol:   eol,
	}
}

// ReadLine returns the next line without its terminator.
func (s *BufioSource) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := s.br.ReadString(s.delim)
	if err != nil {
		if err == io.EOF && line != "" {
			// Final line without trailing delimiter.
			return line, nil
		}
		return "", err
	}
	if strings.HasSuffix(line, s.eol) {
		line = line[:len(line)-len(s.eol)]
	} else {
		// Bare delimiter without the full terminator, e.g. "\n" in
		// "\r\n" mode.
		line = strings.TrimSuffix(line, string(s.delim))
	}
	return line, nil
}
