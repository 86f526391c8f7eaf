//go:build !linux

package source

import (
	"context"

	"github.com/linefeedio/linefeed/internal/errors"
)

// FDSource stub for non-Linux platforms; poll(2)-based descriptor reading
// is only wired up on Linux.
type FDSource struct{}

// NewFDSource always fails on non-Linux platforms.
func NewFDSource(fd int, opts ...Option) (*FDSource, error) {
	return nil, errors.ErrUnsupported
}

// Read always fails on non-Linux platforms.
func (s *FDSource) Read(ctx context.Context) (Chunk, error) {
	return Chunk{}, errors.ErrUnsupported
}

// Advance is a no-op on non-Linux platforms.
func (s *FDSource) Advance(n int) {}

// Complete is a no-op on non-Linux platforms.
func (s *FDSource) Complete(err error) {}

// Close is a no-op on non-Linux platforms.
func (s *FDSource) Close() error {
	return nil
}
