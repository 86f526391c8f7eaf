//go:build linux

package source

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/linefeedio/linefeed/internal/errors"
)

// FDSource reads chunks from a raw file descriptor (serial port, pipe, tty)
// using poll(2). A self-pipe makes a blocked Read killable: Close writes a
// wakeup byte that poll observes, so no read deadline is needed on the
// descriptor itself.
type FDSource struct {
	fd        int
	pipeR     int
	pipeW     int
	done      chan struct{}
	closeOnce sync.Once
	win       window
	eof       bool
	opts      options
	compOnce  sync.Once
}

// NewFDSource creates a chunk source over an open file descriptor. The
// caller keeps ownership of fd; Complete closes only the wakeup pipe.
func NewFDSource(fd int, opts ...Option) (*FDSource, error) {
	o := newOptions(opts)
	pipeFds := make([]int, 2)
	if err := unix.Pipe(pipeFds); err != nil {
		return nil, errors.Wrap(err, "pipe")
	}
	return &FDSource{
		fd:    fd,
		pipeR: pipeFds[0],
		pipeW: pipeFds[1],
		done:  make(chan struct{}),
		win:   newWindow(o.pool, o.chunkSize),
		opts:  o,
	}, nil
}

// Read waits for data or a Close wakeup, appends one fd read to the window
// and returns it. Cancellation is honored at the point of the call; a Read
// already blocked in poll is unblocked by Close, not by the context.
func (s *FDSource) Read(ctx context.Context) (Chunk, error) {
	if err := ctx.Err(); err != nil {
		return Chunk{}, err
	}
	select {
	case <-s.done:
		return Chunk{}, errors.ErrSourceClosed
	default:
	}
	if s.eof {
		return Chunk{Data: s.win.view(), EOF: true}, nil
	}
	tail := s.win.tail(s.opts.chunkSize)
	for {
		pfd := []unix.PollFd{
			{Fd: int32(s.fd), Events: unix.POLLIN},
			{Fd: int32(s.pipeR), Events: unix.POLLIN},
		}
		if _, err := unix.Poll(pfd, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return Chunk{}, errors.Wrap(err, "poll")
		}
		if pfd[1].Revents != 0 {
			// Any event on the wakeup pipe means Close ran. Close may
			// already have closed the pipe fds, in which case poll
			// reports POLLNVAL or POLLERR instead of the wakeup byte.
			if pfd[1].Revents&unix.POLLIN != 0 {
				var b [1]byte
				unix.Read(s.pipeR, b[:])
			}
			return Chunk{}, errors.ErrSourceClosed
		}
		if pfd[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0 {
			n, err := unix.Read(s.fd, tail)
			if err != nil {
				if err == unix.EINTR || err == unix.EAGAIN {
					continue
				}
				return Chunk{}, errors.Wrap(err, "fd read")
			}
			if n == 0 {
				s.eof = true
			} else {
				s.win.extend(n)
			}
			return Chunk{Data: s.win.view(), EOF: s.eof}, nil
		}
	}
}

// Advance consumes n bytes from the window head.
func (s *FDSource) Advance(n int) {
	s.win.advance(n)
}

// Complete releases the window and the wakeup pipe.
func (s *FDSource) Complete(err error) {
	s.compOnce.Do(func() {
		if err != nil {
			s.opts.log.Debug("fd source completed with error", zap.Error(err))
		}
		s.Close()
		s.win.release()
	})
}

// Close unblocks a pending Read and releases the wakeup pipe. Safe to call
// multiple times; subsequent calls are no-ops.
func (s *FDSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		// Wake up poll using self-pipe
		unix.Write(s.pipeW, []byte{1})
		unix.Close(s.pipeR)
		unix.Close(s.pipeW)
	})
	return nil
}
