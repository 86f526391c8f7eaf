// Package pool provides reusable fixed-capacity buffers for the streaming
// components. Renting and returning buffers instead of allocating per read
// keeps the hot paths allocation-free.
package pool

import (
	"sync"
)

// Pool rents and returns fixed-capacity reusable buffers. Buffers handed out
// by Rent are owned by the caller until passed back via Return; a returned
// buffer must not be used afterwards.
type Pool[T any] interface {
	// Rent returns a buffer with at least min elements of length.
	Rent(min int) []T

	// Return hands a buffer back for reuse.
	Return(buf []T)
}

// SyncPool is a Pool backed by sync.Pool with a fixed rental size.
// Requests larger than the rental size are served by a fresh allocation
// which is not recycled.
type SyncPool[T any] struct {
	size int
	pool sync.Pool
}

// NewSyncPool creates a pool handing out buffers of the given size.
func NewSyncPool[T any](size int) *SyncPool[T] {
	p := &SyncPool[T]{size: size}
	p.pool.New = func() interface{} {
		buf := make([]T, size)
		return &buf
	}
	return p
}

// Rent returns a buffer of at least min elements.
func (p *SyncPool[T]) Rent(min int) []T {
	if min > p.size {
		return make([]T, min)
	}
	buf := p.pool.Get().(*[]T)
	return (*buf)[:p.size]
}

// Return recycles the buffer. Buffers with less capacity than the rental
// size cannot serve a future Rent and are dropped.
func (p *SyncPool[T]) Return(buf []T) {
	if cap(buf) < p.size {
		return
	}
	buf = buf[:cap(buf)]
	p.pool.Put(&buf)
}

// Size returns the pool's fixed rental size.
func (p *SyncPool[T]) Size() int {
	return p.size
}
