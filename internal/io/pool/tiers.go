package pool

import (
	"bytes"
	"sync"
)

// Shared byte buffer size tiers.
const (
	// SmallSize is for small reads such as interactive transports.
	SmallSize = 4 * 1024
	// MediumSize is the default chunk size for file reads.
	MediumSize = 64 * 1024
	// ScannerSize is for large sequential scans.
	ScannerSize = 1024 * 1024
)

// Shared byte pools, one per size tier.
var (
	Small   = NewSyncPool[byte](SmallSize)
	Medium  = NewSyncPool[byte](MediumSize)
	Scanner = NewSyncPool[byte](ScannerSize)
)

// ForSize returns the smallest shared byte pool able to serve min bytes.
// Requests beyond the scanner tier still go through the scanner pool, which
// serves them with one-off allocations.
func ForSize(min int) Pool[byte] {
	switch {
	case min <= SmallSize:
		return Small
	case min <= MediumSize:
		return Medium
	default:
		return Scanner
	}
}

// BytesBuffer pools growable bytes.Buffer values used for line assembly.
// Line splitting otherwise allocates a lot of small buffers while carrying
// partial lines across chunks.
var BytesBuffer = sync.Pool{
	New: func() interface{} {
		b := bytes.Buffer{}
		// Most lines fit into 4KB, so start there to reduce reallocations.
		b.Grow(4096)
		return &b
	},
}

// RecycleBytesBuffer resets and recycles the buffer.
func RecycleBytesBuffer(b *bytes.Buffer) {
	b.Reset()
	BytesBuffer.Put(b)
}
