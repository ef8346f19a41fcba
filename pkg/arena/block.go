//go:build go1.22

package arena

import (
	"unsafe"

	"github.com/ywkaras/libswoc/internal/debug"
	"github.com/ywkaras/libswoc/pkg/xunsafe"
)

// block is a contiguous region of storage with a bump cursor.
//
// Blocks are never resized; the cursor only moves forward, and the only
// reclamation primitive is dropping the block entirely.
type block struct {
	data      []byte
	allocated int
}

// newBlock obtains a block with capacity bytes of storage.
//
// The storage is backed by a word array so that the base address is always
// aligned to [Align], regardless of capacity.
func newBlock(capacity int) *block {
	words := make([]uint64, (capacity+7)/8)
	return &block{
		data: unsafe.Slice(xunsafe.Cast[byte](unsafe.SliceData(words)), capacity),
	}
}

func (b *block) capacity() int  { return len(b.data) }
func (b *block) remaining() int { return len(b.data) - b.allocated }

// alloc carves n bytes off the front of the remaining space.
//
// The result has its capacity clipped so that appending to it cannot spill
// into a neighboring allocation.
func (b *block) alloc(n int) []byte {
	debug.Assert(n <= b.remaining(), "block overflow: %d > %d", n, b.remaining())

	p := b.data[b.allocated : b.allocated+n : b.allocated+n]
	b.allocated += n
	return p
}

// remnant is the still-free tail of the block.
func (b *block) remnant() []byte {
	return b.data[b.allocated:]
}

// contains reports whether p points into the block's storage.
func (b *block) contains(p xunsafe.Addr[byte]) bool {
	base := xunsafe.AddrOf(unsafe.SliceData(b.data))
	return base <= p && p < base.Add(len(b.data))
}

// grow appends a block big enough for an n-byte allocation to the active
// generation and returns it. n must already be aligned.
//
// The capacity of the new block is max(n, hint); afterwards the hint becomes
// twice that capacity, so that a run of small allocations settles into a handful of ever larger
// blocks. An oversized request gets an exact-fit block, not a doubled one.
func (a *Arena) grow(n int) *block {
	if a.hint == 0 {
		a.hint = a.initial
		if a.hint == 0 {
			a.hint = DefaultCapacity
		}
	}
	capacity := max(n, a.hint)

	// An empty current block cannot satisfy the request, and nothing can
	// point into it: no byte of it was ever handed out. Replace it rather
	// than letting it pin reserved space.
	if cur := a.current(); cur != nil && cur.allocated == 0 {
		a.activeReserved -= cur.capacity()
		a.active[len(a.active)-1] = nil
		a.active = a.active[:len(a.active)-1]
	}

	b := newBlock(capacity)
	a.active = append(a.active, b)
	a.activeReserved += capacity
	a.hint = capacity * 2

	a.log("grow", "block cap %d, next hint %d", capacity, a.hint)
	return b
}
