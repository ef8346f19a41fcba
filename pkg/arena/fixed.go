//go:build go1.22

package arena

import (
	"unsafe"

	"github.com/ywkaras/libswoc/pkg/xunsafe"
	"github.com/ywkaras/libswoc/pkg/xunsafe/layout"
)

// Fixed is a typed slab allocator for fixed-size cells, layered on an Arena.
//
// Freed cells are threaded into a single-linked free list, using the first
// machine word of the cell as the "next" pointer. This keeps metadata
// overhead at zero: the list lives entirely inside vacated cells. New pops
// the head of the list before asking the backing arena for fresh storage, so
// reuse is LIFO: the most recently freed cell is the next one handed out.
//
// Cells are never returned to the arena. They persist until the backing arena
// is reset or destroyed.
type Fixed[T any] struct {
	arena *Arena

	// free is the head of the list. An address rather than a pointer: the
	// backing arena already keeps every cell alive.
	free xunsafe.Addr[byte]
}

// NewFixed constructs a Fixed slab backed by the given arena.
func NewFixed[T any](a *Arena) *Fixed[T] {
	if layout.Align[T]() > Align {
		panic("arena: over-aligned object")
	}
	return &Fixed[T]{arena: a}
}

// cellSize is the storage footprint of one cell: at least a machine word, so
// a vacated cell can hold the free-list link.
func cellSize[T any]() int {
	return alignUp(max(layout.Size[T](), Align))
}

// New returns a pointer to a T holding value, reusing the most recently freed
// cell if one is available. Reused cells are zeroed before the value is
// stored.
func (f *Fixed[T]) New(value T) *T {
	var p *byte
	if f.free != 0 {
		p = f.free.AssertValid()
		f.free = xunsafe.Addr[byte](*xunsafe.Cast[uintptr](p))
		xunsafe.Clear(p, cellSize[T]())
	} else {
		p = unsafe.SliceData(f.arena.Alloc(cellSize[T]()))
	}

	q := xunsafe.Cast[T](p)
	*q = value
	return q
}

// Free pushes p's cell onto the free list, to be reused by the next New.
//
// p must have come from this slab's New and must not be used afterwards. The
// first word of the cell is overwritten with the list link; while on the
// list, a cell is never read as a T.
func (f *Fixed[T]) Free(p *T) {
	b := xunsafe.Cast[byte](p)
	*xunsafe.Cast[uintptr](b) = uintptr(f.free)
	f.free = xunsafe.AddrOf(b)
}
