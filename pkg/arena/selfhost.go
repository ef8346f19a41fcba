//go:build go1.22

package arena

import (
	"reflect"
	"unsafe"

	"github.com/ywkaras/libswoc/pkg/xunsafe"
	"github.com/ywkaras/libswoc/pkg/xunsafe/layout"
)

// hostHeaderSize is the number of bytes at the head of a hosting block
// consumed by the arena's own representation.
func hostHeaderSize() int {
	return alignUp(layout.Size[Arena]())
}

// NewSelfContained constructs an arena whose own representation lives inside
// the first block it allocates: the block's first bytes hold the Arena value,
// and the rest is ordinary usable capacity.
//
// The hosting allocation is shaped as a struct so the garbage collector still
// traces the arena's internal pointers:
//
//	struct {
//		Arena Arena
//		Data  [N]byte
//	}
//
// Any pointer into the arena's memory, including the returned *Arena itself,
// keeps the hosting block alive. A non-positive capacity falls back to
// [DefaultCapacity].
//
// A self-contained arena cannot be moved or frozen, since either would
// surrender the block its own fields live in.
func NewSelfContained(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	header := hostHeaderSize()
	usable := alignUp(capacity)

	shape := reflect.StructOf([]reflect.StructField{
		{Name: "Arena", Type: reflect.TypeFor[Arena]()},
		{Name: "Data", Type: reflect.ArrayOf(header-layout.Size[Arena]()+usable, reflect.TypeFor[byte]())},
	})

	p := xunsafe.Cast[byte]((*Arena)(reflect.New(shape).UnsafePointer()))
	b := &block{
		data:      unsafe.Slice(p, header+usable),
		allocated: header,
	}

	a := xunsafe.Cast[Arena](p)
	a.host = b
	a.active = append(a.active, b)
	a.activeAllocated = header
	a.activeReserved = b.capacity()
	a.initial = capacity
	a.hint = b.capacity() * 2

	a.log("selfhost", "hosting block cap %d, header %d", b.capacity(), header)
	return a
}

// Destroy releases every block the arena owns and leaves the arena empty.
//
// For a self-contained arena the hosting block is surrendered last, through a
// local copy, so that no field of the arena is read after the storage holding
// it has been given up. The arena value itself is unusable afterwards.
func (a *Arena) Destroy() {
	host := a.host

	a.Thaw()
	for i := range a.active {
		a.active[i] = nil
	}
	a.active = nil
	a.host = nil
	a.hint = 0
	a.initial = 0
	a.activeAllocated = 0
	a.activeReserved = 0

	// Only the local reference pins the hosting block now; it dies when this
	// frame returns, taking the arena's former representation with it.
	_ = host
}
