//go:build go1.22

// Package arena provides a generational region allocator for high-performance
// memory management.
//
// An arena groups many small allocations into a small number of large blocks
// and reclaims them only in bulk. Allocation is a pointer bump into the most
// recently created block of the active generation; when that block runs out, a
// geometrically larger one is chained in front of it. No allocation is ever
// reclaimed individually.
//
// # Key Concepts
//
// Block: a contiguous region with a bump cursor, the unit of growth and of
// reclamation. Every allocation lies wholly within one block.
//
// Generation: an ordered list of blocks reclaimed as a unit. The arena holds
// an active generation, which serves new allocations, and at most one frozen
// generation, which is read-only and survives until thawed.
//
// Freeze/Thaw: [Arena.Freeze] detaches the whole active generation into the
// frozen slot and starts the active generation empty, sized so the next wave
// of allocations lands in a single block at least as large as everything
// frozen. [Arena.Thaw] drops the frozen generation. The pair supports
// swap-and-rebuild workloads: freeze the old data, build the replacement,
// thaw.
//
// Remnant: the still-free tail of the current block, exposed by
// [Arena.Remnant] for temporary scratch writes that may later be committed by
// an allocation, or abandoned at no cost.
//
// # Memory Safety
//
//   - Memory handed out by an arena must not be used after the block holding
//     it is dropped: after [Arena.Thaw] for frozen blocks, or after
//     [Arena.Reset] or [Arena.Destroy] for everything.
//   - [Arena.Contains] is the only sanctioned way to probe whether a pointer
//     is still arena-resident.
//   - The arena performs no internal locking; callers serialize access.
//   - Typed placement via [New] does no destructor tracking. Values that own
//     external resources must be torn down by the caller.
//
// # Usage
//
//	var a arena.Arena
//
//	buf := a.Alloc(1024)
//	p := arena.New(&a, Header{Len: 12})
//
//	// Drop everything at once.
//	a.Reset()
//
// A zero Arena is empty and ready to use. [NewArena] reserves its initial
// block eagerly; [NewSelfContained] builds an arena that lives inside its own
// first block.
package arena

import (
	"unsafe"

	"github.com/ywkaras/libswoc/internal/debug"
	"github.com/ywkaras/libswoc/pkg/xunsafe"
	"github.com/ywkaras/libswoc/pkg/xunsafe/layout"
)

// Align is the alignment of all objects on the arena.
const Align = int(unsafe.Sizeof(uintptr(0)))

// DefaultCapacity is the usable capacity of the first block of an arena that
// was not given an explicit one.
const DefaultCapacity = 128

// Arena is a generational region allocator.
//
// A zero Arena is empty and ready to use; its first block materializes on the
// first non-empty allocation.
type Arena struct {
	_ xunsafe.NoCopy

	// active is the writable generation; its last block is the current one,
	// the only block that serves new allocations. Older blocks stay behind
	// solely to keep their allocations alive.
	active []*block

	// frozen is the read-only generation, populated by Freeze and emptied by
	// Thaw.
	frozen []*block

	// hint is the capacity the next block will get, unless an oversized
	// request overrides it. Zero means unseeded: the first growth reads
	// initial instead.
	hint int

	// initial seeds hint on first growth and again after Reset. Zero means
	// DefaultCapacity.
	initial int

	// host is the block holding this arena's own representation, nil unless
	// the arena was built by NewSelfContained.
	host *block

	activeAllocated int
	activeReserved  int
	frozenAllocated int
	frozenReserved  int
}

// NewArena constructs an arena and eagerly reserves its first block of the
// given usable capacity. A non-positive capacity falls back to
// [DefaultCapacity].
func NewArena(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	a := &Arena{initial: capacity}
	a.grow(alignUp(capacity))
	return a
}

// New allocates a new value of type T on the arena.
//
// The arena does not track T's destructor; see the package documentation.
func New[T any](a *Arena, value T) *T {
	p := Alloc[T](a)
	*p = value
	return p
}

// Alloc allocates an uninitialized value of type T on the arena.
func Alloc[T any](a *Arena) *T {
	l := layout.Of[T]()
	if l.Align > Align {
		panic("arena: over-aligned object")
	}

	return xunsafe.Cast[T](unsafe.SliceData(a.Alloc(max(l.Size, 1))))
}

// Make allocates a slice of n values of type T on the arena.
//
// The slice has equal length and capacity, so appending to it cannot disturb
// a neighboring allocation.
func Make[T any](a *Arena, n int) []T {
	l := layout.Of[T]()
	if l.Align > Align {
		panic("arena: over-aligned object")
	}
	if n == 0 {
		return nil
	}

	raw := a.Alloc(n * l.Size)
	return unsafe.Slice(xunsafe.Cast[T](unsafe.SliceData(raw)), n)
}

// Contains reports whether p points into storage owned by the arena.
func Contains[T any](a *Arena, p *T) bool {
	return a.Contains(xunsafe.Cast[byte](p))
}

// Size returns the bytes allocated from the active generation.
func (a *Arena) Size() int { return a.activeAllocated }

// AllocatedSize returns the bytes allocated across both generations.
func (a *Arena) AllocatedSize() int { return a.activeAllocated + a.frozenAllocated }

// ReservedSize returns the total capacity of all blocks in both generations.
func (a *Arena) ReservedSize() int { return a.activeReserved + a.frozenReserved }

// Remaining returns the free bytes of the current block, the ones the next
// allocation will be carved from if it fits.
func (a *Arena) Remaining() int {
	if cur := a.current(); cur != nil {
		return cur.remaining()
	}
	return 0
}

// Alloc allocates n bytes of uninitialized, word-aligned memory.
//
// The result is contiguous within a single block and disjoint from every
// other live allocation. A non-positive n yields an empty span without
// forcing a block into existence.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		if cur := a.current(); cur != nil {
			return cur.data[cur.allocated:cur.allocated:cur.allocated]
		}
		return nil
	}

	// The cursor advances by the aligned size so the next allocation stays
	// aligned, but the caller sees exactly what it asked for.
	aligned := alignUp(n)

	cur := a.current()
	if cur == nil || cur.remaining() < aligned {
		cur = a.grow(aligned)
	}

	a.activeAllocated += aligned
	s := cur.alloc(aligned)[:n]

	a.log("alloc", "%d bytes at %v", aligned, xunsafe.AddrOf(unsafe.SliceData(s)))
	return s
}

// Reserve ensures the current block has at least n bytes of remaining space,
// growing if necessary. Nothing is carved.
func (a *Arena) Reserve(n int) {
	n = alignUp(n)
	if cur := a.current(); cur == nil || cur.remaining() < n {
		a.grow(n)
	}
}

// Remnant returns the entire free tail of the current block, or an empty span
// if there is no block yet.
//
// The caller may scribble on the remnant freely; none of it counts as
// allocated until a later Alloc carves a prefix of it. Use [Arena.Reserve]
// first to guarantee a minimum remnant size.
func (a *Arena) Remnant() []byte {
	if cur := a.current(); cur != nil {
		return cur.remnant()
	}
	return nil
}

// Contains reports whether p points into any block of either generation.
func (a *Arena) Contains(p *byte) bool {
	addr := xunsafe.AddrOf(p)
	for _, b := range a.active {
		if b.contains(addr) {
			return true
		}
	}
	for _, b := range a.frozen {
		if b.contains(addr) {
			return true
		}
	}
	return false
}

// Localize copies b into the active generation and returns the copy, unless b
// already lives there, in which case it is returned unchanged.
//
// Data residing in the frozen generation is copied, which is how callers keep
// it reachable across a Thaw.
func (a *Arena) Localize(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}

	addr := xunsafe.AddrOf(unsafe.SliceData(b))
	for _, blk := range a.active {
		if blk.contains(addr) {
			return b
		}
	}

	s := a.Alloc(len(b))
	copy(s, b)
	return s
}

// LocalizeString is [Arena.Localize] for strings. The result aliases arena
// storage; it is valid as long as the active generation lives.
func (a *Arena) LocalizeString(s string) string {
	if len(s) == 0 {
		return ""
	}
	return xunsafe.SliceToString(a.Localize(xunsafe.StringToSlice[[]byte](s)))
}

// Freeze detaches the entire active generation into the frozen slot and
// leaves the active generation empty.
//
// The frozen slot must be empty when Freeze is called: an arena holds at most
// one frozen generation. A self-contained arena cannot freeze, because that
// would queue its own hosting block for destruction at the next Thaw.
//
// The next block the arena creates will have capacity at least max(hint,
// total reserved capacity of the frozen generation), so the rebuilt data set
// can land in a single block.
func (a *Arena) Freeze(hint int) {
	debug.Assert(a.frozen == nil, "freeze while a generation is already frozen")
	debug.Assert(a.host == nil, "freeze on a self-contained arena")

	a.frozen = a.active
	a.active = nil
	a.frozenAllocated = a.activeAllocated
	a.frozenReserved = a.activeReserved
	a.activeAllocated = 0
	a.activeReserved = 0

	a.hint = max(hint, a.frozenReserved)

	a.log("freeze", "%d bytes in %d blocks, next hint %d",
		a.frozenAllocated, len(a.frozen), a.hint)
}

// Thaw drops every block of the frozen generation. The active generation is
// untouched. Thaw with nothing frozen is a no-op.
//
// All spans handed out of the frozen generation dangle after Thaw; callers
// must have localized anything they intend to keep.
func (a *Arena) Thaw() {
	for i := range a.frozen {
		a.frozen[i] = nil
	}
	a.frozen = nil
	a.frozenAllocated = 0
	a.frozenReserved = 0
}

// Reset drops every block of both generations and reseeds the growth policy
// from the configured initial capacity.
//
// A self-contained arena keeps its hosting block, since its own
// representation lives there, and rewinds the cursor to just past it.
//
// Any memory allocated by the arena must not be referenced after a call to
// Reset.
func (a *Arena) Reset() {
	a.Thaw()

	for i := range a.active {
		a.active[i] = nil
	}
	a.active = nil
	a.activeAllocated = 0
	a.activeReserved = 0
	a.hint = 0

	if host := a.host; host != nil {
		host.allocated = hostHeaderSize()
		a.active = append(a.active, host)
		a.activeAllocated = host.allocated
		a.activeReserved = host.capacity()
	}
}

// MoveFrom transfers ownership of src's blocks and growth state into a,
// dropping whatever a held before. src is left as freshly constructed.
//
// Spans previously returned by src remain valid and are contained by a
// afterwards. Self-contained arenas cannot take part in a move on either
// side.
func (a *Arena) MoveFrom(src *Arena) {
	debug.Assert(a != src, "move from self")
	debug.Assert(a.host == nil && src.host == nil, "move of a self-contained arena")

	a.active = src.active
	a.frozen = src.frozen
	a.hint = src.hint
	a.initial = src.initial
	a.activeAllocated = src.activeAllocated
	a.activeReserved = src.activeReserved
	a.frozenAllocated = src.frozenAllocated
	a.frozenReserved = src.frozenReserved

	src.active = nil
	src.frozen = nil
	src.hint = 0
	src.initial = 0
	src.activeAllocated = 0
	src.activeReserved = 0
	src.frozenAllocated = 0
	src.frozenReserved = 0
}

// current returns the block serving new allocations, or nil if none exists
// yet.
func (a *Arena) current() *block {
	if n := len(a.active); n > 0 {
		return a.active[n-1]
	}
	return nil
}

// alignUp rounds the size up to the arena alignment boundary.
func alignUp(size int) int {
	size += Align - 1
	size &^= Align - 1
	return size
}

func (a *Arena) log(op, format string, args ...any) {
	debug.Log([]any{"%p act:%d/%d frz:%d/%d", a,
		a.activeAllocated, a.activeReserved,
		a.frozenAllocated, a.frozenReserved}, op, format, args...)
}
