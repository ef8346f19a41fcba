// Package xunsafe provides a more convenient interface for performing unsafe
// operations than Go's built-in package unsafe.
//
// It is the pointer-math substrate for the arena allocator: typed raw
// addresses, pointer casts, and bulk clears live here so the allocator itself
// reads as ordinary code.
package xunsafe

import (
	"sync"
	"unsafe"

	"github.com/ywkaras/libswoc/pkg/xunsafe/layout"
)

// NoCopy is a type that go vet will complain about having been moved.
//
// It does so by implementing [sync.Locker].
type NoCopy [0]sync.Mutex

// Int is any integer type.
type Int = layout.Int

// BitCast performs an unsafe bitcast from one type to another.
func BitCast[To, From any](v From) To {
	return *(*To)(unsafe.Pointer(&v))
}
