//go:build go1.20

package xunsafe

import (
	"unsafe"

	"github.com/ywkaras/libswoc/pkg/xunsafe/layout"
)

// Bytes converts a pointer into a slice of its contents.
func Bytes[P ~*E, E any](p P) []byte {
	size := layout.Size[E]()
	return unsafe.Slice(Cast[byte](p), size)
}

// SliceToString converts a slice into a string, multiplying the slice length
// as appropriate.
func SliceToString[S ~[]E, E any](s S) string {
	size := layout.Size[E]()
	str := struct {
		ptr *E
		len int
	}{unsafe.SliceData([]E(s)), len(s) * size}
	return BitCast[string](str)
}

// StringToSlice converts a string into a slice, dividing the string length
// by the element size as appropriate.
func StringToSlice[S ~[]E, E any](s string) S {
	size := layout.Size[E]()
	return unsafe.Slice(Cast[E](unsafe.StringData(s)), len(s)/size)
}
