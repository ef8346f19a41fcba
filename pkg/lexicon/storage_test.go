//go:build go1.22

package lexicon

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestNamesAreArenaResident(t *testing.T) {
	t.Parallel()

	lex := New[int]()

	name := string([]byte("transient"))
	lex.Define(1, name)

	// The lexicon must not depend on the caller's string outliving the call.
	for e := lex.head; e != nil; e = e.nextDecl {
		assert.True(t, lex.arena.Contains(unsafe.StringData(e.name)))
		assert.NotEqual(t,
			unsafe.Pointer(unsafe.StringData(name)),
			unsafe.Pointer(unsafe.StringData(e.name)))
	}
}

func TestEntriesAreArenaResident(t *testing.T) {
	t.Parallel()

	lex := New[int]()
	lex.Define(1, "one", "uno")
	lex.Define(2, "two")

	for e := lex.head; e != nil; e = e.nextDecl {
		assert.True(t, lex.arena.Contains((*byte)(unsafe.Pointer(e))))
	}
}

func TestDefaultNameIsLocalized(t *testing.T) {
	t.Parallel()

	lex := New[int]()
	lex.SetDefaultName(string([]byte("fallback")))

	assert.True(t, lex.arena.Contains(unsafe.StringData(lex.defaultName)))
	assert.Equal(t, "fallback", lex.Name(42))
}
