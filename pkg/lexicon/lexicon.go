//go:build go1.22

// Package lexicon provides a bidirectional mapping between names and integral
// values.
//
// A Lexicon keeps every name it is given in an arena it owns, so the mapping
// has stable storage independent of the strings used to define it. Lookups go
// through two open hash indexes, one per direction, hashed with
// [maphash.Hasher].
//
// The typical use is enumerations with wire or configuration names:
//
//	lex := lexicon.New[Severity]()
//	lex.Define(Info, "info")
//	lex.Define(Warn, "warn", "warning")
//	lex.SetDefaultValue(Info)
//
//	lex.Value("warning") // Warn
//	lex.Name(Warn)       // "warn"
//	lex.Value("bogus")   // Info, via the default
package lexicon

import (
	"fmt"
	"slices"

	"github.com/dolthub/maphash"

	"github.com/ywkaras/libswoc/pkg/arena"
)

// Value is any integral type usable as the value side of a Lexicon.
type Value interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// entry is one name/value association. Entries live in the lexicon's arena;
// aliases for the same value share the primary entry's value but are distinct
// entries.
type entry[V Value] struct {
	name    string // arena-resident
	value   V
	primary bool

	// Hash chains, one per index, plus definition order for iteration.
	nextName  *entry[V]
	nextValue *entry[V]
	nextDecl  *entry[V]
}

// Lexicon is a bidirectional name/value mapping with arena-backed storage.
//
// A Lexicon must be created with [New]. It is not safe for concurrent use.
type Lexicon[V Value] struct {
	arena arena.Arena

	nameHash  maphash.Hasher[string]
	valueHash maphash.Hasher[V]

	// Power-of-two bucket arrays, chained through the entries.
	byName  []*entry[V]
	byValue []*entry[V]

	head, tail *entry[V] // definition order
	names      int       // all entries, aliases included
	values     int       // primary entries only

	defaultValue V
	defaultName  string
	hasDefValue  bool
	hasDefName   bool
}

const initialBuckets = 16

// New constructs an empty Lexicon.
func New[V Value]() *Lexicon[V] {
	return &Lexicon[V]{
		nameHash:  maphash.NewHasher[string](),
		valueHash: maphash.NewHasher[V](),
	}
}

// Len returns the number of defined values, not counting aliases.
func (l *Lexicon[V]) Len() int { return l.values }

// Define associates value with the given names. The first name is the primary
// one, returned by [Lexicon.Name]; the rest are aliases. Names are copied
// into the lexicon's arena.
//
// Redefining a value or reusing a name panics.
func (l *Lexicon[V]) Define(value V, names ...string) {
	if len(names) == 0 {
		panic("lexicon: define with no names")
	}
	if _, ok := l.TryName(value); ok {
		panic(fmt.Sprintf("lexicon: value %v already defined", value))
	}

	for i, name := range names {
		if _, ok := l.TryValue(name); ok || slices.Contains(names[:i], name) {
			panic(fmt.Sprintf("lexicon: name %q already defined", name))
		}
	}

	for i, name := range names {
		e := arena.New(&l.arena, entry[V]{
			name:    l.arena.LocalizeString(name),
			value:   value,
			primary: i == 0,
		})
		l.insert(e)
	}
	l.values++
}

// TryValue looks up the value for a name, reporting whether it is defined.
func (l *Lexicon[V]) TryValue(name string) (V, bool) {
	if len(l.byName) > 0 {
		slot := l.nameHash.Hash(name) & uint64(len(l.byName)-1)
		for e := l.byName[slot]; e != nil; e = e.nextName {
			if e.name == name {
				return e.value, true
			}
		}
	}
	var zero V
	return zero, false
}

// TryName looks up the primary name for a value, reporting whether it is
// defined.
func (l *Lexicon[V]) TryName(value V) (string, bool) {
	if len(l.byValue) > 0 {
		slot := l.valueHash.Hash(value) & uint64(len(l.byValue)-1)
		for e := l.byValue[slot]; e != nil; e = e.nextValue {
			if e.value == value {
				return e.name, true
			}
		}
	}
	return "", false
}

// Value returns the value for a name, falling back to the default value for
// unknown names. Without a default, an unknown name panics.
func (l *Lexicon[V]) Value(name string) V {
	if v, ok := l.TryValue(name); ok {
		return v
	}
	if l.hasDefValue {
		return l.defaultValue
	}
	panic(fmt.Sprintf("lexicon: unknown name %q", name))
}

// Name returns the primary name for a value, falling back to the default name
// for unknown values. Without a default, an unknown value panics.
func (l *Lexicon[V]) Name(value V) string {
	if n, ok := l.TryName(value); ok {
		return n
	}
	if l.hasDefName {
		return l.defaultName
	}
	panic(fmt.Sprintf("lexicon: unknown value %v", value))
}

// SetDefaultValue makes unknown names resolve to value instead of panicking.
func (l *Lexicon[V]) SetDefaultValue(value V) {
	l.defaultValue = value
	l.hasDefValue = true
}

// SetDefaultName makes unknown values resolve to name instead of panicking.
func (l *Lexicon[V]) SetDefaultName(name string) {
	l.defaultName = l.arena.LocalizeString(name)
	l.hasDefName = true
}

// Each calls fn for every entry in definition order, aliases included, until
// fn returns false.
func (l *Lexicon[V]) Each(fn func(name string, value V) bool) {
	for e := l.head; e != nil; e = e.nextDecl {
		if !fn(e.name, e.value) {
			return
		}
	}
}

// insert threads a freshly allocated entry onto both indexes and the
// definition-order list, growing the buckets as needed.
func (l *Lexicon[V]) insert(e *entry[V]) {
	if l.names >= len(l.byName)*3/4 {
		l.rehash(max(initialBuckets, len(l.byName)*2))
	}

	slot := l.nameHash.Hash(e.name) & uint64(len(l.byName)-1)
	e.nextName = l.byName[slot]
	l.byName[slot] = e

	if e.primary {
		slot = l.valueHash.Hash(e.value) & uint64(len(l.byValue)-1)
		e.nextValue = l.byValue[slot]
		l.byValue[slot] = e
	}

	if l.tail == nil {
		l.head = e
	} else {
		l.tail.nextDecl = e
	}
	l.tail = e
	l.names++
}

// rehash rebuilds both bucket arrays at the given power-of-two size.
func (l *Lexicon[V]) rehash(buckets int) {
	l.byName = make([]*entry[V], buckets)
	l.byValue = make([]*entry[V], buckets)

	for e := l.head; e != nil; e = e.nextDecl {
		slot := l.nameHash.Hash(e.name) & uint64(buckets-1)
		e.nextName = l.byName[slot]
		l.byName[slot] = e

		if e.primary {
			slot = l.valueHash.Hash(e.value) & uint64(buckets-1)
			e.nextValue = l.byValue[slot]
			l.byValue[slot] = e
		}
	}
}
