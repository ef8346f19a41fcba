//go:build go1.22

package arena_test

import (
	"fmt"
	"reflect"
	"testing"
	"unsafe"

	"github.com/ywkaras/libswoc/pkg/arena"
)

const runs = 100000

var sink any

func BenchmarkArena(b *testing.B) {
	bench[int](b)
	bench[[2]int](b)
	bench[[64]int](b)
	bench[[1024]int](b)
}

func bench[T any](b *testing.B) {
	var z T
	n := int64(runs * unsafe.Sizeof(z))
	name := fmt.Sprintf("%v", reflect.TypeFor[T]())

	b.Run(name, func(b *testing.B) {
		b.Run("arena.alloc", func(b *testing.B) {
			b.SetBytes(n)
			for n := 0; n < b.N; n++ {
				a := new(arena.Arena)
				for i := 0; i < runs; i++ {
					sink = arena.Alloc[T](a)
				}
			}
		})

		b.Run("arena.new", func(b *testing.B) {
			var v T

			b.SetBytes(n)
			for n := 0; n < b.N; n++ {
				a := new(arena.Arena)
				for i := 0; i < runs; i++ {
					sink = arena.New(a, v)
				}
			}
		})

		b.Run("new", func(b *testing.B) {
			b.SetBytes(n)
			for n := 0; n < b.N; n++ {
				for i := 0; i < runs; i++ {
					sink = new(T)
				}
			}
		})
	})
}

func BenchmarkFreezeThaw(b *testing.B) {
	var a arena.Arena
	for i := 0; i < 1024; i++ {
		a.Alloc(256)
	}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		a.Freeze(0)
		for i := 0; i < 1024; i++ {
			a.Alloc(256)
		}
		a.Thaw()
	}
}

func BenchmarkFixed(b *testing.B) {
	b.Run("churn", func(b *testing.B) {
		var a arena.Arena
		fa := arena.NewFixed[[4]uint64](&a)

		b.ResetTimer()
		for n := 0; n < b.N; n++ {
			p := fa.New([4]uint64{})
			fa.Free(p)
		}
	})

	b.Run("batch", func(b *testing.B) {
		var a arena.Arena
		fa := arena.NewFixed[[4]uint64](&a)
		cells := make([]*[4]uint64, 1024)

		b.ResetTimer()
		for n := 0; n < b.N; n++ {
			for i := range cells {
				cells[i] = fa.New([4]uint64{})
			}
			for i := range cells {
				fa.Free(cells[i])
			}
		}
	})
}
