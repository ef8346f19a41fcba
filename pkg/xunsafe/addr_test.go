//go:build go1.21

package xunsafe_test

import (
	"fmt"
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ywkaras/libswoc/pkg/xunsafe"
)

func TestAddr(t *testing.T) {
	Convey("Given address operations", t, func() {
		Convey("When taking the address of a value", func() {
			i := 42
			addr := xunsafe.AddrOf(&i)

			Convey("Then it matches the raw pointer", func() {
				So(uintptr(addr), ShouldEqual, uintptr(unsafe.Pointer(&i)))
			})

			Convey("Then it round-trips through AssertValid", func() {
				So(addr.AssertValid(), ShouldEqual, &i)
				So(*addr.AssertValid(), ShouldEqual, 42)
			})
		})

		Convey("When computing the end of a slice", func() {
			s := []int{1, 2, 3, 4, 5}
			end := xunsafe.EndOf(s)

			Convey("Then it is one past the last element", func() {
				So(uintptr(end), ShouldEqual,
					uintptr(unsafe.Add(unsafe.Pointer(unsafe.SliceData(s)), unsafe.Sizeof(int(0))*uintptr(len(s)))))
			})
		})

		Convey("When doing scaled arithmetic", func() {
			arr := [8]uint64{}
			base := xunsafe.AddrOf(&arr[0])

			Convey("Then Add scales by the element size", func() {
				So(base.Add(3), ShouldEqual, xunsafe.AddrOf(&arr[3]))
			})

			Convey("Then Sub recovers the element distance", func() {
				So(xunsafe.AddrOf(&arr[5]).Sub(base), ShouldEqual, 5)
			})

			Convey("Then ByteAdd does not scale", func() {
				So(base.ByteAdd(8), ShouldEqual, xunsafe.AddrOf(&arr[1]))
			})
		})

		Convey("When rounding addresses", func() {
			var addr xunsafe.Addr[byte] = 0x1001

			Convey("Then RoundUpTo snaps to the alignment", func() {
				So(addr.RoundUpTo(8), ShouldEqual, xunsafe.Addr[byte](0x1008))
				So(xunsafe.Addr[byte](0x1000).RoundUpTo(8), ShouldEqual, xunsafe.Addr[byte](0x1000))
			})

			Convey("Then Padding reports the distance to it", func() {
				So(addr.Padding(8), ShouldEqual, 7)
				So(xunsafe.Addr[byte](0x1000).Padding(8), ShouldEqual, 0)
			})
		})

		Convey("When formatting an address", func() {
			var addr xunsafe.Addr[byte] = 0xBEEF

			Convey("Then %v prints hex", func() {
				So(fmt.Sprintf("%v", addr), ShouldEqual, "0xbeef")
			})
		})
	})
}
