//go:build go1.20

package xunsafe_test

import (
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ywkaras/libswoc/pkg/xunsafe"
)

func TestSlice(t *testing.T) {
	Convey("Given slice conversions", t, func() {
		Convey("When viewing a value as bytes", func() {
			v := uint32(0x01020304)
			b := xunsafe.Bytes(&v)

			Convey("Then the view covers exactly the value", func() {
				So(len(b), ShouldEqual, 4)
				So(unsafe.Pointer(unsafe.SliceData(b)), ShouldEqual, unsafe.Pointer(&v))
			})
		})

		Convey("When converting a byte slice to a string", func() {
			b := []byte("remnant")
			s := xunsafe.SliceToString(b)

			Convey("Then the string aliases the slice", func() {
				So(s, ShouldEqual, "remnant")
				So(unsafe.Pointer(unsafe.StringData(s)), ShouldEqual, unsafe.Pointer(unsafe.SliceData(b)))
			})
		})

		Convey("When converting a string to a byte slice", func() {
			s := "frozen"
			b := xunsafe.StringToSlice[[]byte](s)

			Convey("Then the slice aliases the string", func() {
				So(len(b), ShouldEqual, len(s))
				So(unsafe.Pointer(unsafe.SliceData(b)), ShouldEqual, unsafe.Pointer(unsafe.StringData(s)))
			})
		})
	})
}
