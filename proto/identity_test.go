package proto

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeName(t *testing.T) {
	Convey("Whitespace is trimmed and collapsed", t, func() {
		name, err := NormalizeName("  ada   lovelace ")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "ada lovelace")
	})

	Convey("Blank names are rejected", t, func() {
		_, err := NormalizeName("   ")
		So(err, ShouldEqual, ErrInvalidName)
	})

	Convey("Overlong names are rejected", t, func() {
		_, err := NormalizeName(strings.Repeat("a", MaxNameLength+1))
		So(err, ShouldEqual, ErrInvalidName)

		name, err := NormalizeName(strings.Repeat("a", MaxNameLength))
		So(err, ShouldBeNil)
		So(name, ShouldEqual, strings.Repeat("a", MaxNameLength))
	})

	Convey("Dangling bidi controls are closed", t, func() {
		name, err := NormalizeName("evil‮name")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "evil‮name‬")

		name, err = NormalizeName("ok⁦name")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "ok⁦name⁩")
	})

	Convey("Balanced bidi controls pass through", t, func() {
		name, err := NormalizeName("a‮b‬c")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "a‮b‬c")
	})

	Convey("Excess pops never underflow the close count", t, func() {
		// one stray explicit pop, two dangling isolates
		name, err := NormalizeName("‬⁦⁦x")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "‬⁦⁦x⁩⁩")

		name, err = NormalizeName("a‬b‬c")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, "a‬b‬c")
	})
}

func TestAssignColor(t *testing.T) {
	Convey("Assigned colors come from the palette", t, func() {
		members := map[string]bool{}
		for _, c := range Palette {
			members[c] = true
		}
		for i := 0; i < 100; i++ {
			So(members[AssignColor()], ShouldBeTrue)
		}
	})
}
