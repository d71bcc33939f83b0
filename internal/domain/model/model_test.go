package model_test

import (
	"testing"

	model "github.com/okian/romp/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVec3(t *testing.T) {
	Convey("Given 3-axis vectors", t, func() {
		Convey("When computing magnitudes", func() {
			Convey("Then the Euclidean length is returned", func() {
				So(model.Vec3{}.Magnitude(), ShouldEqual, 0)
				So(model.Vec3{X: 3, Y: 4}.Magnitude(), ShouldEqual, 5)
				So(model.Vec3{Z: -2}.Magnitude(), ShouldEqual, 2)
			})
		})
	})
}

func TestAvailability(t *testing.T) {
	Convey("Given sensor availability flags", t, func() {
		Convey("Then Any reflects whether anything is usable", func() {
			So(model.Availability{}.Any(), ShouldBeFalse)
			So(model.Availability{Gyroscope: true}.Any(), ShouldBeTrue)
			So(model.Availability{Accelerometer: true, Magnetometer: true}.Any(), ShouldBeTrue)
		})
	})
}

func TestEnums(t *testing.T) {
	Convey("Given the challenge kinds", t, func() {
		Convey("Then each has a stable wire name", func() {
			So(model.KindBasic.String(), ShouldEqual, "basic")
			So(model.KindRun.String(), ShouldEqual, "run")
			So(model.KindRotate.String(), ShouldEqual, "rotate")
			So(model.KindTilt.String(), ShouldEqual, "tilt")
			So(model.KindDirection.String(), ShouldEqual, "direction")
			So(model.Kind(99).String(), ShouldEqual, "unknown")
		})
	})

	Convey("Given the tilt directions", t, func() {
		Convey("Then each has a stable wire name", func() {
			So(model.TiltNone.String(), ShouldEqual, "none")
			So(model.TiltForward.String(), ShouldEqual, "forward")
			So(model.TiltBackward.String(), ShouldEqual, "backward")
			So(model.TiltRight.String(), ShouldEqual, "right")
			So(model.TiltLeft.String(), ShouldEqual, "left")
		})
	})

	Convey("Given the compass rose", t, func() {
		Convey("Then the eight points sit 45 degrees apart", func() {
			So(model.North.Heading(), ShouldEqual, 0)
			So(model.NorthEast.Heading(), ShouldEqual, 45)
			So(model.East.Heading(), ShouldEqual, 90)
			So(model.SouthEast.Heading(), ShouldEqual, 135)
			So(model.South.Heading(), ShouldEqual, 180)
			So(model.SouthWest.Heading(), ShouldEqual, 225)
			So(model.West.Heading(), ShouldEqual, 270)
			So(model.NorthWest.Heading(), ShouldEqual, 315)
		})

		Convey("And each point has its short label", func() {
			So(model.North.String(), ShouldEqual, "N")
			So(model.SouthWest.String(), ShouldEqual, "SW")
			So(model.NorthWest.String(), ShouldEqual, "NW")
			So(model.CompassPoint(12).String(), ShouldEqual, "?")
		})
	})
}
