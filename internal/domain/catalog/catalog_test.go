package catalog_test

import (
	"math/rand"
	"testing"

	catalog "github.com/okian/romp/internal/domain/catalog"
	"github.com/okian/romp/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a catalog with a seeded random source", t, func() {
		c := catalog.New(catalog.WithRand(rand.New(rand.NewSource(1)))) //nolint:gosec

		Convey("When only the accelerometer is available", func() {
			avail := model.Availability{Accelerometer: true}

			Convey("Then every draw is a run challenge", func() {
				for range 1000 {
					tpl := c.Generate(avail)
					So(tpl.Kind, ShouldEqual, model.KindRun)
					So(tpl.Count, ShouldBeGreaterThan, 0)
					So(tpl.Instruction, ShouldNotBeEmpty)
				}
			})
		})

		Convey("When only the gyroscope is available", func() {
			avail := model.Availability{Gyroscope: true}

			Convey("Then draws are rotate or tilt challenges only", func() {
				kinds := map[model.Kind]bool{}
				for range 1000 {
					kinds[c.Generate(avail).Kind] = true
				}
				So(kinds, ShouldContainKey, model.KindRotate)
				So(kinds, ShouldContainKey, model.KindTilt)
				So(kinds, ShouldNotContainKey, model.KindRun)
				So(kinds, ShouldNotContainKey, model.KindDirection)
				So(kinds, ShouldNotContainKey, model.KindBasic)
			})
		})

		Convey("When only the magnetometer is available", func() {
			avail := model.Availability{Magnetometer: true}

			Convey("Then every draw is a direction challenge", func() {
				for range 200 {
					So(c.Generate(avail).Kind, ShouldEqual, model.KindDirection)
				}
			})
		})

		Convey("When no sensor is available at all", func() {
			tpl := c.Generate(model.Availability{})

			Convey("Then the shake fallback is returned", func() {
				So(tpl.Kind, ShouldEqual, model.KindBasic)
				So(tpl.Instruction, ShouldNotBeEmpty)
			})
		})

		Convey("When all sensors are available", func() {
			avail := model.Availability{Accelerometer: true, Gyroscope: true, Magnetometer: true}

			Convey("Then every kind eventually shows up", func() {
				kinds := map[model.Kind]bool{}
				for range 1000 {
					kinds[c.Generate(avail).Kind] = true
				}
				So(len(kinds), ShouldEqual, 4)
			})
		})
	})

	Convey("Given two catalogs seeded identically", t, func() {
		a := catalog.New(catalog.WithRand(rand.New(rand.NewSource(42)))) //nolint:gosec
		b := catalog.New(catalog.WithRand(rand.New(rand.NewSource(42)))) //nolint:gosec
		avail := model.Availability{Accelerometer: true, Gyroscope: true, Magnetometer: true}

		Convey("When drawing from both", func() {
			Convey("Then the draws match", func() {
				for range 50 {
					So(a.Generate(avail), ShouldResemble, b.Generate(avail))
				}
			})
		})
	})
}
