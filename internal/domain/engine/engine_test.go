package engine_test

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	engine "github.com/okian/romp/internal/domain/engine"
	"github.com/okian/romp/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock makes hold durations deterministic in tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// accelSample returns a sample whose accelerometer magnitude equals mag.
func accelSample(mag float64) model.SensorSample {
	return model.SensorSample{Accelerometer: model.Vec3{Z: mag}}
}

// gyroSample returns a sample with the given gyroscope axes.
func gyroSample(x, y, z float64) model.SensorSample {
	return model.SensorSample{Gyroscope: model.Vec3{X: x, Y: y, Z: z}}
}

// headingSample returns a sample whose magnetometer points at the given
// compass heading in degrees.
func headingSample(deg float64) model.SensorSample {
	rad := deg * math.Pi / 180
	return model.SensorSample{Magnetometer: model.Vec3{X: math.Cos(rad), Y: math.Sin(rad)}}
}

func TestVerifyDispatch(t *testing.T) {
	Convey("Given a fresh engine", t, func() {
		e := engine.New()
		ctx := context.Background()
		th := engine.DefaultThresholds()

		Convey("When the challenge is nil", func() {
			sample := accelSample(5)
			res := e.Verify(ctx, nil, &sample, th)

			Convey("Then the result is neutral and nothing is tracked", func() {
				So(res.Completed, ShouldBeFalse)
				So(res.Performance, ShouldEqual, 0)
				So(e.Snapshot().Steps, ShouldEqual, 0)
			})
		})

		Convey("When the sample is nil", func() {
			res := e.Verify(ctx, &model.Template{Kind: model.KindRun, Count: 1}, nil, th)

			Convey("Then the result is neutral", func() {
				So(res.Completed, ShouldBeFalse)
				So(res.Performance, ShouldEqual, 0)
			})
		})

		Convey("When the kind is the sensorless fallback", func() {
			tpl := &model.Template{Kind: model.KindBasic}

			Convey("And the device is shaken hard", func() {
				sample := accelSample(3.0)
				res := e.Verify(ctx, tpl, &sample, th)

				Convey("Then it completes at the fixed score", func() {
					So(res.Completed, ShouldBeTrue)
					So(res.Performance, ShouldEqual, 0.7)
				})
			})

			Convey("And the device is still", func() {
				sample := accelSample(1.0)
				res := e.Verify(ctx, tpl, &sample, th)

				Convey("Then nothing happens", func() {
					So(res.Completed, ShouldBeFalse)
					So(res.Performance, ShouldEqual, 0)
				})
			})
		})
	})
}

func TestRunDetector(t *testing.T) {
	Convey("Given a run challenge of 2 steps", t, func() {
		ctx := context.Background()
		th := engine.DefaultThresholds()
		tpl := &model.Template{Kind: model.KindRun, Count: 2}

		Convey("When feeding the magnitude sequence 0, 1.5, 0.8, 1.6, 0.9", func() {
			var steps int
			e := engine.New(engine.WithNotifier(engine.NotifierFunc(func(_ context.Context, ev engine.Event) {
				if ev == engine.EventStepDetected {
					steps++
				}
			})))

			var last engine.Result
			for _, mag := range []float64{0, 1.5, 0.8, 1.6, 0.9} {
				sample := accelSample(mag)
				last = e.Verify(ctx, tpl, &sample, th)
			}

			Convey("Then exactly two rising edges count as steps", func() {
				So(steps, ShouldEqual, 2)
				So(e.Snapshot().Steps, ShouldEqual, 2)
			})

			Convey("And the challenge completes with full performance", func() {
				So(last.Completed, ShouldBeTrue)
				So(last.Performance, ShouldEqual, 1)
			})
		})

		Convey("When the magnitude stays above the threshold for many ticks", func() {
			e := engine.New()
			for range 5 {
				sample := accelSample(2.0)
				e.Verify(ctx, tpl, &sample, th)
			}

			Convey("Then the sustained peak counts as a single step", func() {
				So(e.Snapshot().Steps, ShouldEqual, 1)
			})
		})

		Convey("When only one of two steps has been detected", func() {
			e := engine.New()
			sample := accelSample(1.5)
			res := e.Verify(ctx, tpl, &sample, th)

			Convey("Then progress is reported without completion", func() {
				So(res.Completed, ShouldBeFalse)
				So(res.Performance, ShouldEqual, 0.5)
			})
		})
	})
}

func TestRotateDetector(t *testing.T) {
	Convey("Given a 360 degree clockwise rotation challenge", t, func() {
		ctx := context.Background()
		th := engine.DefaultThresholds()
		tpl := &model.Template{Kind: model.KindRotate, Degrees: 360, Direction: 1}
		perTick := 1.0 * 180 / math.Pi / 10

		Convey("When spinning at a constant 1 rad/s clockwise", func() {
			e := engine.New()
			ticks := 0
			var last engine.Result
			for !last.Completed && ticks < 1000 {
				sample := gyroSample(0, 0, 1.0)
				last = e.Verify(ctx, tpl, &sample, th)
				ticks++
			}

			Convey("Then it completes exactly when the accumulated angle reaches the goal", func() {
				So(ticks, ShouldEqual, int(math.Ceil(360/perTick)))
				So(last.Completed, ShouldBeTrue)
			})

			Convey("And overshoot keeps the performance at most 1", func() {
				So(last.Performance, ShouldBeLessThanOrEqualTo, 1)
				So(last.Performance, ShouldBeGreaterThan, 0.99)
			})
		})

		Convey("When spinning the wrong way", func() {
			e := engine.New()
			for range 100 {
				sample := gyroSample(0, 0, -1.0)
				e.Verify(ctx, tpl, &sample, th)
			}

			Convey("Then nothing accumulates", func() {
				So(e.Snapshot().RotatedDegrees, ShouldEqual, 0)
			})
		})

		Convey("When the spin is below the speed threshold", func() {
			e := engine.New()
			sample := gyroSample(0, 0, 0.3)
			e.Verify(ctx, tpl, &sample, th)

			Convey("Then the sample is treated as noise", func() {
				So(e.Snapshot().RotatedDegrees, ShouldEqual, 0)
			})
		})

		Convey("When the challenge accepts either direction", func() {
			either := &model.Template{Kind: model.KindRotate, Degrees: 360}
			e := engine.New()
			s1 := gyroSample(0, 0, 1.0)
			s2 := gyroSample(0, 0, -1.0)
			e.Verify(ctx, either, &s1, th)
			e.Verify(ctx, either, &s2, th)

			Convey("Then both signs accumulate", func() {
				So(e.Snapshot().RotatedDegrees, ShouldAlmostEqual, 2*perTick, 1e-9)
			})
		})
	})
}

func TestTiltDetector(t *testing.T) {
	Convey("Given a tilt sequence challenge left, forward, right", t, func() {
		ctx := context.Background()
		th := engine.DefaultThresholds()
		tpl := &model.Template{
			Kind:       model.KindTilt,
			Directions: []model.TiltDirection{model.TiltLeft, model.TiltForward, model.TiltRight},
		}

		lean := map[model.TiltDirection]model.SensorSample{
			model.TiltForward:  gyroSample(1.0, 0, 0),
			model.TiltBackward: gyroSample(-1.0, 0, 0),
			model.TiltRight:    gyroSample(0, 1.0, 0),
			model.TiltLeft:     gyroSample(0, -1.0, 0),
			model.TiltNone:     gyroSample(0, 0, 0),
		}

		Convey("When the observed transitions are left, backward, forward, left, right", func() {
			e := engine.New()
			var last engine.Result
			for _, dir := range []model.TiltDirection{
				model.TiltLeft, model.TiltBackward, model.TiltForward, model.TiltLeft, model.TiltRight,
			} {
				s := lean[dir]
				last = e.Verify(ctx, tpl, &s, th)
			}

			Convey("Then the required subsequence completes despite the extras", func() {
				So(last.Completed, ShouldBeTrue)
				So(last.Performance, ShouldEqual, 1)
			})

			Convey("And completion clears the transition trail", func() {
				So(e.Snapshot().TiltTrail, ShouldBeEmpty)
			})
		})

		Convey("When a lean is sustained across several ticks", func() {
			e := engine.New()
			for range 4 {
				s := lean[model.TiltLeft]
				e.Verify(ctx, tpl, &s, th)
			}

			Convey("Then it debounces into a single transition", func() {
				So(e.Snapshot().TiltTrail, ShouldHaveLength, 1)
			})
		})

		Convey("When only part of the sequence has appeared", func() {
			e := engine.New()
			s1 := lean[model.TiltLeft]
			e.Verify(ctx, tpl, &s1, th)
			s2 := lean[model.TiltForward]
			res := e.Verify(ctx, tpl, &s2, th)

			Convey("Then progress reflects the matched count", func() {
				So(res.Completed, ShouldBeFalse)
				So(res.Performance, ShouldAlmostEqual, 2.0/3.0, 1e-9)
			})
		})
	})

	Convey("Given a tilt hold challenge of 1 second forward", t, func() {
		ctx := context.Background()
		th := engine.DefaultThresholds()
		tpl := &model.Template{
			Kind:       model.KindTilt,
			Directions: []model.TiltDirection{model.TiltForward},
			Hold:       time.Second,
		}
		clock := newFakeClock()
		e := engine.New(engine.WithClock(clock.now))
		forward := gyroSample(1.0, 0, 0)
		level := gyroSample(0, 0, 0)

		Convey("When the lean is held for the full duration", func() {
			res := e.Verify(ctx, tpl, &forward, th)
			So(res.Completed, ShouldBeFalse)

			clock.advance(time.Second)
			res = e.Verify(ctx, tpl, &forward, th)

			Convey("Then the challenge completes", func() {
				So(res.Completed, ShouldBeTrue)
				So(res.Performance, ShouldEqual, 1)
			})
		})

		Convey("When the lean is dropped midway", func() {
			e.Verify(ctx, tpl, &forward, th)
			clock.advance(500 * time.Millisecond)
			e.Verify(ctx, tpl, &level, th)
			clock.advance(100 * time.Millisecond)
			e.Verify(ctx, tpl, &forward, th)
			clock.advance(700 * time.Millisecond)
			res := e.Verify(ctx, tpl, &forward, th)

			Convey("Then the hold restarts from the drop", func() {
				So(res.Completed, ShouldBeFalse)
			})
		})
	})
}

func TestDirectionDetector(t *testing.T) {
	Convey("Given a north-facing challenge with 20 degree tolerance", t, func() {
		ctx := context.Background()
		th := engine.DefaultThresholds()
		tpl := &model.Template{Kind: model.KindDirection, Target: model.North, Tolerance: 20}

		Convey("When facing 10 degrees off and holding for 2 seconds", func() {
			clock := newFakeClock()
			var matches int
			e := engine.New(
				engine.WithClock(clock.now),
				engine.WithNotifier(engine.NotifierFunc(func(_ context.Context, ev engine.Event) {
					if ev == engine.EventDirectionMatched {
						matches++
					}
				})),
			)
			near := headingSample(10)

			res := e.Verify(ctx, tpl, &near, th)
			So(res.Completed, ShouldBeFalse)
			clock.advance(2 * time.Second)
			res = e.Verify(ctx, tpl, &near, th)

			Convey("Then it completes with performance proportional to accuracy", func() {
				So(res.Completed, ShouldBeTrue)
				So(res.Performance, ShouldAlmostEqual, 0.5, 1e-9)
			})

			Convey("And the match notification fired exactly once", func() {
				So(matches, ShouldEqual, 1)
			})
		})

		Convey("When the heading drifts out mid-hold", func() {
			clock := newFakeClock()
			e := engine.New(engine.WithClock(clock.now))
			near := headingSample(10)
			away := headingSample(90)

			e.Verify(ctx, tpl, &near, th)
			clock.advance(time.Second)
			e.Verify(ctx, tpl, &away, th)
			clock.advance(time.Second)
			res := e.Verify(ctx, tpl, &near, th)

			Convey("Then the hold timer restarts from scratch", func() {
				So(res.Completed, ShouldBeFalse)
			})
		})

		Convey("When the heading is off target", func() {
			e := engine.New()
			away := headingSample(90)
			res := e.Verify(ctx, tpl, &away, th)

			Convey("Then running performance shrinks with the angular distance", func() {
				So(res.Completed, ShouldBeFalse)
				So(res.Performance, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When the target sits across the wraparound", func() {
			e := engine.New()
			// 350 degrees is 10 degrees short of north on the shorter arc.
			wrap := headingSample(350)
			res := e.Verify(ctx, tpl, &wrap, th)

			Convey("Then the shorter arc keeps the heading matched", func() {
				So(res.Performance, ShouldAlmostEqual, 1-10.0/180, 1e-9)
				So(e.Snapshot().HeadingMatched, ShouldBeTrue)
			})
		})

		Convey("When the template has no tolerance of its own", func() {
			plain := &model.Template{Kind: model.KindDirection, Target: model.East}
			e := engine.New()
			// 14 degrees off east, inside the default 15 degree tolerance.
			near := headingSample(104)
			e.Verify(ctx, plain, &near, th)

			Convey("Then the adjusted default applies", func() {
				So(e.Snapshot().HeadingMatched, ShouldBeTrue)
			})
		})
	})
}

func TestThresholds(t *testing.T) {
	Convey("Given the base thresholds", t, func() {
		base := engine.DefaultThresholds()

		Convey("When adjusting with a positive multiplier", func() {
			for _, m := range []float64{0.7, 1.0, 1.3, 2.5} {
				adj := base.Adjust(m)

				Convey("Then limits divide and tolerance multiplies for m="+
					strconv.FormatFloat(m, 'g', -1, 64), func() {
					So(adj.StepMagnitude, ShouldAlmostEqual, base.StepMagnitude/m, 1e-9)
					So(adj.RotationSpeed, ShouldAlmostEqual, base.RotationSpeed/m, 1e-9)
					So(adj.TiltAngle, ShouldAlmostEqual, base.TiltAngle/m, 1e-9)
					So(adj.Tolerance, ShouldAlmostEqual, base.Tolerance*m, 1e-9)
				})
			}
		})

		Convey("When the multiplier is non-positive", func() {
			Convey("Then the thresholds come back unchanged", func() {
				So(base.Adjust(0), ShouldResemble, base)
				So(base.Adjust(-1), ShouldResemble, base)
			})
		})

		Convey("When mapping difficulty names", func() {
			Convey("Then each level has its multiplier and unknown falls back to medium", func() {
				So(engine.SensitivityFor("easy"), ShouldEqual, 0.7)
				So(engine.SensitivityFor("medium"), ShouldEqual, 1.0)
				So(engine.SensitivityFor("hard"), ShouldEqual, 1.3)
				So(engine.SensitivityFor("nightmare"), ShouldEqual, 1.0)
			})
		})
	})
}

func TestReset(t *testing.T) {
	Convey("Given an engine with accumulated tracking", t, func() {
		ctx := context.Background()
		th := engine.DefaultThresholds()
		e := engine.New()

		runTpl := &model.Template{Kind: model.KindRun, Count: 100}
		sample := accelSample(2.0)
		e.Verify(ctx, runTpl, &sample, th)

		rotTpl := &model.Template{Kind: model.KindRotate, Degrees: 720, Direction: 1}
		spin := gyroSample(0, 0, 1.0)
		e.Verify(ctx, rotTpl, &spin, th)
		So(e.Snapshot().Steps, ShouldEqual, 1)
		So(e.Snapshot().RotatedDegrees, ShouldBeGreaterThan, 0)

		Convey("When resetting", func() {
			e.Reset()
			first := e.Snapshot()

			Convey("Then all tracking is cleared", func() {
				So(first.Steps, ShouldEqual, 0)
				So(first.RotatedDegrees, ShouldEqual, 0)
				So(first.TiltTrail, ShouldBeEmpty)
				So(first.HeadingMatched, ShouldBeFalse)
			})

			Convey("And resetting again changes nothing", func() {
				e.Reset()
				So(e.Snapshot(), ShouldResemble, first)
			})
		})
	})
}
