package simulate

import (
	"math"
	"time"

	"github.com/okian/romp/internal/domain/model"
)

// Waveform tuning constants.
const (
	gravity         = 1.0 // normalized resting accelerometer magnitude
	stepPeakMag     = 2.0 // accelerometer magnitude at a step impact
	stepPeriod      = 400 * time.Millisecond
	shakeAmplitude  = 3.0
	spinRate        = 1.5 // rad/s around z during a spin
	tiltLean        = 1.2 // axis reading while leaning
	tiltHoldPeriod  = 900 * time.Millisecond
	compassTurnRate = 30.0 // degrees per second toward the target heading
)

// A Generator produces the sensor sample for a moment in scenario time.
type Generator func(elapsed time.Duration) model.SensorSample

// Scenarios maps scenario names to their waveform generators.
var Scenarios = map[string]Generator{
	"shake":   Shake,
	"run":     Steps,
	"spin":    Spin,
	"tilt":    TiltSequence,
	"compass": CompassNorth,
	"idle":    Idle,
}

// Availability reports which sensors a scenario pretends to have. Every
// scenario exposes the full set so any generated challenge is playable.
func Availability() model.Availability {
	return model.Availability{
		Accelerometer: true,
		Gyroscope:     true,
		Magnetometer:  true,
	}
}

// Idle produces a device lying still on a table.
func Idle(elapsed time.Duration) model.SensorSample {
	return model.SensorSample{
		Accelerometer: model.Vec3{Z: gravity},
		Magnetometer:  model.Vec3{X: 1.0},
	}
}

// Shake produces vigorous random-looking acceleration on all axes.
func Shake(elapsed time.Duration) model.SensorSample {
	t := elapsed.Seconds()
	return model.SensorSample{
		Accelerometer: model.Vec3{
			X: shakeAmplitude * math.Sin(29*t),
			Y: shakeAmplitude * math.Cos(37*t),
			Z: gravity + shakeAmplitude*math.Sin(41*t),
		},
		Magnetometer: model.Vec3{X: 1.0},
	}
}

// Steps produces periodic step impacts: the magnitude rests near gravity and
// spikes past the step threshold once per period.
func Steps(elapsed time.Duration) model.SensorSample {
	phase := float64(elapsed%stepPeriod) / float64(stepPeriod)
	mag := gravity
	if phase < 0.25 {
		mag = stepPeakMag
	}
	return model.SensorSample{
		Accelerometer: model.Vec3{Z: mag},
		Magnetometer:  model.Vec3{X: 1.0},
	}
}

// Spin produces a steady clockwise rotation around the vertical axis.
func Spin(elapsed time.Duration) model.SensorSample {
	return model.SensorSample{
		Accelerometer: model.Vec3{Z: gravity},
		Gyroscope:     model.Vec3{Z: spinRate},
		Magnetometer:  model.Vec3{X: 1.0},
	}
}

// TiltSequence cycles through leans: forward, right, backward, left, with
// a neutral pause between each so every transition registers.
func TiltSequence(elapsed time.Duration) model.SensorSample {
	// Even slots are neutral, odd slots lean.
	slot := int(elapsed/tiltHoldPeriod) % 8
	var g model.Vec3
	switch slot {
	case 1:
		g.X = tiltLean // forward
	case 3:
		g.Y = tiltLean // right
	case 5:
		g.X = -tiltLean // backward
	case 7:
		g.Y = -tiltLean // left
	}
	return model.SensorSample{
		Accelerometer: model.Vec3{Z: gravity},
		Gyroscope:     g,
		Magnetometer:  model.Vec3{X: 1.0},
	}
}

// CompassNorth sweeps the heading toward north and holds it there.
func CompassNorth(elapsed time.Duration) model.SensorSample {
	heading := 120.0 - compassTurnRate*elapsed.Seconds()
	if heading < 0 {
		heading = 0
	}
	rad := heading * math.Pi / 180.0
	return model.SensorSample{
		Accelerometer: model.Vec3{Z: gravity},
		Magnetometer:  model.Vec3{X: math.Cos(rad), Y: math.Sin(rad)},
	}
}
