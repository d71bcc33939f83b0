package engine

import (
	"math"

	"github.com/okian/romp/internal/domain/model"
)

const (
	degreesPerRadian = 180.0 / math.Pi
	// pollDivisor folds the ~10 Hz poll cadence into the angular-velocity
	// integration. Each qualifying sample contributes one tenth of a
	// second's worth of rotation. Changing the poll interval without
	// changing this constant skews the accumulated angle.
	pollDivisor = 10.0
)

// verifyRotate accumulates rotation degrees from gyroscope z-axis samples
// that exceed the speed threshold. The axis sign is picked by the
// challenge's direction: +z clockwise, -z counter-clockwise, |z| for
// either.
func (e *Engine) verifyRotate(t *model.Template, s *model.SensorSample, th Thresholds) Result {
	var v float64
	switch {
	case t.Direction > 0:
		v = s.Gyroscope.Z
	case t.Direction < 0:
		v = -s.Gyroscope.Z
	default:
		v = math.Abs(s.Gyroscope.Z)
	}
	if v > th.RotationSpeed {
		e.st.rotated += math.Abs(v) * degreesPerRadian / pollDivisor
	}

	if t.Degrees <= 0 {
		return Result{Completed: true, Performance: 1}
	}
	if e.st.rotated >= t.Degrees {
		// Overshoot past the goal lowers the score, never raises it.
		return Result{Completed: true, Performance: math.Min(1, t.Degrees/e.st.rotated)}
	}
	return Result{Performance: e.st.rotated / t.Degrees}
}
