package engine

import (
	"context"
	"math"
	"time"

	"github.com/okian/romp/internal/domain/model"
)

// classifyTilt maps a gyroscope sample to a coarse tilt direction. The x
// axis wins over y when both exceed the threshold.
func classifyTilt(g model.Vec3, threshold float64) model.TiltDirection {
	switch {
	case g.X > threshold:
		return model.TiltForward
	case g.X < -threshold:
		return model.TiltBackward
	case g.Y > threshold:
		return model.TiltRight
	case g.Y < -threshold:
		return model.TiltLeft
	default:
		return model.TiltNone
	}
}

// verifyTilt records debounced tilt transitions and checks the template's
// completion modes. Hold mode runs first but does not stop sequence mode
// from being evaluated in the same tick; either completes the challenge.
func (e *Engine) verifyTilt(ctx context.Context, t *model.Template, s *model.SensorSample, th Thresholds) Result {
	dir := classifyTilt(s.Gyroscope, th.TiltAngle)
	if dir != model.TiltNone && dir != e.st.lastTilt {
		e.st.lastTilt = dir
		e.st.tilts = append(e.st.tilts, dir)
		e.notifier.Notify(ctx, EventTiltDetected)
	}

	var completed bool
	var progress float64

	// Hold mode: continuous classification equal to the first required
	// direction for the full hold duration. Any differing tick resets.
	if t.Hold > 0 && len(t.Directions) > 0 {
		if dir == t.Directions[0] {
			if e.st.tiltHoldStart.IsZero() {
				e.st.tiltHoldStart = e.now()
			}
			held := e.now().Sub(e.st.tiltHoldStart)
			progress = math.Min(1, float64(held)/float64(t.Hold))
			if held >= t.Hold {
				completed = true
			}
		} else {
			e.st.tiltHoldStart = time.Time{}
		}
	}

	// Sequence mode: required directions found in order within the
	// recorded transitions, gaps allowed. A single-direction template with
	// a hold duration is hold-only; the one recorded transition would
	// otherwise satisfy the sequence immediately.
	if len(t.Directions) > 0 && (t.Hold == 0 || len(t.Directions) > 1) {
		matched := matchSubsequence(t.Directions, e.st.tilts)
		progress = math.Max(progress, float64(matched)/float64(len(t.Directions)))
		if matched == len(t.Directions) {
			completed = true
		}
	}

	if completed {
		e.st.tilts = e.st.tilts[:0]
		e.st.tiltHoldStart = time.Time{}
		return Result{Completed: true, Performance: math.Min(1, progress)}
	}
	return Result{Performance: progress}
}

// matchSubsequence returns how many of the required directions appear, in
// order, within the observed transitions.
func matchSubsequence(required, observed []model.TiltDirection) int {
	idx := 0
	for _, d := range observed {
		if idx == len(required) {
			break
		}
		if d == required[idx] {
			idx++
		}
	}
	return idx
}
