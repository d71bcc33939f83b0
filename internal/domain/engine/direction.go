package engine

import (
	"context"
	"math"
	"time"

	"github.com/okian/romp/internal/domain/model"
)

// directionHold is how long the heading must stay within tolerance before
// a DIRECTION challenge completes. Wall clock, not tick count.
const directionHold = 2 * time.Second

// heading converts a magnetometer sample to a compass heading in degrees,
// normalized to [0,360).
func heading(m model.Vec3) float64 {
	h := math.Atan2(m.Y, m.X) * degreesPerRadian
	if h < 0 {
		h += 360
	}
	return h
}

// angularDiff returns the shorter-arc difference between two headings.
func angularDiff(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// verifyDirection checks whether the device faces the target compass point
// and has held it long enough. Losing the match at any tick resets the
// hold from scratch.
func (e *Engine) verifyDirection(ctx context.Context, t *model.Template, s *model.SensorSample, th Thresholds) Result {
	diff := angularDiff(heading(s.Magnetometer), t.Target.Heading())

	tolerance := th.Tolerance
	if t.Tolerance > 0 {
		tolerance = t.Tolerance
	}

	if diff <= tolerance {
		if !e.st.headingMatched {
			e.st.headingMatched = true
			e.st.headingHoldStart = e.now()
			e.notifier.Notify(ctx, EventDirectionMatched)
		}
		if e.now().Sub(e.st.headingHoldStart) >= directionHold {
			e.st.headingMatched = false
			e.st.headingHoldStart = time.Time{}
			return Result{Completed: true, Performance: 1 - diff/tolerance}
		}
	} else {
		e.st.headingMatched = false
		e.st.headingHoldStart = time.Time{}
	}
	return Result{Performance: math.Max(0, 1-diff/180)}
}
