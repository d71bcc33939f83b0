package engine

import (
	"context"
	"math"

	"github.com/okian/romp/internal/domain/model"
)

// verifyRun counts steps as rising-edge threshold crossings of the
// accelerometer magnitude. Only the transition from at-or-below to above
// counts; a sustained peak spanning several ticks is a single step.
func (e *Engine) verifyRun(ctx context.Context, t *model.Template, s *model.SensorSample, th Thresholds) Result {
	mag := s.Accelerometer.Magnitude()
	if e.st.lastMagnitude <= th.StepMagnitude && mag > th.StepMagnitude {
		e.st.steps++
		e.notifier.Notify(ctx, EventStepDetected)
	}
	e.st.lastMagnitude = mag

	if t.Count <= 0 {
		return Result{Completed: true, Performance: 1}
	}
	progress := float64(e.st.steps) / float64(t.Count)
	if e.st.steps >= t.Count {
		return Result{Completed: true, Performance: math.Min(1, progress)}
	}
	return Result{Performance: progress}
}
