package engine

import "github.com/okian/romp/internal/domain/model"

// Fallback shake detection for the sensorless BASIC challenge.
const (
	shakeThreshold   = 2.5
	shakePerformance = 0.7
)

// verifyShake is the fallback detector: any single accelerometer reading
// above the shake threshold completes the challenge at a fixed score.
func (e *Engine) verifyShake(s *model.SensorSample) Result {
	if s.Accelerometer.Magnitude() > shakeThreshold {
		return Result{Completed: true, Performance: shakePerformance}
	}
	return Result{}
}
