package engine

// Base detection thresholds at medium difficulty.
const (
	defaultStepMagnitude = 1.2  // accelerometer magnitude a step must cross
	defaultRotationSpeed = 0.5  // rad/s below which gyro samples are noise
	defaultTiltAngle     = 0.8  // gyro axis value that registers as a tilt
	defaultTolerance     = 15.0 // compass tolerance in degrees
)

// Sensitivity multipliers per difficulty setting.
const (
	SensitivityEasy   = 0.7
	SensitivityMedium = 1.0
	SensitivityHard   = 1.3
)

// Thresholds holds the tunable detection limits for one verification pass.
type Thresholds struct {
	StepMagnitude float64 `json:"step_magnitude"`
	RotationSpeed float64 `json:"rotation_speed"`
	TiltAngle     float64 `json:"tilt_angle"`
	Tolerance     float64 `json:"tolerance"`
}

// DefaultThresholds returns the base thresholds before any sensitivity
// adjustment.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StepMagnitude: defaultStepMagnitude,
		RotationSpeed: defaultRotationSpeed,
		TiltAngle:     defaultTiltAngle,
		Tolerance:     defaultTolerance,
	}
}

// Adjust scales the thresholds by a sensitivity multiplier. Higher
// sensitivity lowers the magnitude, speed and angle limits and widens the
// compass tolerance, all of which make challenges easier. A non-positive
// multiplier leaves the thresholds unchanged.
func (t Thresholds) Adjust(sensitivity float64) Thresholds {
	if sensitivity <= 0 {
		return t
	}
	return Thresholds{
		StepMagnitude: t.StepMagnitude / sensitivity,
		RotationSpeed: t.RotationSpeed / sensitivity,
		TiltAngle:     t.TiltAngle / sensitivity,
		Tolerance:     t.Tolerance * sensitivity,
	}
}

// SensitivityFor maps a difficulty name to its multiplier. Unknown names
// fall back to medium.
func SensitivityFor(difficulty string) float64 {
	switch difficulty {
	case "easy":
		return SensitivityEasy
	case "hard":
		return SensitivityHard
	default:
		return SensitivityMedium
	}
}
