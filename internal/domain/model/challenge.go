package model

import (
	"time"
)

// Kind identifies the family of motion a challenge asks for.
type Kind int

// Challenge kinds. Basic is the sensorless fallback.
const (
	KindBasic Kind = iota
	KindRun
	KindRotate
	KindTilt
	KindDirection
)

// String returns the lowercase wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindRotate:
		return "rotate"
	case KindTilt:
		return "tilt"
	case KindDirection:
		return "direction"
	case KindBasic:
		return "basic"
	default:
		return "unknown"
	}
}

// TiltDirection classifies a gyroscope sample into a coarse tilt gesture.
type TiltDirection int

// Tilt directions in classification priority order. TiltNone means the
// device is level (within threshold) on both axes.
const (
	TiltNone TiltDirection = iota
	TiltForward
	TiltBackward
	TiltRight
	TiltLeft
)

// String returns the lowercase wire name of the tilt direction.
func (d TiltDirection) String() string {
	switch d {
	case TiltForward:
		return "forward"
	case TiltBackward:
		return "backward"
	case TiltRight:
		return "right"
	case TiltLeft:
		return "left"
	default:
		return "none"
	}
}

// CompassPoint is one of the eight fixed compass labels a DIRECTION
// challenge can target.
type CompassPoint int

// Eight-point compass rose, 45 degrees apart starting at north.
const (
	North CompassPoint = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

const degreesPerPoint = 45.0

// Heading returns the target heading in degrees for the compass point.
func (p CompassPoint) Heading() float64 {
	return float64(p) * degreesPerPoint
}

// String returns the short compass label, e.g. "NE".
func (p CompassPoint) String() string {
	names := [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	if p < North || p > NorthWest {
		return "?"
	}
	return names[p]
}

// Template is an immutable, catalog-defined challenge description.
// Only the fields relevant to Kind are set.
type Template struct {
	Kind        Kind   // challenge family
	Instruction string // display text shown to the player
	Hint        string // secondary display text

	// Run goal.
	Count int // steps to detect

	// Rotate goal.
	Degrees   float64 // total rotation to accumulate
	Direction int     // +1 clockwise, -1 counter-clockwise, 0 either

	// Tilt goal. Directions drives sequence mode, Hold drives hold mode;
	// both may be set.
	Directions []TiltDirection
	Hold       time.Duration

	// Direction goal.
	Target    CompassPoint
	Tolerance float64 // degrees; 0 means use the adjusted default
}

// Outcome records how a single challenge ended.
type Outcome struct {
	Template  Template      `json:"template"`
	Completed bool          `json:"completed"`
	Score     int           `json:"score"`
	Skipped   bool          `json:"skipped"`
	TimeLeft  time.Duration `json:"time_left"`
}

// SessionRecord is the immutable summary handed to the persistence store
// when a session ends.
type SessionRecord struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Score           int       `json:"score"`
	Challenges      []Outcome `json:"challenges"`
	TotalChallenges int       `json:"total_challenges"`
}
