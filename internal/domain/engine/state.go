package engine

import (
	"time"

	"github.com/okian/romp/internal/domain/model"
)

// state is the per-challenge mutable tracking data. It is owned by exactly
// one Engine and must be fully cleared before the next challenge starts;
// a leaked step count or rotation total would carry progress across
// challenges.
type state struct {
	lastMagnitude float64
	steps         int
	rotated       float64 // accumulated degrees
	tilts         []model.TiltDirection
	lastTilt      model.TiltDirection
	tiltHoldStart time.Time

	headingMatched   bool
	headingHoldStart time.Time
}

// Reset clears all tracking. Safe to call repeatedly; a double reset leaves
// the state identical to a single one.
func (e *Engine) Reset() {
	e.st = state{}
}

// StateView is a read-only snapshot of the live tracking data, exposed for
// the stats endpoint and stream frames.
type StateView struct {
	Steps          int                   `json:"steps"`
	RotatedDegrees float64               `json:"rotated_degrees"`
	TiltTrail      []model.TiltDirection `json:"tilt_trail,omitempty"`
	HeadingMatched bool                  `json:"heading_matched"`
}

// Snapshot copies the current tracking data.
func (e *Engine) Snapshot() StateView {
	trail := make([]model.TiltDirection, len(e.st.tilts))
	copy(trail, e.st.tilts)
	return StateView{
		Steps:          e.st.steps,
		RotatedDegrees: e.st.rotated,
		TiltTrail:      trail,
		HeadingMatched: e.st.headingMatched,
	}
}
