// Package engine implements the challenge verification detectors.
//
// One Engine instance owns the mutable detector state for the single
// active challenge. Verification is synchronous and recomputed every tick;
// callers with concurrent pollers must serialize access themselves.
package engine

import "context"

// Event is a discrete, sound-worthy moment detected during play.
type Event int

// Events emitted by the engine and its enclosing service.
const (
	EventChallengeStart Event = iota
	EventChallengeComplete
	EventChallengeFail
	EventStepDetected
	EventTiltDetected
	EventDirectionMatched
	EventUIClick
)

// String returns the wire name of the event.
func (e Event) String() string {
	switch e {
	case EventChallengeStart:
		return "challenge_start"
	case EventChallengeComplete:
		return "challenge_complete"
	case EventChallengeFail:
		return "challenge_fail"
	case EventStepDetected:
		return "step_detected"
	case EventTiltDetected:
		return "tilt_detected"
	case EventDirectionMatched:
		return "direction_matched"
	case EventUIClick:
		return "ui_click"
	default:
		return "unknown"
	}
}

// Notifier receives fire-and-forget event notifications. Implementations
// must not block: verification runs on a 100 ms cadence and a slow sink
// would stall the poll loop.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, e Event)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }

// NopNotifier discards all events.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(context.Context, Event) {}
