// Package simulate drives a running service with scripted motion, the way
// the companion app would: it opens the sample stream, plays a waveform
// scenario and watches the round status until the challenge resolves.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Scenario   string        // Named motion scenario to play
	SampleRate time.Duration // Interval between streamed samples
	MaxRun     time.Duration // Give up after this long
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Enable verbose logging
}

// Stats holds simulation statistics.
type Stats struct {
	FramesSent    int
	StatusFrames  int
	ChallengeKind string
	Completed     bool
	Score         int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
