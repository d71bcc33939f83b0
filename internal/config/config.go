// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file/env.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// PollIntervalMS is the verification tick cadence in milliseconds.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// ChallengeTimeoutS is how long a challenge may run before it fails.
	ChallengeTimeoutS int `koanf:"challenge_timeout_s"`

	// Difficulty selects the sensitivity multiplier: easy, medium, hard.
	Difficulty string `koanf:"difficulty"`

	// HistoryLimit caps GET /sessions?limit.
	HistoryLimit int `koanf:"history_limit"`

	// DBPath is the SQLite file for session history. Empty keeps history
	// in memory only.
	DBPath string `koanf:"db_path"`

	// MQTTBroker enables the MQTT sample subscriber when non-empty,
	// e.g. "tcp://localhost:1883".
	MQTTBroker string `koanf:"mqtt_broker"`

	// MQTTTopic is the topic devices publish samples to.
	MQTTTopic string `koanf:"mqtt_topic"`

	// Base detection thresholds before sensitivity adjustment.
	StepMagnitude      float64 `koanf:"step_magnitude"`
	RotationSpeed      float64 `koanf:"rotation_speed"`
	TiltAngle          float64 `koanf:"tilt_angle"`
	DirectionTolerance float64 `koanf:"direction_tolerance"`
}

// Defaults for the verification cadence and challenge timing.
const (
	defaultPollIntervalMS    = 100
	defaultChallengeTimeoutS = 30
	defaultHistoryLimit      = 50
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		PollIntervalMS:     defaultPollIntervalMS,
		ChallengeTimeoutS:  defaultChallengeTimeoutS,
		Difficulty:         "medium",
		HistoryLimit:       defaultHistoryLimit,
		MQTTTopic:          "romp/samples",
		StepMagnitude:      1.2,
		RotationSpeed:      0.5,
		TiltAngle:          0.8,
		DirectionTolerance: 15,
	}
}
