package simulate

import "errors"

// Sentinel kinds for simulation errors.
var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrUnhealthy       = errors.New("service unhealthy")
	ErrRequestFailed   = errors.New("request failed")
)
