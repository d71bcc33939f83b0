// Package sensors provides sources of sensor snapshots for the poll loop.
//
// The device owns sensor acquisition; this package only receives pushed
// samples (WebSocket frames, MQTT messages, scripted playback) and serves
// the most recent value per family.
package sensors

import (
	"context"

	"github.com/okian/romp/internal/domain/model"
)

// Source supplies the verification poll with sensor data.
type Source interface {
	// Snapshot returns the most recent sample. Families that are
	// unavailable report the zero vector; Snapshot never blocks on new
	// data arriving.
	Snapshot(ctx context.Context) model.SensorSample

	// Availability reports which sensor families the device exposes.
	// Queried once at challenge-generation time.
	Availability(ctx context.Context) model.Availability
}
