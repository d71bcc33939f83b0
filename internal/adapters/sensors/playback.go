package sensors

import (
	"context"
	"sync"

	"github.com/okian/romp/internal/domain/model"
)

// Playback replays a fixed sequence of samples, one per Snapshot call,
// repeating the final sample once exhausted. Used by tests and the motion
// simulator to feed deterministic streams through the engine.
type Playback struct {
	mu      sync.Mutex
	samples []model.SensorSample
	idx     int
	avail   model.Availability
}

// NewPlayback creates a playback source over samples.
func NewPlayback(avail model.Availability, samples ...model.SensorSample) *Playback {
	return &Playback{
		samples: samples,
		avail:   avail,
	}
}

// Snapshot returns the next scripted sample. An empty script yields zero
// samples forever.
func (p *Playback) Snapshot(ctx context.Context) model.SensorSample {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.samples) == 0 {
		return model.SensorSample{}
	}
	s := p.samples[p.idx]
	if p.idx < len(p.samples)-1 {
		p.idx++
	}
	return s
}

// Availability returns the scripted availability.
func (p *Playback) Availability(ctx context.Context) model.Availability {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.avail
}

// Remaining reports how many scripted samples have not been served yet.
func (p *Playback) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.samples) - p.idx
}
