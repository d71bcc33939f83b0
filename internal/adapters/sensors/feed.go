package sensors

import (
	"context"
	"sync"

	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/pkg/metrics"
)

// Feed is a latest-value cache fed by transport adapters. It implements
// Source for the poll loop; readers always see the newest pushed sample
// and are never blocked by slow or absent producers.
type Feed struct {
	mu     sync.RWMutex
	sample model.SensorSample
	avail  model.Availability
}

// NewFeed creates an empty feed. Until the first push, snapshots report
// zero vectors and no availability.
func NewFeed() *Feed {
	return &Feed{}
}

// Push replaces the cached sample.
func (f *Feed) Push(s model.SensorSample) {
	f.mu.Lock()
	f.sample = s
	f.mu.Unlock()
	metrics.RecordSampleIngested()
}

// SetAvailability records which sensor families the device reports.
func (f *Feed) SetAvailability(a model.Availability) {
	f.mu.Lock()
	f.avail = a
	f.mu.Unlock()
}

// Snapshot returns the most recently pushed sample.
func (f *Feed) Snapshot(ctx context.Context) model.SensorSample {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sample
}

// Availability returns the most recently reported availability.
func (f *Feed) Availability(ctx context.Context) model.Availability {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.avail
}
