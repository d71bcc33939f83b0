package repository

import (
	"context"
	"sync"

	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/pkg/metrics"
)

// MemStore implements Store in memory. It backs tests and runs without a
// database file when no path is configured.
type MemStore struct {
	mu      sync.RWMutex
	records []model.SessionRecord // insertion order, oldest first
	byID    map[string]struct{}
	closed  bool
}

// NewMemStore creates an empty in-memory session store.
func NewMemStore() *MemStore {
	return &MemStore{
		byID: make(map[string]struct{}),
	}
}

// SaveSession appends a record.
func (m *MemStore) SaveSession(ctx context.Context, rec model.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, ok := m.byID[rec.ID]; ok {
		return ErrDuplicateSession
	}
	m.records = append(m.records, rec)
	m.byID[rec.ID] = struct{}{}
	metrics.RecordSessionPersisted(rec.Score)
	return nil
}

// Sessions returns up to limit records, newest first.
func (m *MemStore) Sessions(ctx context.Context, limit int) ([]model.SessionRecord, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	n := min(limit, len(m.records))
	out := make([]model.SessionRecord, 0, n)
	for i := len(m.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// TotalScore sums all persisted session scores.
func (m *MemStore) TotalScore(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	total := 0
	for _, r := range m.records {
		total += r.Score
	}
	return total, nil
}

// Count returns the number of persisted sessions.
func (m *MemStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return len(m.records), nil
}

// Close marks the store closed.
func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
