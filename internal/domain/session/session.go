// Package session accumulates per-challenge outcomes into a session record
// for the persistence store.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/romp/internal/domain/model"
)

// ErrFinished is returned when outcomes are appended to a session that has
// already been closed out.
var ErrFinished = errors.New("session already finished")

// Aggregator collects outcomes for one play session. The outcome list is
// append-only while the session runs; Finish seals it into an immutable
// SessionRecord.
type Aggregator struct {
	mu        sync.Mutex
	id        string
	startedAt time.Time
	outcomes  []model.Outcome
	score     int
	finished  bool
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithStart sets the session start time. Tests pass a fixed time.
func WithStart(t time.Time) Option {
	return func(a *Aggregator) {
		if !t.IsZero() {
			a.startedAt = t
		}
	}
}

// New opens a fresh session with a generated identifier.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		id:        uuid.NewString(),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the session identifier.
func (a *Aggregator) ID() string {
	return a.id
}

// Append records one challenge outcome and adds its score to the session
// total.
func (a *Aggregator) Append(o model.Outcome) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished {
		return ErrFinished
	}
	a.outcomes = append(a.outcomes, o)
	a.score += o.Score
	return nil
}

// Score returns the running session total.
func (a *Aggregator) Score() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.score
}

// Count returns the number of outcomes recorded so far.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.outcomes)
}

// Finish seals the session and returns its immutable record. Further
// appends fail with ErrFinished; calling Finish again returns an equal
// record.
func (a *Aggregator) Finish() model.SessionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finished = true

	challenges := make([]model.Outcome, len(a.outcomes))
	copy(challenges, a.outcomes)
	return model.SessionRecord{
		ID:              a.id,
		Date:            a.startedAt,
		Score:           a.score,
		Challenges:      challenges,
		TotalChallenges: len(challenges),
	}
}
