// Package repository defines the session history store and its
// implementations.
package repository

import (
	"context"

	"github.com/okian/romp/internal/domain/model"
)

// Store provides append-only access to persisted session records.
type Store interface {
	// SaveSession persists a finished session. Records are immutable once
	// saved; saving the same session id twice is an error.
	SaveSession(ctx context.Context, rec model.SessionRecord) error

	// Sessions returns up to limit records, newest first. A non-positive
	// limit returns ErrInvalidLimit.
	Sessions(ctx context.Context, limit int) ([]model.SessionRecord, error)

	// TotalScore sums the scores of all persisted sessions.
	TotalScore(ctx context.Context) (int, error)

	// Count returns the number of persisted sessions.
	Count(ctx context.Context) (int, error)

	// Close releases any underlying resources.
	Close() error
}
