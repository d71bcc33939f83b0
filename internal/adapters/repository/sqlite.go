package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id               TEXT PRIMARY KEY,
	date             TEXT NOT NULL,
	score            INTEGER NOT NULL,
	total_challenges INTEGER NOT NULL,
	challenges       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_date ON sessions(date DESC);
`

// SQLiteStore implements Store on a local SQLite database. Session history
// survives restarts; the challenge outcome list is stored as a JSON blob
// since it is only ever read back whole.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveSession inserts a finished session record.
func (s *SQLiteStore) SaveSession(ctx context.Context, rec model.SessionRecord) error {
	start := time.Now()
	challenges, err := json.Marshal(rec.Challenges)
	if err != nil {
		return fmt.Errorf("encode challenges: %w", err)
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = ?)`, rec.ID).Scan(&exists); err == nil && exists {
		return ErrDuplicateSession
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, date, score, total_challenges, challenges) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Date.UTC().Format(time.RFC3339Nano), rec.Score, rec.TotalChallenges, string(challenges),
	)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("insert session %s: %w", rec.ID, err)
	}
	metrics.RecordSessionPersisted(rec.Score)
	metrics.RecordPersistLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Sessions returns up to limit records, newest first.
func (s *SQLiteStore) Sessions(ctx context.Context, limit int) ([]model.SessionRecord, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, score, total_challenges, challenges FROM sessions ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []model.SessionRecord
	for rows.Next() {
		var (
			rec        model.SessionRecord
			date       string
			challenges string
		)
		if err := rows.Scan(&rec.ID, &date, &rec.Score, &rec.TotalChallenges, &challenges); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if rec.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("parse session date: %w", err)
		}
		if err := json.Unmarshal([]byte(challenges), &rec.Challenges); err != nil {
			return nil, fmt.Errorf("decode challenges: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// TotalScore sums all persisted session scores.
func (s *SQLiteStore) TotalScore(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(score), 0) FROM sessions`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum scores: %w", err)
	}
	return total, nil
}

// Count returns the number of persisted sessions.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
