// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/romp/internal/adapters/sensors"
	service "github.com/okian/romp/internal/app"
	"github.com/okian/romp/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	StartSession(ctx context.Context) (string, error)
	EndSession(ctx context.Context) (model.SessionRecord, error)

	// Challenge lifecycle.
	StartChallenge(ctx context.Context) (model.Template, error)
	SkipChallenge(ctx context.Context) error
	Status(ctx context.Context) service.Status

	// Read operations expose session history.
	Sessions(ctx context.Context, limit int) ([]model.SessionRecord, error)
	TotalScore(ctx context.Context) (int, error)
	SessionCount(ctx context.Context) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionHandler   *SessionHandler
	challengeHandler *ChallengeHandler
	streamHandler    *StreamHandler
}

// Option configures the API server.
type Option func(*Server)

// WithHistoryLimit caps the limit accepted by GET /sessions. Non-positive
// values leave the default cap in place.
func WithHistoryLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sessionHandler.maxLimit = n
		}
	}
}

// NewServer creates a new API server with all handlers. The feed may be
// nil when no stream ingestion is wired; the /stream route is then
// read-only.
func NewServer(deps Dependencies, feed *sensors.Feed, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		sessionHandler:   NewSessionHandler(deps),
		challengeHandler: NewChallengeHandler(deps),
		streamHandler:    NewStreamHandler(deps, feed),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleStartSession, "session"))
	mux.HandleFunc("/session/end", MetricsMiddleware(s.sessionHandler.HandleEndSession, "session_end"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionHandler.HandleGetSessions, "sessions"))
	mux.HandleFunc("/challenge", MetricsMiddleware(s.challengeHandler.HandleChallenge, "challenge"))
	mux.HandleFunc("/challenge/skip", MetricsMiddleware(s.challengeHandler.HandleSkip, "challenge_skip"))
	mux.HandleFunc("/stream", s.streamHandler.HandleStream)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// sessionResponse mirrors the wire shape for a persisted session.
type sessionResponse struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Score           int       `json:"score"`
	TotalChallenges int       `json:"total_challenges"`
}

func toSessionResponse(rec model.SessionRecord) sessionResponse {
	return sessionResponse{
		ID:              rec.ID,
		Date:            rec.Date,
		Score:           rec.Score,
		TotalChallenges: rec.TotalChallenges,
	}
}
