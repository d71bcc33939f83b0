package api

import (
	"context"
	"net/http"
)

// StatsDependencies defines the interface for aggregate statistics.
type StatsDependencies interface {
	TotalScore(ctx context.Context) (int, error)
	SessionCount(ctx context.Context) (int, error)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps StatsDependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

type statsResponse struct {
	TotalScore   int `json:"total_score"`
	SessionCount int `json:"session_count"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	total, err := h.deps.TotalScore(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	count, err := h.deps.SessionCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{TotalScore: total, SessionCount: count})
}
