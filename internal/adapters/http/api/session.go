package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/romp/internal/adapters/repository"
	"github.com/okian/romp/internal/domain/model"
)

// Default and maximum history page sizes.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	StartSession(ctx context.Context) (string, error)
	EndSession(ctx context.Context) (model.SessionRecord, error)
	Sessions(ctx context.Context, limit int) ([]model.SessionRecord, error)
}

// SessionHandler handles session lifecycle and history requests.
type SessionHandler struct {
	deps     SessionDependencies
	maxLimit int
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps, maxLimit: maxHistoryLimit}
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

// HandleStartSession handles POST /session requests.
func (h *SessionHandler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_session"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	id, err := h.deps.StartSession(r.Context())
	if err != nil {
		writeError(w, http.StatusConflict, "session_unavailable", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, startSessionResponse{SessionID: id})
}

// HandleEndSession handles POST /session/end requests. The sealed record
// is returned even when persistence failed, so the caller still gets the
// final score.
func (h *SessionHandler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.end_session"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	rec, err := h.deps.EndSession(r.Context())
	if err != nil && rec.ID == "" {
		writeError(w, http.StatusConflict, "no_session", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(rec))
}

// HandleGetSessions handles GET /sessions?limit=N requests.
func (h *SessionHandler) HandleGetSessions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sessions"
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	limit := min(defaultHistoryLimit, h.maxLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	records, err := h.deps.Sessions(r.Context(), limit)
	if err != nil {
		status, code := http.StatusInternalServerError, "internal_error"
		if errors.Is(err, repository.ErrInvalidLimit) {
			status, code = http.StatusBadRequest, "bad_request"
		}
		writeError(w, status, code, Wrap(op, err))
		return
	}
	out := make([]sessionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toSessionResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}
