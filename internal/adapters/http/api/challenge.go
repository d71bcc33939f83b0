package api

import (
	"context"
	"net/http"
	"time"

	service "github.com/okian/romp/internal/app"
	"github.com/okian/romp/internal/domain/model"
)

// ChallengeDependencies defines the interface for challenge operations.
type ChallengeDependencies interface {
	StartChallenge(ctx context.Context) (model.Template, error)
	SkipChallenge(ctx context.Context) error
	Status(ctx context.Context) service.Status
}

// ChallengeHandler handles challenge lifecycle requests.
type ChallengeHandler struct {
	deps ChallengeDependencies
}

// NewChallengeHandler creates a new challenge handler.
func NewChallengeHandler(deps ChallengeDependencies) *ChallengeHandler {
	return &ChallengeHandler{deps: deps}
}

// challengeResponse mirrors the wire shape for a generated challenge.
type challengeResponse struct {
	Kind        string        `json:"kind"`
	Instruction string        `json:"instruction"`
	Hint        string        `json:"hint,omitempty"`
	Count       int           `json:"count,omitempty"`
	Degrees     float64       `json:"degrees,omitempty"`
	Hold        time.Duration `json:"hold,omitempty"`
}

// HandleChallenge handles POST /challenge (start a new challenge) and
// GET /challenge (current round status).
func (h *ChallengeHandler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	const op = "api.challenge"
	switch r.Method {
	case http.MethodPost:
		tpl, err := h.deps.StartChallenge(r.Context())
		if err != nil {
			writeError(w, http.StatusConflict, "challenge_unavailable", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusCreated, challengeResponse{
			Kind:        tpl.Kind.String(),
			Instruction: tpl.Instruction,
			Hint:        tpl.Hint,
			Count:       tpl.Count,
			Degrees:     tpl.Degrees,
			Hold:        tpl.Hold,
		})
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Status(r.Context()))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	}
}

// HandleSkip handles POST /challenge/skip requests.
func (h *ChallengeHandler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	const op = "api.challenge_skip"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
		return
	}
	if err := h.deps.SkipChallenge(r.Context()); err != nil {
		writeError(w, http.StatusConflict, "no_active_challenge", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
}
