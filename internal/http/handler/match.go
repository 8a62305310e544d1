package handler

import (
	"context"
	"net/http"

	"heartlink/internal/model"
)

// Matchmaker is the match part of the API.
type Matchmaker interface {
	PotentialMatches(ctx context.Context) ([]model.PotentialMatch, error)
	Act(ctx context.Context, targetUserID, action string) (model.MatchActionResult, error)
	Matches(ctx context.Context) ([]model.Match, error)
}

// MatchHandler provides HTTP endpoints for discovery and matches.
type MatchHandler struct {
	svc Matchmaker
}

// NewMatchHandler builds a MatchHandler.
func NewMatchHandler(svc Matchmaker) *MatchHandler {
	return &MatchHandler{svc: svc}
}

// List handles GET /matches.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Matches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Match{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Potential handles GET /matches/potential.
func (h *MatchHandler) Potential(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.PotentialMatches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.PotentialMatch{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Act handles POST /matches/action.
func (h *MatchHandler) Act(w http.ResponseWriter, r *http.Request) {
	var req model.UserAction
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Act(r.Context(), req.TargetUserID, req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
