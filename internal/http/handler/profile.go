package handler

import (
	"context"
	"net/http"

	"heartlink/internal/model"
)

// ProfileEditor is the profile part of the API.
type ProfileEditor interface {
	Profile(ctx context.Context) (model.ProfileResponse, error)
	CreateProfile(ctx context.Context, profile model.Profile) (model.ProfileResponse, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.ProfileResponse, error)
}

// ProfileHandler provides HTTP endpoints for the signed-in user's profile.
type ProfileHandler struct {
	svc ProfileEditor
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(svc ProfileEditor) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Create handles POST /profile.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Profile
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.svc.CreateProfile(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// Update handles PATCH /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.svc.UpdateProfile(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
