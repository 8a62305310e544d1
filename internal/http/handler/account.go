package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"heartlink/internal/model"
)

// AccountService covers signup, email verification and password recovery.
// None of these calls needs a credential.
type AccountService interface {
	Register(ctx context.Context, creds model.Credentials) (model.StatusMessage, error)
	VerifyEmail(ctx context.Context, token string) (model.StatusMessage, error)
	ForgotPassword(ctx context.Context, email string) (model.StatusMessage, error)
	ResetPassword(ctx context.Context, token, password string) (model.StatusMessage, error)
}

// AccountHandler provides HTTP endpoints for account lifecycle.
type AccountHandler struct {
	svc AccountService
}

// NewAccountHandler builds an AccountHandler.
func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Register handles POST /account.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.svc.Register(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Verify handles GET /account/verify/{token}.
func (h *AccountHandler) Verify(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ForgotPassword handles POST /password/forgot.
func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.svc.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResetPassword handles POST /password/reset/{token}.
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.svc.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
