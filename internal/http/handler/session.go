package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"heartlink/internal/model"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error)
}

// CredentialStore owns the process-wide credential.
type CredentialStore interface {
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// SessionHandler handles login and logout.
type SessionHandler struct {
	auth   Authenticator
	store  CredentialStore
	closer interface{ Close() }
	logger zerolog.Logger
}

// NewSessionHandler creates a new instance. closer is the conversation torn
// down on logout.
func NewSessionHandler(auth Authenticator, store CredentialStore, closer interface{ Close() }, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{auth: auth, store: store, closer: closer, logger: logger}
}

// Login handles POST /session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.store.Set(r.Context(), resp.Token); err != nil {
		h.logger.Error().Err(err).Msg("store credential")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_in"})
}

// Logout handles DELETE /session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.closer.Close()
	if err := h.store.Clear(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("clear credential")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
