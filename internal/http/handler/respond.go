package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"heartlink/internal/apierr"
	"heartlink/internal/conversation"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequest
	}
	return nil
}

var errBadRequest = errors.New("malformed request body")

// statusFor maps domain and API errors to the companion API's status codes.
func statusFor(err error) int {
	var (
		apiErr       *apierr.APIError
		validationEr validator.ValidationErrors
	)
	upstream := apierr.StatusCode(err)
	switch {
	case errors.Is(err, apierr.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, apierr.ErrEmptyContent),
		errors.Is(err, conversation.ErrMatchIDRequired),
		errors.Is(err, errBadRequest),
		errors.As(err, &validationEr):
		return http.StatusBadRequest
	case errors.Is(err, conversation.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, apierr.ErrDuplicateSend),
		errors.Is(err, conversation.ErrNotOpen),
		errors.Is(err, conversation.ErrNotRetryable):
		return http.StatusConflict
	case upstream >= 400 && upstream < 500:
		return upstream
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
