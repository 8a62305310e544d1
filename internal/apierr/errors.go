package apierr

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired is returned before any network call when no
	// credential is present.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrEmptyContent is returned for blank message content. Callers treat it
	// as a no-op rather than a user-facing failure.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrDuplicateSend is returned when identical content is already pending.
	ErrDuplicateSend = errors.New("identical message is already being sent")
)

// NetworkErrorMessage is used when the request never produced a response.
const NetworkErrorMessage = "Network error occurred"

// APIError is a non-2xx response or a transport failure. StatusCode is zero
// for transport failures.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
