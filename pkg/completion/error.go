package completion

import (
	"errors"
	"fmt"
)

// BackendError is returned when a completion call fails: transport-level
// failure, non-success status, or a response missing the expected choice.
type BackendError struct {
	// StatusCode is the HTTP status from the backend, 0 when the request
	// never got a response.
	StatusCode int

	Err error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion backend returned status %d: %v", e.StatusCode, e.Err)
	}

	return fmt.Sprintf("completion backend call failed: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsBackendError reports whether err is (or wraps) a *BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
