package analyzer

import (
	"errors"
	"fmt"
)

// BackendError covers transport failures, non-2xx statuses and
// success:false payloads from the analysis backend.
type BackendError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("analyzer: %s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("analyzer: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("analyzer: %s: status %d", e.Op, e.StatusCode)
	}
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// FailureMessage extracts the backend's own message from err, or "" if the
// error is not a BackendError or the backend sent none. Callers use it to
// surface backend text verbatim in notifications.
func FailureMessage(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}
