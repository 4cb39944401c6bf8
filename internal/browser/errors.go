package browser

import (
	"errors"
	"fmt"
)

// ErrDriverUnavailable marks failures to install or start the playwright driver, as
// opposed to failures of a driver that is running.
var ErrDriverUnavailable = errors.New("playwright driver unavailable")

// SessionError reports which stage of session setup failed.
type SessionError struct {
	Stage string
	Cause error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("browser session %s failed: %v", e.Stage, e.Cause)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

func newSessionError(stage string, cause error) *SessionError {
	return &SessionError{Stage: stage, Cause: cause}
}
