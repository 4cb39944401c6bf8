package pages

import (
	"errors"
	"fmt"
	"time"

	"github.com/gotrs-io/emsuite/internal/locator"
)

// ErrTimeout matches every *TimeoutError via errors.Is.
var ErrTimeout = errors.New("timed out waiting for element")

// TimeoutError is returned when a bounded wait expires before its condition holds.
type TimeoutError struct {
	Op      string
	Locator locator.Locator
	Timeout time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: condition not met within %s", e.Op, e.Locator, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// UnexpectedPageError means a transition landed somewhere other than the screen it
// models, e.g. a nav link that did not reach /employees/.
type UnexpectedPageError struct {
	Want string
	Got  string
}

func (e *UnexpectedPageError) Error() string {
	return fmt.Sprintf("expected a page under %q, landed on %s", e.Want, e.Got)
}
