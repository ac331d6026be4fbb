package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and handlers. Handlers map these to
// HTTP status codes; anything else is treated as an internal failure.
var (
	// ErrNotFound covers both a missing resource and one owned by another
	// user, so callers cannot probe for existence.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyFinalized is returned when ending a time entry twice.
	ErrAlreadyFinalized = errors.New("time entry already finalized")

	// ErrSessionActive is returned when starting a pomodoro session while
	// another one is running or paused.
	ErrSessionActive = errors.New("a pomodoro session is already active")

	// ErrNoActiveSession is returned for pause/resume/stop with nothing running.
	ErrNoActiveSession = errors.New("no active pomodoro session")
)

// ValidationError marks bad input shape or range. It is surfaced verbatim
// to the caller with a 400 and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
