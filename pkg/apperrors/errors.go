package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
)

// InvalidTransitionError is returned when a lifecycle operation is attempted
// from a status that does not satisfy the operation's guard. The current
// status is carried so callers can report it.
type InvalidTransitionError struct {
	Operation string
	Current   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s asset in status %q", e.Operation, e.Current)
}

// ValidationError is returned when a draft is submitted without every
// required metadata tag category attached. Missing holds the exact set of
// absent categories.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required metadata missing: %s", strings.Join(e.Missing, ", "))
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
