package models

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email is already registered")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidationError is returned for bad user input, before anything is persisted.
// Problems are meant to be shown to the user as-is.
type ValidationError struct {
	Problems []string
	cause    error
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// DuplicateEmail is the ValidationError reported on signup with a taken email.
// errors.Is(err, ErrDuplicateEmail) holds for it.
func DuplicateEmail() *ValidationError {
	return &ValidationError{Problems: []string{"Email is already registered"}, cause: ErrDuplicateEmail}
}

// AsValidation unwraps err into a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
