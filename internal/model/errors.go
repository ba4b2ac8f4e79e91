package model

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateItem     = errors.New("food item already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("not allowed")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid is shorthand for a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
