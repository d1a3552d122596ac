// Package errs holds the error kinds shared by every layer. Handlers map them
// to HTTP statuses with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("please authenticate")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// FieldError reports a single invalid field. It matches ErrValidation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// Invalid builds a FieldError.
func Invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// Details returns the field/message pair of err when it carries one.
func Details(err error) map[string]string {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Field != "" {
		return map[string]string{fe.Field: fe.Message}
	}
	return nil
}
