package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is returned by entity constructors when an invariant of the
// entity itself is violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func isValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
