package interfaces

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrTokenAlreadyUsed is returned when a reset token was redeemed concurrently.
	ErrTokenAlreadyUsed = errors.New("reset token already used")
)
