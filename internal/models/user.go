package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser builds a user ready to be persisted. The password must already be
// hashed.
func NewUser(name, email, passwordHash string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if blank(name) {
		return nil, invalid("name", "Name is required.")
	}
	if !isValidEmail(email) {
		return nil, invalid("email", "Email is invalid.")
	}
	if blank(passwordHash) {
		return nil, invalid("passwordHash", "Password hash is required.")
	}

	return &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC(),
	}, nil
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}
