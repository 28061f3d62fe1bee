package models

import (
	"time"

	"github.com/google/uuid"
)

type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// NewPasswordResetToken creates an unused token owned by userID. Only the hash
// of the secret is ever stored.
func NewPasswordResetToken(userID, tokenHash string, expiresAt, now time.Time) (*PasswordResetToken, error) {
	if blank(userID) {
		return nil, invalid("userId", "User ID is required.")
	}
	if blank(tokenHash) {
		return nil, invalid("tokenHash", "Token hash is required.")
	}
	if !expiresAt.After(now) {
		return nil, invalid("expiresAt", "Token expiration must be in the future.")
	}

	return &PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: now.UTC(),
	}, nil
}

func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// RequestPasswordResetRequest is accepted as-is: a missing or unknown email
// gets the same answer as a registered one.
type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	UserID      string `json:"userId"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
