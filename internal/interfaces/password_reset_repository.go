package interfaces

import (
	"context"

	"qbank/internal/models"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	// GetByTokenHash returns the token regardless of its used/expired state.
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	// Redeem marks the token used and stores the user's new password hash as
	// one atomic unit. It fails with ErrTokenAlreadyUsed if the token was
	// consumed in the meantime.
	Redeem(ctx context.Context, tokenID, userID, passwordHash string) error
}
