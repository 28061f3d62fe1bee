package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qbank/internal/db"
	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(conn *sql.DB) interfaces.PasswordResetRepository {
	return &passwordResetRepository{db: conn}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.Used, token.CreatedAt).Scan(&token.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return interfaces.ErrConflict
		case isForeignKeyViolation(err):
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token_hash = $1
	`

	var t models.PasswordResetToken
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &t, nil
}

func (r *passwordResetRepository) Redeem(ctx context.Context, tokenID, userID, passwordHash string) error {
	return db.WithTx(ctx, r.db, nil, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE password_reset_tokens SET used = TRUE WHERE id = $1 AND user_id = $2 AND used = FALSE`,
			tokenID, userID)
		if err != nil {
			return fmt.Errorf("failed to mark reset token used: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to mark reset token used: %w", err)
		}
		if n == 0 {
			return interfaces.ErrTokenAlreadyUsed
		}

		res, err = tx.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if n == 0 {
			return interfaces.ErrNotFound
		}
		return nil
	})
}
