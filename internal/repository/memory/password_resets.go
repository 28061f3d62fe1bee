package memory

import (
	"context"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type passwordResetRepository struct {
	s *Store
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[token.UserID]; !ok {
		return interfaces.ErrNotFound
	}
	for _, t := range r.s.resets {
		if t.TokenHash == token.TokenHash {
			return interfaces.ErrConflict
		}
	}
	r.s.resets[token.ID] = *token
	return nil
}

func (r *passwordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.resets {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *passwordResetRepository) Redeem(ctx context.Context, tokenID, userID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.resets[tokenID]
	if !ok {
		return interfaces.ErrNotFound
	}
	if t.Used {
		return interfaces.ErrTokenAlreadyUsed
	}
	u, ok := r.s.users[userID]
	if !ok {
		return interfaces.ErrNotFound
	}

	t.Used = true
	u.PasswordHash = passwordHash
	r.s.resets[tokenID] = t
	r.s.users[userID] = u
	return nil
}
