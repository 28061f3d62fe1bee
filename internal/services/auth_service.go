package services

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"qbank/internal/auth"
	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type AuthService struct {
	users  interfaces.UserRepository
	hasher auth.PasswordHasher
	tokens auth.TokenGenerator
}

func NewAuthService(users interfaces.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenGenerator) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Login exchanges credentials for a bearer token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return "", badRequest("invalid_credentials", MsgInvalidCredentials)
		}
		return "", oops.In("auth").Code("LOGIN_FAILED").Wrap(err)
	}

	ok, err := s.hasher.Compare(password, u.PasswordHash)
	if err != nil {
		return "", oops.In("auth").Code("LOGIN_FAILED").With("user_id", u.ID).Wrap(err)
	}
	if !ok {
		return "", badRequest("invalid_credentials", MsgInvalidCredentials)
	}

	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return "", oops.In("auth").Code("LOGIN_FAILED").With("user_id", u.ID).Wrap(err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, unauthorized("invalid_token", MsgTokenInvalid)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, unauthorized("user_not_found", MsgUserNotFound)
		}
		return nil, oops.In("auth").Code("SESSION_LOOKUP_FAILED").With("user_id", userID).Wrap(err)
	}
	return u, nil
}
