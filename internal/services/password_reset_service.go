package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"time"

	"github.com/samber/oops"

	"qbank/internal/auth"
	"qbank/internal/interfaces"
	"qbank/internal/models"
)

// DefaultResetTokenTTL is how long a reset link stays valid.
const DefaultResetTokenTTL = 20 * time.Minute

type PasswordResetService struct {
	users       interfaces.UserRepository
	resets      interfaces.PasswordResetRepository
	tokens      auth.TokenHasher
	passwords   auth.PasswordHasher
	mailer      EmailSender
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

type PasswordResetConfig struct {
	FrontendURL string
	TTL         time.Duration
	Logger      *slog.Logger
}

func NewPasswordResetService(
	users interfaces.UserRepository,
	resets interfaces.PasswordResetRepository,
	tokens auth.TokenHasher,
	passwords auth.PasswordHasher,
	mailer EmailSender,
	cfg PasswordResetConfig,
) *PasswordResetService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordResetService{
		users:       users,
		resets:      resets,
		tokens:      tokens,
		passwords:   passwords,
		mailer:      mailer,
		frontendURL: cfg.FrontendURL,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// RequestReset issues a reset token for email and mails the link. An unknown
// email is not an error and produces no token and no mail.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email", "email", email)
			return nil
		}
		return oops.In("password_reset").Code("RESET_REQUEST_FAILED").Wrap(err)
	}

	secret, hash, err := s.tokens.Generate()
	if err != nil {
		return oops.In("password_reset").Code("RESET_REQUEST_FAILED").With("user_id", u.ID).Wrap(err)
	}

	now := s.now()
	token, err := models.NewPasswordResetToken(u.ID, hash, now.Add(s.ttl), now)
	if err != nil {
		return oops.In("password_reset").Code("RESET_REQUEST_FAILED").With("user_id", u.ID).Wrap(err)
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return oops.In("password_reset").Code("RESET_REQUEST_FAILED").With("user_id", u.ID).Wrap(err)
	}

	link := s.resetLink(u.ID, secret)
	if err := s.mailer.Send(ctx, resetEmail(u, link, s.ttl)); err != nil {
		return oops.In("password_reset").Code("RESET_MAIL_FAILED").With("user_id", u.ID).Wrap(err)
	}

	s.logger.InfoContext(ctx, "password reset token issued", "user_id", u.ID, "expires_at", token.ExpiresAt)
	return nil
}

// ResetPassword redeems a reset token and replaces the owner's password.
func (s *PasswordResetService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if req.UserID == "" || req.Token == "" || req.NewPassword == "" {
		return badRequest("validation_error", MsgResetFieldsRequired)
	}

	token, err := s.resets.GetByTokenHash(ctx, s.tokens.Hash(req.Token))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return badRequest("invalid_token", MsgResetTokenInvalid)
		}
		return oops.In("password_reset").Code("RESET_FAILED").Wrap(err)
	}
	if token.UserID != req.UserID || !s.tokens.Compare(req.Token, token.TokenHash) {
		return badRequest("invalid_token", MsgResetTokenInvalid)
	}
	if token.Used {
		return badRequest("token_used", MsgResetTokenUsed)
	}
	if token.IsExpired(s.now()) {
		return badRequest("token_expired", MsgResetTokenExpired)
	}

	hash, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		return oops.In("password_reset").Code("RESET_FAILED").With("user_id", token.UserID).Wrap(err)
	}

	if err := s.resets.Redeem(ctx, token.ID, token.UserID, hash); err != nil {
		switch {
		case errors.Is(err, interfaces.ErrTokenAlreadyUsed):
			return badRequest("token_used", MsgResetTokenUsed)
		case errors.Is(err, interfaces.ErrNotFound):
			return badRequest("invalid_token", MsgResetTokenInvalid)
		}
		return oops.In("password_reset").Code("RESET_FAILED").With("user_id", token.UserID).Wrap(err)
	}

	s.logger.InfoContext(ctx, "password reset completed", "user_id", token.UserID)
	return nil
}

func (s *PasswordResetService) resetLink(userID, secret string) string {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("token", secret)
	return s.frontendURL + "/reset-password?" + q.Encode()
}

func resetEmail(u *models.User, link string, ttl time.Duration) Email {
	minutes := int(ttl.Minutes())
	text := fmt.Sprintf(
		"Hello %s,\n\nWe received a request to reset your password. Open the link below to choose a new one:\n\n%s\n\nThe link expires in %d minutes. If you did not request a reset, ignore this email.\n",
		u.Name, link, minutes)
	body := fmt.Sprintf(
		`<p>Hello %s,</p><p>We received a request to reset your password.</p><p><a href="%s">Reset my password</a></p><p>The link expires in %d minutes. If you did not request a reset, ignore this email.</p>`,
		html.EscapeString(u.Name), html.EscapeString(link), minutes)

	return Email{
		To:      u.Email,
		Subject: "Password reset",
		Text:    text,
		HTML:    body,
	}
}
