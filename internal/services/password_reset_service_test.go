package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/auth"
	"qbank/internal/interfaces"
	"qbank/internal/models"
	"qbank/internal/repository/memory"
)

type resetFixture struct {
	store  *memory.Store
	mailer *FakeEmailSender
	svc    *PasswordResetService
	user   *models.User
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	store := newTestStore()
	mailer := NewFakeEmailSender()
	users := NewUserService(store.Users(), plainHasher{})

	u, err := users.Register(context.Background(), models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "old-password"})
	require.NoError(t, err)

	svc := NewPasswordResetService(store.Users(), store.PasswordResets(), auth.NewSHA256TokenHasher(), plainHasher{}, mailer,
		PasswordResetConfig{FrontendURL: "http://front.local"})
	return &resetFixture{store: store, mailer: mailer, svc: svc, user: u}
}

// secretFromMail pulls the clear token out of the reset link in the last mail.
func (f *resetFixture) secretFromMail(t *testing.T) string {
	t.Helper()
	msg, ok := f.mailer.Last()
	require.True(t, ok)
	for _, field := range strings.Fields(msg.Text) {
		if strings.HasPrefix(field, "http://front.local/reset-password?") {
			u, err := url.Parse(field)
			require.NoError(t, err)
			assert.Equal(t, f.user.ID, u.Query().Get("userId"))
			return u.Query().Get("token")
		}
	}
	t.Fatalf("no reset link in %q", msg.Text)
	return ""
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	f := newResetFixture(t)

	require.NoError(t, f.svc.RequestReset(context.Background(), "nobody@example.com"))
	require.NoError(t, f.svc.RequestReset(context.Background(), "nobody@example.com"))

	assert.Empty(t, f.mailer.Sent())
	assert.Empty(t, f.store.ResetTokensFor(f.user.ID))
}

func TestRequestResetIssuesTokenAndMail(t *testing.T) {
	f := newResetFixture(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	require.NoError(t, f.svc.RequestReset(context.Background(), "ada@example.com"))

	tokens := f.store.ResetTokensFor(f.user.ID)
	require.Len(t, tokens, 1)
	assert.False(t, tokens[0].Used)
	assert.Equal(t, now.Add(20*time.Minute), tokens[0].ExpiresAt)

	msg, _ := f.mailer.Last()
	assert.Equal(t, "ada@example.com", msg.To)
	assert.NotEmpty(t, msg.HTML)

	secret := f.secretFromMail(t)
	assert.NotEqual(t, secret, tokens[0].TokenHash)
	assert.True(t, auth.NewSHA256TokenHasher().Compare(secret, tokens[0].TokenHash))
}

func TestResetPasswordLifecycle(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "ada@example.com"))
	secret := f.secretFromMail(t)

	req := models.ResetPasswordRequest{UserID: f.user.ID, Token: secret, NewPassword: "new-password"}
	require.NoError(t, f.svc.ResetPassword(ctx, req))

	u, err := f.store.Users().GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:new-password", u.PasswordHash)
	assert.True(t, f.store.ResetTokensFor(f.user.ID)[0].Used)

	err = f.svc.ResetPassword(ctx, req)
	requireAppError(t, err, http.StatusBadRequest, MsgResetTokenUsed)
}

func TestResetPasswordRejections(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "ada@example.com"))
	secret := f.secretFromMail(t)

	err := f.svc.ResetPassword(ctx, models.ResetPasswordRequest{UserID: f.user.ID, Token: secret})
	requireAppError(t, err, http.StatusBadRequest, MsgResetFieldsRequired)

	err = f.svc.ResetPassword(ctx, models.ResetPasswordRequest{UserID: f.user.ID, Token: "not-the-secret", NewPassword: "x"})
	requireAppError(t, err, http.StatusBadRequest, MsgResetTokenInvalid)

	// a valid secret presented for another user looks exactly like a bad secret
	err = f.svc.ResetPassword(ctx, models.ResetPasswordRequest{UserID: "someone-else", Token: secret, NewPassword: "x"})
	requireAppError(t, err, http.StatusBadRequest, MsgResetTokenInvalid)

	f.svc.now = func() time.Time { return time.Now().Add(21 * time.Minute) }
	err = f.svc.ResetPassword(ctx, models.ResetPasswordRequest{UserID: f.user.ID, Token: secret, NewPassword: "x"})
	requireAppError(t, err, http.StatusBadRequest, MsgResetTokenExpired)

	u, err := f.store.Users().GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:old-password", u.PasswordHash)
	assert.False(t, f.store.ResetTokensFor(f.user.ID)[0].Used)
}

func TestRequestResetAlwaysCreatesFreshToken(t *testing.T) {
	f := newResetFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReset(ctx, "ada@example.com"))
	first := f.secretFromMail(t)
	require.NoError(t, f.svc.RequestReset(ctx, "ada@example.com"))
	second := f.secretFromMail(t)

	assert.NotEqual(t, first, second)
	assert.Len(t, f.store.ResetTokensFor(f.user.ID), 2)

	// the older token stays redeemable until it expires
	require.NoError(t, f.svc.ResetPassword(ctx, models.ResetPasswordRequest{UserID: f.user.ID, Token: first, NewPassword: "pw"}))
}

// looseResets answers every hash lookup with the one stored token, the way a
// lookup that ignores the digest would.
type looseResets struct {
	interfaces.PasswordResetRepository
	token models.PasswordResetToken
}

func (l looseResets) GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	t := l.token
	return &t, nil
}

func TestResetPasswordRechecksTokenDigest(t *testing.T) {
	f := newResetFixture(t)
	require.NoError(t, f.svc.RequestReset(context.Background(), "ada@example.com"))
	tokens := f.store.ResetTokensFor(f.user.ID)
	require.Len(t, tokens, 1)

	f.svc.resets = looseResets{PasswordResetRepository: f.store.PasswordResets(), token: tokens[0]}

	err := f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		UserID:      f.user.ID,
		Token:       "not-the-issued-secret",
		NewPassword: "new-password",
	})
	requireAppError(t, err, http.StatusBadRequest, MsgResetTokenInvalid)
	assert.False(t, f.store.ResetTokensFor(f.user.ID)[0].Used)

	require.NoError(t, f.svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		UserID:      f.user.ID,
		Token:       f.secretFromMail(t),
		NewPassword: "new-password",
	}))
}
