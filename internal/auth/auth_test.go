package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher()

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	ok, err := h.Compare("password123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Compare("password123", "not-a-bcrypt-hash")
	require.Error(t, err)

	_, err = h.Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestSHA256TokenHasher(t *testing.T) {
	h := NewSHA256TokenHasher()

	token, hash, err := h.Generate()
	require.NoError(t, err)
	assert.Len(t, token, ResetTokenBytes*2)
	assert.Equal(t, hash, h.Hash(token))
	assert.True(t, h.Compare(token, hash))
	assert.False(t, h.Compare(token+"x", hash))
	assert.False(t, h.Compare("", hash))

	other, _, err := h.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestJWTGeneratorRoundTrip(t *testing.T) {
	g := NewJWTGenerator("secret", time.Hour)

	token, err := g.Generate("user-1", "a@b.com")
	require.NoError(t, err)

	sub, err := g.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestJWTGeneratorRejects(t *testing.T) {
	g := NewJWTGenerator("secret", time.Hour)
	token, err := g.Generate("user-1", "a@b.com")
	require.NoError(t, err)

	other := NewJWTGenerator("other-secret", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTGenerator("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Generate("user-1", "a@b.com")
	require.NoError(t, err)
	_, err = g.Verify(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = g.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = g.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
