package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// ErrInvalidToken covers bad signatures, expired tokens and missing subjects.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenGenerator issues and verifies bearer tokens.
type TokenGenerator interface {
	Generate(userID, email string) (string, error)
	// Verify returns the user id carried by a valid token.
	Verify(token string) (string, error)
}

type JWTGenerator struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewJWTGenerator(secret string, expiresIn time.Duration) *JWTGenerator {
	return &JWTGenerator{secret: []byte(secret), expiresIn: expiresIn, now: time.Now}
}

func (g *JWTGenerator) Generate(userID, email string) (string, error) {
	now := g.now().UTC()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(g.expiresIn).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("user_id", userID).Wrap(err)
	}
	return signed, nil
}

func (g *JWTGenerator) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || token == nil || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
