package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/samber/oops"
)

// ResetTokenBytes is the entropy of a reset secret (64 hex chars).
const ResetTokenBytes = 32

// TokenHasher produces reset secrets and the digests stored in their place.
type TokenHasher interface {
	// Generate returns a fresh clear secret and its digest.
	Generate() (token, hash string, err error)
	Hash(token string) string
	// Compare checks token against a stored digest in constant time.
	Compare(token, hash string) bool
}

type SHA256TokenHasher struct{}

func NewSHA256TokenHasher() *SHA256TokenHasher {
	return &SHA256TokenHasher{}
}

func (SHA256TokenHasher) Generate() (string, string, error) {
	b := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", oops.Code("RESET_TOKEN_GENERATE_FAILED").Wrap(err)
	}
	token := hex.EncodeToString(b)
	return token, hashToken(token), nil
}

func (SHA256TokenHasher) Hash(token string) string {
	return hashToken(token)
}

func (SHA256TokenHasher) Compare(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hashToken(token)), []byte(hash)) == 1
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
