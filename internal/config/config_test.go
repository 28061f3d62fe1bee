package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PSQL_HOST", "db")
	t.Setenv("FRONTEND_URL", "http://app.local/")

	cfg := Load()

	assert.Equal(t, "postgres://postgres:postgres@db:5432/qbank?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 20*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, "http://app.local", cfg.FrontendURL)
}

func TestLoadDurationsAndTLS(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "3600")
	t.Setenv("RESET_TOKEN_TTL", "5m")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.local, http://b.local")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 5*time.Minute, cfg.ResetTokenTTL)
	assert.True(t, cfg.SMTPUseTLS)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Environment:   "development",
		JWTExpiresIn:  time.Hour,
		ResetTokenTTL: time.Minute,
		MailDriver:    MailDriverFake,
		StorageDriver: StorageDriverMemory,
	}
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.JWTSecret)

	prod := *cfg
	prod.Environment = "production"
	prod.JWTSecret = ""
	require.Error(t, prod.Validate())

	bad := *cfg
	bad.MailDriver = "carrier-pigeon"
	require.Error(t, bad.Validate())
}
