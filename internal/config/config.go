// internal/config/config.go
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	MailDriverSMTP = "smtp"
	MailDriverFake = "fake"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string

	JWTSecret    string
	JWTExpiresIn time.Duration

	FrontendURL   string
	ResetTokenTTL time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseTLS   bool

	MailDriver     string
	StorageDriver  string
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		host := getEnv("PSQL_HOST", "localhost")
		port := getEnv("PSQL_PORT", "5432")
		user := getEnv("PSQL_USER", "postgres")
		password := getEnv("PSQL_PASSWORD", "postgres")
		dbName := getEnv("PSQL_DB_NAME", "qbank")

		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(user, password),
			Host:   host + ":" + port,
			Path:   dbName,
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		databaseURL = u.String()
	}

	smtpPort := getEnv("SMTP_PORT", "587")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: databaseURL,

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getDuration("JWT_EXPIRES_IN", time.Hour),

		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:4200"), "/"),
		ResetTokenTTL: getDuration("RESET_TOKEN_TTL", 20*time.Minute),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     smtpPort,
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASS", ""),
		SMTPFrom:     getEnv("EMAIL_FROM", "no-reply@qbank.local"),
		SMTPUseTLS:   getBool("SMTP_USE_TLS", smtpPort == "465"),

		MailDriver:     getEnv("MAIL_DRIVER", MailDriverSMTP),
		StorageDriver:  getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	errs := oops.In("config").Code("CONFIG_INVALID")
	if c.JWTSecret == "" {
		if c.Environment != "development" {
			return errs.Errorf("JWT_SECRET is required outside development")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.JWTExpiresIn <= 0 {
		return errs.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.ResetTokenTTL <= 0 {
		return errs.Errorf("RESET_TOKEN_TTL must be positive")
	}
	switch c.MailDriver {
	case MailDriverSMTP, MailDriverFake:
	default:
		return errs.With("mail_driver", c.MailDriver).Errorf("unknown MAIL_DRIVER")
	}
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return errs.With("storage_driver", c.StorageDriver).Errorf("unknown STORAGE_DRIVER")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// bare numbers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
