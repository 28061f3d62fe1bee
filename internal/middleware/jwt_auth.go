package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"qbank/internal/models"
	"qbank/internal/services"
)

type ctxKey string

const ctxUser ctxKey = "user"

const (
	MsgTokenMissing   = "Token not provided."
	MsgTokenMalformed = "Token malformatted."
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func JWTAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "token_missing", MsgTokenMissing)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				writeUnauthorized(w, "token_malformed", MsgTokenMalformed)
				return
			}

			user, err := authn.Authenticate(r.Context(), parts[1])
			if err != nil {
				if appErr, ok := services.AsAppError(err); ok {
					writeUnauthorized(w, appErr.Code, appErr.Message)
					return
				}
				slog.ErrorContext(r.Context(), "session lookup failed", "error", err)
				writeJSON(w, http.StatusInternalServerError, "internal_error", "Internal server error.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxUser, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxUser).(*models.User)
	return u, ok && u != nil
}

var errNoUser = errors.New("no authenticated user in context")

// RequireUser is UserFromContext for handlers mounted behind JWTAuth.
func RequireUser(ctx context.Context) (*models.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return nil, errNoUser
	}
	return u, nil
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusUnauthorized, code, message)
}

func writeJSON(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code, "message": message})
}
