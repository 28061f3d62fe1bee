package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"qbank/internal/handlers"
	"qbank/internal/services"
)

func RegisterAuthRoutes(router chi.Router, authService *services.AuthService, requireAuth func(http.Handler) http.Handler) {
	authHandler := handlers.NewAuthHandler(authService)

	router.Post("/auth", authHandler.Login)
	router.With(requireAuth).Get("/sessions/validate", authHandler.ValidateSession)
}
