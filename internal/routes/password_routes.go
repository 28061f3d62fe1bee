package routes

import (
	"github.com/go-chi/chi/v5"

	"qbank/internal/handlers"
	"qbank/internal/services"
)

func RegisterPasswordRoutes(router chi.Router, resetService *services.PasswordResetService) {
	passwordHandler := handlers.NewPasswordHandler(resetService)

	router.Route("/password", func(r chi.Router) {
		r.Post("/request", passwordHandler.RequestReset)
		r.Post("/reset", passwordHandler.ResetPassword)
	})
}
