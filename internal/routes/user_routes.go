package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"qbank/internal/handlers"
	"qbank/internal/services"
)

func RegisterUserRoutes(router chi.Router, userService *services.UserService, requireAuth func(http.Handler) http.Handler) {
	userHandler := handlers.NewUserHandler(userService)

	router.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", userHandler.ListUsers)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
		})
	})
}
