package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"qbank/internal/middleware"
	"qbank/internal/models"
	"qbank/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
	v    *validator.Validate
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth, v: newValidator()}
}

// @Tags Auth
// @Summary Log in
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/auth [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

// @Tags Auth
// @Summary Validate session
// @Description Returns the user the bearer token belongs to.
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{}
// @Router /api/sessions/validate [get]
func (h *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	u, err := middleware.RequireUser(r.Context())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", services.MsgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
