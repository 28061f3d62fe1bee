package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"qbank/internal/middleware"
	"qbank/internal/models"
	"qbank/internal/services"
)

type UserHandler struct {
	users *services.UserService
	v     *validator.Validate
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users, v: newValidator()}
}

// @Tags Users
// @Summary Register a user
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	u, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// @Tags Users
// @Summary List users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.User
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// @Tags Users
// @Summary Get user
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// @Tags Users
// @Summary Update own profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body models.UpdateUserRequest true "Profile changes"
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.RequireUser(r.Context())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "unauthorized", services.MsgUserNotFound)
		return
	}

	var req models.UpdateUserRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	u, err := h.users.Edit(r.Context(), actor.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
