package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"qbank/internal/models"
	"qbank/internal/services"
)

type PasswordHandler struct {
	resets *services.PasswordResetService
}

func NewPasswordHandler(resets *services.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// @Tags Password
// @Summary Request a password reset link
// @Description Always answers with the same message whether or not the email is registered.
// @Accept json
// @Produce json
// @Param body body models.RequestPasswordResetRequest true "Account email"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Malformed JSON body"
// @Failure 500 {object} map[string]interface{}
// @Router /api/password/request [post]
func (h *PasswordHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req models.RequestPasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.resets.RequestReset(r.Context(), strings.TrimSpace(req.Email)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONMessage(w, http.StatusOK, services.MsgResetRequested)
}

// @Tags Password
// @Summary Reset password with a token
// @Accept json
// @Produce json
// @Param body body models.ResetPasswordRequest true "Reset payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/password/reset [post]
func (h *PasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", services.MsgResetFieldsRequired)
		return
	}

	if err := h.resets.ResetPassword(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONMessage(w, http.StatusOK, services.MsgResetDone)
}
