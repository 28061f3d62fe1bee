// internal/handlers/base.go
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler reports process and database liveness. DB is nil when the
// server runs on in-memory storage.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

type dbStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string   `json:"status"`
	DB     dbStatus `json:"db"`
}

// @Tags Health
// @Summary Health check
// @Produce json
// @Success 200 {object} handlers.healthResponse
// @Failure 503 {object} handlers.healthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: dbStatus{Status: "memory"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status: "degraded",
			DB:     dbStatus{Status: "down", Error: err.Error()},
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: dbStatus{Status: "ok"}})
}
