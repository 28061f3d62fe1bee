package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"qbank/internal/models"
	"qbank/internal/services"
)

type TopicHandler struct {
	topics *services.TopicService
	v      *validator.Validate
}

func NewTopicHandler(topics *services.TopicService) *TopicHandler {
	return &TopicHandler{topics: topics, v: newValidator()}
}

// @Tags Topics
// @Summary Create topic
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateTopicRequest true "Topic"
// @Success 201 {object} models.Topic
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/topics [post]
func (h *TopicHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTopicRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	t, err := h.topics.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// @Tags Topics
// @Summary List topics
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Topic
// @Router /api/topics [get]
func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	list, err := h.topics.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Topic{}
	}
	writeJSON(w, http.StatusOK, list)
}

// @Tags Topics
// @Summary Get topic
// @Security BearerAuth
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} models.Topic
// @Failure 404 {object} map[string]interface{}
// @Router /api/topics/{id} [get]
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	t, err := h.topics.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// @Tags Topics
// @Summary Update topic
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param body body models.UpdateTopicRequest true "Changes"
// @Success 200 {object} models.Topic
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/topics/{id} [put]
func (h *TopicHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTopicRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	t, err := h.topics.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// @Tags Topics
// @Summary Delete topic
// @Security BearerAuth
// @Param id path string true "Topic ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/topics/{id} [delete]
func (h *TopicHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if _, err := h.topics.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
