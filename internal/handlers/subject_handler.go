package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"qbank/internal/models"
	"qbank/internal/services"
)

type SubjectHandler struct {
	subjects *services.SubjectService
	v        *validator.Validate
}

func NewSubjectHandler(subjects *services.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects, v: newValidator()}
}

// @Tags Subjects
// @Summary Create subject
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateSubjectRequest true "Subject"
// @Success 201 {object} models.Subject
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/subjects [post]
func (h *SubjectHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubjectRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	s, err := h.subjects.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// @Tags Subjects
// @Summary List subjects
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Subject
// @Failure 401 {object} map[string]interface{}
// @Router /api/subjects [get]
func (h *SubjectHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.subjects.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Subject{}
	}
	writeJSON(w, http.StatusOK, list)
}

// @Tags Subjects
// @Summary Get subject
// @Security BearerAuth
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} models.Subject
// @Failure 404 {object} map[string]interface{}
// @Router /api/subjects/{id} [get]
func (h *SubjectHandler) GetSubject(w http.ResponseWriter, r *http.Request) {
	s, err := h.subjects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// @Tags Subjects
// @Summary Rename subject
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param body body models.UpdateSubjectRequest true "Changes"
// @Success 200 {object} models.Subject
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/subjects/{id} [put]
func (h *SubjectHandler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSubjectRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	s, err := h.subjects.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// @Tags Subjects
// @Summary Delete subject
// @Description Refused while topics or questions still reference the subject.
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/subjects/{id} [delete]
func (h *SubjectHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	if _, err := h.subjects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
