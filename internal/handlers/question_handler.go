package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"qbank/internal/models"
	"qbank/internal/services"
)

type QuestionHandler struct {
	questions *services.QuestionService
	v         *validator.Validate
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions, v: newValidator()}
}

// @Tags Questions
// @Summary Create question
// @Description Exactly one alternative must be marked correct.
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateQuestionRequest true "Question with alternatives"
// @Success 201 {object} models.Question
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/questions [post]
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	q, err := h.questions.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// @Tags Questions
// @Summary List questions
// @Security BearerAuth
// @Produce json
// @Param subjectId query string false "Only questions of this subject"
// @Param topicId query string false "Only questions linked to this topic"
// @Success 200 {array} models.Question
// @Router /api/questions [get]
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	filter := models.QuestionFilter{
		SubjectID: r.URL.Query().Get("subjectId"),
		TopicID:   r.URL.Query().Get("topicId"),
	}

	list, err := h.questions.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Question{}
	}
	writeJSON(w, http.StatusOK, list)
}

// @Tags Questions
// @Summary Get question
// @Security BearerAuth
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} map[string]interface{}
// @Router /api/questions/{id} [get]
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.questions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// @Tags Questions
// @Summary Update question
// @Description When alternatives are sent they replace the stored set.
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param body body models.UpdateQuestionRequest true "Changes"
// @Success 200 {object} models.Question
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateQuestionRequest
	if !decodeAndValidate(w, r, h.v, &req) {
		return
	}

	q, err := h.questions.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// @Tags Questions
// @Summary Delete question
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if _, err := h.questions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
