package routes

import (
	"github.com/go-chi/chi/v5"

	"qbank/internal/handlers"
	"qbank/internal/services"
)

func RegisterSubjectRoutes(router chi.Router, subjectService *services.SubjectService) {
	h := handlers.NewSubjectHandler(subjectService)

	router.Route("/subjects", func(r chi.Router) {
		r.Post("/", h.CreateSubject)
		r.Get("/", h.ListSubjects)
		r.Get("/{id}", h.GetSubject)
		r.Put("/{id}", h.UpdateSubject)
		r.Delete("/{id}", h.DeleteSubject)
	})
}

func RegisterTopicRoutes(router chi.Router, topicService *services.TopicService) {
	h := handlers.NewTopicHandler(topicService)

	router.Route("/topics", func(r chi.Router) {
		r.Post("/", h.CreateTopic)
		r.Get("/", h.ListTopics)
		r.Get("/{id}", h.GetTopic)
		r.Put("/{id}", h.UpdateTopic)
		r.Delete("/{id}", h.DeleteTopic)
	})
}

func RegisterQuestionRoutes(router chi.Router, questionService *services.QuestionService) {
	h := handlers.NewQuestionHandler(questionService)

	router.Route("/questions", func(r chi.Router) {
		r.Post("/", h.CreateQuestion)
		r.Get("/", h.ListQuestions)
		r.Get("/{id}", h.GetQuestion)
		r.Put("/{id}", h.UpdateQuestion)
		r.Delete("/{id}", h.DeleteQuestion)
	})
}
