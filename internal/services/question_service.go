package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type QuestionService struct {
	questions interfaces.QuestionRepository
	subjects  interfaces.SubjectRepository
	topics    interfaces.TopicRepository
}

func NewQuestionService(questions interfaces.QuestionRepository, subjects interfaces.SubjectRepository, topics interfaces.TopicRepository) *QuestionService {
	return &QuestionService{questions: questions, subjects: subjects, topics: topics}
}

// validateAlternatives enforces that a question has alternatives and that
// exactly one of them is correct.
func validateAlternatives(alts []models.AlternativeInput) error {
	if len(alts) == 0 {
		return badRequest("invalid_alternatives", MsgAlternativesRequired)
	}
	correct := 0
	for _, a := range alts {
		if strings.TrimSpace(a.Text) == "" {
			return badRequest("invalid_alternatives", "Alternative text is required.")
		}
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return badRequest("invalid_alternatives", MsgExactlyOneCorrect)
	}
	return nil
}

func (s *QuestionService) Create(ctx context.Context, req models.CreateQuestionRequest) (*models.Question, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, badRequest("validation_error", "Text is required.")
	}
	if err := validateAlternatives(req.Alternatives); err != nil {
		return nil, err
	}
	if err := s.requireSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}
	if err := s.requireTopics(ctx, req.TopicIDs); err != nil {
		return nil, err
	}

	q, err := s.questions.Create(ctx, models.NewQuestion{
		ID:           uuid.NewString(),
		Text:         text,
		SubjectID:    req.SubjectID,
		TopicIDs:     req.TopicIDs,
		Alternatives: req.Alternatives,
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("reference_not_found", "Subject or topic no longer exists.")
		}
		return nil, oops.In("questions").Code("CREATE_QUESTION_FAILED").With("subject_id", req.SubjectID).Wrap(err)
	}
	return q, nil
}

func (s *QuestionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	qs, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, oops.In("questions").Code("LIST_QUESTIONS_FAILED").Wrap(err)
	}
	return qs, nil
}

func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("question_not_found", MsgQuestionNotFound)
		}
		return nil, oops.In("questions").Code("GET_QUESTION_FAILED").With("question_id", id).Wrap(err)
	}
	return q, nil
}

// Update applies a partial update. Alternatives are validated only when the
// payload carries them, and then replace the stored set entirely.
func (s *QuestionService) Update(ctx context.Context, id string, req models.UpdateQuestionRequest) (*models.Question, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	patch := models.QuestionPatch{
		SubjectID:    req.SubjectID,
		TopicIDs:     req.TopicIDs,
		Alternatives: req.Alternatives,
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, badRequest("validation_error", "Text is required.")
		}
		patch.Text = &text
	}
	if req.Alternatives != nil {
		if err := validateAlternatives(req.Alternatives); err != nil {
			return nil, err
		}
	}
	if req.SubjectID != nil {
		if err := s.requireSubject(ctx, *req.SubjectID); err != nil {
			return nil, err
		}
	}
	if req.TopicIDs != nil {
		if err := s.requireTopics(ctx, req.TopicIDs); err != nil {
			return nil, err
		}
	}

	q, err := s.questions.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("question_not_found", MsgQuestionNotFound)
		}
		return nil, oops.In("questions").Code("UPDATE_QUESTION_FAILED").With("question_id", id).Wrap(err)
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id string) (*models.Question, error) {
	q, err := s.questions.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("question_not_found", MsgQuestionNotFound)
		}
		return nil, oops.In("questions").Code("DELETE_QUESTION_FAILED").With("question_id", id).Wrap(err)
	}
	return q, nil
}

func (s *QuestionService) requireSubject(ctx context.Context, id string) error {
	if _, err := s.subjects.GetByID(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return notFound("subject_not_found", MsgSubjectNotFound)
		}
		return oops.In("questions").Code("SUBJECT_LOOKUP_FAILED").With("subject_id", id).Wrap(err)
	}
	return nil
}

func (s *QuestionService) requireTopics(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.topics.GetByID(ctx, id); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return notFound("topic_not_found", fmt.Sprintf("Topic with ID %s not found.", id))
			}
			return oops.In("questions").Code("TOPIC_LOOKUP_FAILED").With("topic_id", id).Wrap(err)
		}
	}
	return nil
}
