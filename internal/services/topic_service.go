package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type TopicService struct {
	topics   interfaces.TopicRepository
	subjects interfaces.SubjectRepository
}

func NewTopicService(topics interfaces.TopicRepository, subjects interfaces.SubjectRepository) *TopicService {
	return &TopicService{topics: topics, subjects: subjects}
}

func (s *TopicService) Create(ctx context.Context, req models.CreateTopicRequest) (*models.Topic, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, badRequest("validation_error", "Name is required.")
	}

	subject, err := s.requireSubject(ctx, req.SubjectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, subject.ID, name, ""); err != nil {
		return nil, err
	}

	topic := &models.Topic{ID: uuid.NewString(), Name: name, SubjectID: subject.ID}
	if err := s.topics.Create(ctx, topic); err != nil {
		switch {
		case errors.Is(err, interfaces.ErrConflict):
			return nil, badRequest("topic_exists", MsgTopicNameTaken)
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, notFound("subject_not_found", MsgSubjectNotFound)
		}
		return nil, oops.In("topics").Code("CREATE_TOPIC_FAILED").With("subject_id", subject.ID).Wrap(err)
	}
	topic.Subject = subject
	return topic, nil
}

func (s *TopicService) List(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, oops.In("topics").Code("LIST_TOPICS_FAILED").Wrap(err)
	}
	return topics, nil
}

func (s *TopicService) Get(ctx context.Context, id string) (*models.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("topic_not_found", MsgTopicNotFound)
		}
		return nil, oops.In("topics").Code("GET_TOPIC_FAILED").With("topic_id", id).Wrap(err)
	}
	return topic, nil
}

// Update renames a topic and/or moves it to another subject. The name must be
// unique within whichever subject the topic ends up in.
func (s *TopicService) Update(ctx context.Context, id string, req models.UpdateTopicRequest) (*models.Topic, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := models.TopicPatch{}
	subjectID := current.SubjectID
	name := current.Name

	if req.SubjectID != nil && *req.SubjectID != current.SubjectID {
		subject, err := s.requireSubject(ctx, *req.SubjectID)
		if err != nil {
			return nil, err
		}
		subjectID = subject.ID
		patch.SubjectID = &subjectID
	}
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, badRequest("validation_error", "Name is required.")
		}
		patch.Name = &name
	}
	if patch.Name == nil && patch.SubjectID == nil {
		return current, nil
	}

	if err := s.checkNameFree(ctx, subjectID, name, id); err != nil {
		return nil, err
	}

	updated, err := s.topics.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrConflict):
			return nil, badRequest("topic_exists", MsgTopicNameTaken)
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, notFound("topic_not_found", MsgTopicNotFound)
		}
		return nil, oops.In("topics").Code("UPDATE_TOPIC_FAILED").With("topic_id", id).Wrap(err)
	}
	return updated, nil
}

func (s *TopicService) Delete(ctx context.Context, id string) (*models.Topic, error) {
	deleted, err := s.topics.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("topic_not_found", MsgTopicNotFound)
		}
		return nil, oops.In("topics").Code("DELETE_TOPIC_FAILED").With("topic_id", id).Wrap(err)
	}
	return deleted, nil
}

func (s *TopicService) requireSubject(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("subject_not_found", MsgSubjectNotFound)
		}
		return nil, oops.In("topics").Code("SUBJECT_LOOKUP_FAILED").With("subject_id", id).Wrap(err)
	}
	return subject, nil
}

func (s *TopicService) checkNameFree(ctx context.Context, subjectID, name, exceptID string) error {
	existing, err := s.topics.GetByName(ctx, subjectID, name)
	switch {
	case err == nil && existing.ID != exceptID:
		return badRequest("topic_exists", MsgTopicNameTaken)
	case err != nil && !errors.Is(err, interfaces.ErrNotFound):
		return oops.In("topics").Code("TOPIC_LOOKUP_FAILED").With("subject_id", subjectID).Wrap(err)
	}
	return nil
}
