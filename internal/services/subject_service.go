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

type SubjectService struct {
	subjects interfaces.SubjectRepository
}

func NewSubjectService(subjects interfaces.SubjectRepository) *SubjectService {
	return &SubjectService{subjects: subjects}
}

func (s *SubjectService) Create(ctx context.Context, req models.CreateSubjectRequest) (*models.Subject, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, badRequest("validation_error", "Name is required.")
	}

	_, err := s.subjects.GetByName(ctx, name)
	switch {
	case err == nil:
		return nil, badRequest("subject_exists", MsgSubjectNameTaken)
	case !errors.Is(err, interfaces.ErrNotFound):
		return nil, oops.In("subjects").Code("CREATE_SUBJECT_FAILED").Wrap(err)
	}

	subject := &models.Subject{ID: uuid.NewString(), Name: name}
	if err := s.subjects.Create(ctx, subject); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			return nil, badRequest("subject_exists", MsgSubjectNameTaken)
		}
		return nil, oops.In("subjects").Code("CREATE_SUBJECT_FAILED").Wrap(err)
	}
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, oops.In("subjects").Code("LIST_SUBJECTS_FAILED").Wrap(err)
	}
	return subjects, nil
}

func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, notFound("subject_not_found", MsgSubjectNotFound)
		}
		return nil, oops.In("subjects").Code("GET_SUBJECT_FAILED").With("subject_id", id).Wrap(err)
	}
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id string, req models.UpdateSubjectRequest) (*models.Subject, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == nil {
		return current, nil
	}

	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return nil, badRequest("validation_error", "Name is required.")
	}

	other, err := s.subjects.GetByName(ctx, name)
	switch {
	case err == nil && other.ID != id:
		return nil, badRequest("subject_exists", MsgSubjectNameTaken)
	case err != nil && !errors.Is(err, interfaces.ErrNotFound):
		return nil, oops.In("subjects").Code("UPDATE_SUBJECT_FAILED").With("subject_id", id).Wrap(err)
	}

	updated, err := s.subjects.Update(ctx, id, name)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, notFound("subject_not_found", MsgSubjectNotFound)
		case errors.Is(err, interfaces.ErrConflict):
			return nil, badRequest("subject_exists", MsgSubjectNameTaken)
		}
		return nil, oops.In("subjects").Code("UPDATE_SUBJECT_FAILED").With("subject_id", id).Wrap(err)
	}
	return updated, nil
}

func (s *SubjectService) Delete(ctx context.Context, id string) (*models.Subject, error) {
	deleted, err := s.subjects.Delete(ctx, id)
	if err != nil {
		var blocked *interfaces.DeletionBlockedError
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			return nil, notFound("subject_not_found", MsgSubjectNotFound)
		case errors.As(err, &blocked):
			refs := blocked.Summary()
			if refs == "" {
				refs = "topics or questions"
			}
			return nil, badRequest("subject_in_use", fmt.Sprintf(MsgSubjectInUse, refs))
		}
		return nil, oops.In("subjects").Code("DELETE_SUBJECT_FAILED").With("subject_id", id).Wrap(err)
	}
	return deleted, nil
}
