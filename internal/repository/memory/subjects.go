package memory

import (
	"context"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type subjectRepository struct {
	s *Store
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(subject.Name, "") {
		return interfaces.ErrConflict
	}
	now := r.s.ts()
	subject.CreatedAt, subject.UpdatedAt = now, now
	r.s.subjects[subject.ID] = *subject
	return nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.subjects[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &sub, nil
}

func (r *subjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sub := range r.s.subjects {
		if sub.Name == name {
			return &sub, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Subject, 0, len(r.s.subjects))
	for _, sub := range r.s.subjects {
		out = append(out, sub)
	}
	sortBy(out, func(a, b models.Subject) bool { return a.Name < b.Name })
	return out, nil
}

func (r *subjectRepository) Update(ctx context.Context, id string, name string) (*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub, ok := r.s.subjects[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if r.nameTaken(name, id) {
		return nil, interfaces.ErrConflict
	}
	sub.Name = name
	sub.UpdatedAt = r.s.ts()
	r.s.subjects[id] = sub
	return &sub, nil
}

func (r *subjectRepository) Delete(ctx context.Context, id string) (*models.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub, ok := r.s.subjects[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}

	refs := map[string]int64{}
	for _, t := range r.s.topics {
		if t.SubjectID == id {
			refs["topics"]++
		}
	}
	for _, q := range r.s.questions {
		if q.SubjectID == id {
			refs["questions"]++
		}
	}
	if len(refs) > 0 {
		return nil, &interfaces.DeletionBlockedError{Resource: "subject", References: refs}
	}

	delete(r.s.subjects, id)
	return &sub, nil
}

func (r *subjectRepository) nameTaken(name, exceptID string) bool {
	for id, sub := range r.s.subjects {
		if id != exceptID && sub.Name == name {
			return true
		}
	}
	return false
}
