package memory

import (
	"context"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type topicRepository struct {
	s *Store
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.subjects[topic.SubjectID]; !ok {
		return interfaces.ErrNotFound
	}
	if r.nameTaken(topic.SubjectID, topic.Name, "") {
		return interfaces.ErrConflict
	}
	now := r.s.ts()
	topic.CreatedAt, topic.UpdatedAt = now, now
	stored := *topic
	stored.Subject = nil
	r.s.topics[topic.ID] = stored
	topic.Subject = r.subjectOf(stored)
	return nil
}

func (r *topicRepository) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.topics[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	t.Subject = r.subjectOf(t)
	return &t, nil
}

func (r *topicRepository) GetByName(ctx context.Context, subjectID, name string) (*models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.topics {
		if t.SubjectID == subjectID && t.Name == name {
			t.Subject = r.subjectOf(t)
			return &t, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *topicRepository) List(ctx context.Context) ([]models.Topic, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Topic, 0, len(r.s.topics))
	for _, t := range r.s.topics {
		t.Subject = r.subjectOf(t)
		out = append(out, t)
	}
	sortBy(out, func(a, b models.Topic) bool { return a.Name < b.Name })
	return out, nil
}

func (r *topicRepository) Update(ctx context.Context, id string, patch models.TopicPatch) (*models.Topic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.topics[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if patch.SubjectID != nil {
		if _, ok := r.s.subjects[*patch.SubjectID]; !ok {
			return nil, interfaces.ErrNotFound
		}
		t.SubjectID = *patch.SubjectID
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if r.nameTaken(t.SubjectID, t.Name, id) {
		return nil, interfaces.ErrConflict
	}
	t.UpdatedAt = r.s.ts()
	r.s.topics[id] = t
	t.Subject = r.subjectOf(t)
	return &t, nil
}

func (r *topicRepository) Delete(ctx context.Context, id string) (*models.Topic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.topics[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	for qid, q := range r.s.questions {
		q.TopicIDs = without(q.TopicIDs, id)
		r.s.questions[qid] = q
	}
	delete(r.s.topics, id)
	t.Subject = r.subjectOf(t)
	return &t, nil
}

func (r *topicRepository) nameTaken(subjectID, name, exceptID string) bool {
	for id, t := range r.s.topics {
		if id != exceptID && t.SubjectID == subjectID && t.Name == name {
			return true
		}
	}
	return false
}

func (r *topicRepository) subjectOf(t models.Topic) *models.Subject {
	sub, ok := r.s.subjects[t.SubjectID]
	if !ok {
		return nil
	}
	return &sub
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
