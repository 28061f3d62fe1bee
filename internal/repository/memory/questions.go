package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type questionRepository struct {
	s *Store
}

func (r *questionRepository) Create(ctx context.Context, q models.NewQuestion) (*models.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(&q.SubjectID, q.TopicIDs); err != nil {
		return nil, err
	}

	id := q.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := r.s.ts()
	r.s.questions[id] = questionRow{
		ID:        id,
		Text:      q.Text,
		SubjectID: q.SubjectID,
		TopicIDs:  dedupe(q.TopicIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.alternatives[id] = buildAlternatives(id, q.Alternatives)
	return r.resolve(r.s.questions[id]), nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.questions[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return r.resolve(row), nil
}

func (r *questionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Question, 0, len(r.s.questions))
	for _, row := range r.s.questions {
		if filter.SubjectID != "" && row.SubjectID != filter.SubjectID {
			continue
		}
		if filter.TopicID != "" && !slices.Contains(row.TopicIDs, filter.TopicID) {
			continue
		}
		out = append(out, *r.resolve(row))
	}
	sortBy(out, func(a, b models.Question) bool { return a.CreatedAt.Before(b.CreatedAt) })
	return out, nil
}

func (r *questionRepository) Update(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.questions[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	if err := r.checkRefs(patch.SubjectID, patch.TopicIDs); err != nil {
		return nil, err
	}

	if patch.Text != nil {
		row.Text = *patch.Text
	}
	if patch.SubjectID != nil {
		row.SubjectID = *patch.SubjectID
	}
	if patch.TopicIDs != nil {
		row.TopicIDs = dedupe(patch.TopicIDs)
	}
	if patch.Alternatives != nil {
		r.s.alternatives[id] = buildAlternatives(id, patch.Alternatives)
	}
	row.UpdatedAt = r.s.ts()
	r.s.questions[id] = row
	return r.resolve(row), nil
}

func (r *questionRepository) Delete(ctx context.Context, id string) (*models.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.questions[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	deleted := r.resolve(row)
	delete(r.s.questions, id)
	delete(r.s.alternatives, id)
	return deleted, nil
}

// checkRefs mirrors the foreign keys of the relational schema.
func (r *questionRepository) checkRefs(subjectID *string, topicIDs []string) error {
	if subjectID != nil {
		if _, ok := r.s.subjects[*subjectID]; !ok {
			return interfaces.ErrNotFound
		}
	}
	for _, tid := range topicIDs {
		if _, ok := r.s.topics[tid]; !ok {
			return interfaces.ErrNotFound
		}
	}
	return nil
}

func (r *questionRepository) resolve(row questionRow) *models.Question {
	q := &models.Question{
		ID:           row.ID,
		Text:         row.Text,
		SubjectID:    row.SubjectID,
		Topics:       []models.Topic{},
		Alternatives: slices.Clone(r.s.alternatives[row.ID]),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if q.Alternatives == nil {
		q.Alternatives = []models.Alternative{}
	}
	if sub, ok := r.s.subjects[row.SubjectID]; ok {
		q.Subject = &sub
	}
	for _, tid := range row.TopicIDs {
		if t, ok := r.s.topics[tid]; ok {
			q.Topics = append(q.Topics, t)
		}
	}
	sortBy(q.Topics, func(a, b models.Topic) bool { return a.Name < b.Name })
	return q
}

func buildAlternatives(questionID string, inputs []models.AlternativeInput) []models.Alternative {
	out := make([]models.Alternative, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, models.Alternative{
			ID:         uuid.NewString(),
			QuestionID: questionID,
			Text:       in.Text,
			IsCorrect:  in.IsCorrect,
		})
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
