package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

func seedTaxonomy(t *testing.T, s *Store) (models.Subject, models.Topic) {
	t.Helper()
	ctx := context.Background()

	subject := models.Subject{ID: "s1", Name: "Math"}
	require.NoError(t, s.Subjects().Create(ctx, &subject))
	topic := models.Topic{ID: "t1", Name: "Algebra", SubjectID: subject.ID}
	require.NoError(t, s.Topics().Create(ctx, &topic))
	return subject, topic
}

func TestUsersEmailUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: "h"}))
	err := s.Users().Create(ctx, &models.User{ID: "u2", Name: "Bob", Email: "ana@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, interfaces.ErrConflict)

	_, err = s.Users().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestRedeemIsSingleUse(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: "old"}))
	token := models.PasswordResetToken{ID: "r1", UserID: "u1", TokenHash: "abc", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, s.PasswordResets().Create(ctx, &token))

	require.NoError(t, s.PasswordResets().Redeem(ctx, "r1", "u1", "new"))
	err := s.PasswordResets().Redeem(ctx, "r1", "u1", "newer")
	assert.True(t, errors.Is(err, interfaces.ErrTokenAlreadyUsed))

	u, err := s.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", u.PasswordHash)

	stored := s.ResetTokensFor("u1")
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Used)
}

func TestQuestionUpdateReplacesAlternatives(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	subject, topic := seedTaxonomy(t, s)

	q, err := s.Questions().Create(ctx, models.NewQuestion{
		ID:        "q1",
		Text:      "2+2?",
		SubjectID: subject.ID,
		TopicIDs:  []string{topic.ID, topic.ID},
		Alternatives: []models.AlternativeInput{
			{Text: "4", IsCorrect: true},
			{Text: "5"},
		},
	})
	require.NoError(t, err)
	require.Len(t, q.Topics, 1)
	require.Len(t, q.Alternatives, 2)
	require.NotNil(t, q.Subject)
	assert.Equal(t, "Math", q.Subject.Name)

	text := "Two plus two?"
	q, err = s.Questions().Update(ctx, "q1", models.QuestionPatch{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, text, q.Text)
	assert.Len(t, q.Alternatives, 2, "absent alternatives keep the stored set")

	q, err = s.Questions().Update(ctx, "q1", models.QuestionPatch{
		Alternatives: []models.AlternativeInput{{Text: "four", IsCorrect: true}},
	})
	require.NoError(t, err)
	require.Len(t, q.Alternatives, 1)
	assert.Equal(t, "four", q.Alternatives[0].Text)
	assert.Equal(t, "q1", q.Alternatives[0].QuestionID)

	missing := "nope"
	_, err = s.Questions().Update(ctx, "q1", models.QuestionPatch{SubjectID: &missing})
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	got, err := s.Questions().GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, subject.ID, got.SubjectID, "failed update leaves the question unchanged")
}

func TestQuestionListFilters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	subject, topic := seedTaxonomy(t, s)

	other := models.Subject{ID: "s2", Name: "History"}
	require.NoError(t, s.Subjects().Create(ctx, &other))

	alts := []models.AlternativeInput{{Text: "a", IsCorrect: true}}
	_, err := s.Questions().Create(ctx, models.NewQuestion{ID: "q1", Text: "one", SubjectID: subject.ID, TopicIDs: []string{topic.ID}, Alternatives: alts})
	require.NoError(t, err)
	_, err = s.Questions().Create(ctx, models.NewQuestion{ID: "q2", Text: "two", SubjectID: subject.ID, Alternatives: alts})
	require.NoError(t, err)
	_, err = s.Questions().Create(ctx, models.NewQuestion{ID: "q3", Text: "three", SubjectID: other.ID, Alternatives: alts})
	require.NoError(t, err)

	all, err := s.Questions().List(ctx, models.QuestionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bySubject, err := s.Questions().List(ctx, models.QuestionFilter{SubjectID: subject.ID})
	require.NoError(t, err)
	assert.Len(t, bySubject, 2)

	byTopic, err := s.Questions().List(ctx, models.QuestionFilter{TopicID: topic.ID})
	require.NoError(t, err)
	require.Len(t, byTopic, 1)
	assert.Equal(t, "q1", byTopic[0].ID)
}

func TestSubjectDeleteBlockedByReferences(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	subject, topic := seedTaxonomy(t, s)

	_, err := s.Subjects().Delete(ctx, subject.ID)
	var blocked *interfaces.DeletionBlockedError
	require.ErrorAs(t, err, &blocked)

	_, err = s.Topics().Delete(ctx, topic.ID)
	require.NoError(t, err)

	deleted, err := s.Subjects().Delete(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, subject.ID, deleted.ID)

	_, err = s.Subjects().GetByID(ctx, subject.ID)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestTopicDeleteUnlinksQuestions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	subject, topic := seedTaxonomy(t, s)

	_, err := s.Questions().Create(ctx, models.NewQuestion{
		ID: "q1", Text: "x", SubjectID: subject.ID, TopicIDs: []string{topic.ID},
		Alternatives: []models.AlternativeInput{{Text: "a", IsCorrect: true}},
	})
	require.NoError(t, err)

	_, err = s.Topics().Delete(ctx, topic.ID)
	require.NoError(t, err)

	q, err := s.Questions().GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Empty(t, q.Topics)
}

func TestQuestionTopicsOrderedByName(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	subject, _ := seedTaxonomy(t, s)

	zeta := models.Topic{ID: "t-zeta", Name: "Zeta", SubjectID: subject.ID}
	require.NoError(t, s.Topics().Create(ctx, &zeta))
	alpha := models.Topic{ID: "t-alpha", Name: "Alpha", SubjectID: subject.ID}
	require.NoError(t, s.Topics().Create(ctx, &alpha))

	q, err := s.Questions().Create(ctx, models.NewQuestion{
		ID:           "q1",
		Text:         "Order?",
		SubjectID:    subject.ID,
		TopicIDs:     []string{zeta.ID, alpha.ID},
		Alternatives: []models.AlternativeInput{{Text: "yes", IsCorrect: true}},
	})
	require.NoError(t, err)
	require.Len(t, q.Topics, 2)
	assert.Equal(t, "Alpha", q.Topics[0].Name)
	assert.Equal(t, "Zeta", q.Topics[1].Name)

	got, err := s.Questions().GetByID(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, got.Topics, 2)
	assert.Equal(t, []string{"Alpha", "Zeta"}, []string{got.Topics[0].Name, got.Topics[1].Name})
}
