package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

const (
	userID     = "7f9c1c8e-3a0b-4a39-9d7a-9d7a0b1f0a01"
	tokenID    = "7f9c1c8e-3a0b-4a39-9d7a-9d7a0b1f0a02"
	subjectID  = "7f9c1c8e-3a0b-4a39-9d7a-9d7a0b1f0a03"
	topicID    = "7f9c1c8e-3a0b-4a39-9d7a-9d7a0b1f0a04"
	questionID = "7f9c1c8e-3a0b-4a39-9d7a-9d7a0b1f0a05"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{ID: userID, Name: "A", Email: "a@b.com", PasswordHash: "h"})
	require.ErrorIs(t, err, interfaces.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at\s+FROM users\s+WHERE id = \$1`).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), userID)
	require.ErrorIs(t, err, interfaces.ErrNotFound)

	// malformed ids never reach the database
	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, interfaces.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewUserRepository(conn)

	name := "New"
	email := "new@b.com"
	mock.ExpectExec(`UPDATE users SET name = \$1, email = \$2 WHERE id = \$3`).
		WithArgs(name, email, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateProfile(context.Background(), userID, &models.UpdateUserRequest{Name: &name, Email: &email}))

	mock.ExpectExec(`UPDATE users SET email = \$1 WHERE id = \$2`).
		WillReturnError(&pq.Error{Code: "23505"})
	err := repo.UpdateProfile(context.Background(), userID, &models.UpdateUserRequest{Email: &email})
	require.ErrorIs(t, err, interfaces.ErrConflict)

	mock.ExpectExec(`UPDATE users SET name = \$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateProfile(context.Background(), userID, &models.UpdateUserRequest{Name: &name})
	require.ErrorIs(t, err, interfaces.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryGetByTokenHash(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPasswordResetRepository(conn)

	expires := time.Now().UTC().Add(-time.Minute)
	mock.ExpectQuery(`SELECT id, user_id, token_hash, expires_at, used, created_at\s+FROM password_reset_tokens`).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "used", "created_at"}).
			AddRow(tokenID, userID, "hash", expires, true, time.Now().UTC()))

	tok, err := repo.GetByTokenHash(context.Background(), "hash")
	require.NoError(t, err)
	assert.True(t, tok.Used)
	assert.Equal(t, userID, tok.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryRedeemCommitsBothWrites(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPasswordResetRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE password_reset_tokens SET used = TRUE WHERE id = \$1 AND user_id = \$2 AND used = FALSE`).
		WithArgs(tokenID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET password_hash = \$1 WHERE id = \$2`).
		WithArgs("newhash", userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Redeem(context.Background(), tokenID, userID, "newhash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryRedeemAlreadyUsedRollsBack(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPasswordResetRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE password_reset_tokens SET used = TRUE`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Redeem(context.Background(), tokenID, userID, "newhash")
	require.ErrorIs(t, err, interfaces.ErrTokenAlreadyUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepositoryRedeemPasswordFailureRollsBack(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPasswordResetRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE password_reset_tokens SET used = TRUE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET password_hash`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Redeem(context.Background(), tokenID, userID, "newhash")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListOrdersByName(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewSubjectRepository(conn)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, created_at, updated_at FROM subjects ORDER BY name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(subjectID, "Biology", now, now))

	subjects, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Biology", subjects[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryDeleteBlocked(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewSubjectRepository(conn)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM topics`).
		WithArgs(subjectID).
		WillReturnRows(sqlmock.NewRows([]string{"topics", "questions"}).AddRow(2, 0))

	_, err := repo.Delete(context.Background(), subjectID)
	var blocked *interfaces.DeletionBlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, int64(2), blocked.References["topics"])
	_, hasQuestions := blocked.References["questions"]
	assert.False(t, hasQuestions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicRepositoryCreateUnknownSubject(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewTopicRepository(conn)

	mock.ExpectQuery("INSERT INTO topics").WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Create(context.Background(), &models.Topic{ID: topicID, Name: "Cells", SubjectID: subjectID})
	require.ErrorIs(t, err, interfaces.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func expectQuestionLoad(mock sqlmock.Sqlmock, text string, alts [][]driver.Value) {
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT q.id, q.text, q.subject_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "subject_id", "created_at", "updated_at", "s_id", "s_name", "s_created_at", "s_updated_at"}).
			AddRow(questionID, text, subjectID, now, now, subjectID, "Biology", now, now))

	altRows := sqlmock.NewRows([]string{"id", "question_id", "text", "is_correct"})
	for _, a := range alts {
		altRows.AddRow(a...)
	}
	mock.ExpectQuery(`SELECT id, question_id, text, is_correct\s+FROM alternatives`).WillReturnRows(altRows)

	mock.ExpectQuery(`SELECT qt.question_id, t.id, t.name`).
		WillReturnRows(sqlmock.NewRows([]string{"question_id", "id", "name", "subject_id", "created_at", "updated_at"}).
			AddRow(questionID, topicID, "Cells", subjectID, now, now))
}

func TestQuestionRepositoryCreateRunsInTransaction(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewQuestionRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO questions \(id, text, subject_id\)`).
		WithArgs(questionID, "What is a cell?", subjectID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO question_topics`).
		WithArgs(questionID, topicID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO alternatives`).
		WithArgs(sqlmock.AnyArg(), questionID, "A unit of life", true, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO alternatives`).
		WithArgs(sqlmock.AnyArg(), questionID, "A rock", false, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectQuestionLoad(mock, "What is a cell?", [][]driver.Value{
		{"a1", questionID, "A unit of life", true},
		{"a2", questionID, "A rock", false},
	})
	mock.ExpectCommit()

	q, err := repo.Create(context.Background(), models.NewQuestion{
		ID:        questionID,
		Text:      "What is a cell?",
		SubjectID: subjectID,
		TopicIDs:  []string{topicID},
		Alternatives: []models.AlternativeInput{
			{Text: "A unit of life", IsCorrect: true},
			{Text: "A rock"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Biology", q.Subject.Name)
	require.Len(t, q.Alternatives, 2)
	require.Len(t, q.Topics, 1)
	assert.True(t, q.Alternatives[0].IsCorrect)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryCreateUnknownTopicRollsBack(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewQuestionRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO questions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO question_topics`).WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), models.NewQuestion{
		ID:           questionID,
		Text:         "Q",
		SubjectID:    subjectID,
		TopicIDs:     []string{topicID},
		Alternatives: []models.AlternativeInput{{Text: "A", IsCorrect: true}},
	})
	require.ErrorIs(t, err, interfaces.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryUpdateReplacesAlternatives(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewQuestionRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE questions`).
		WithArgs(nil, nil, questionID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM alternatives WHERE question_id = \$1`).
		WithArgs(questionID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO alternatives`).
		WithArgs(sqlmock.AnyArg(), questionID, "Only", true, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectQuestionLoad(mock, "Q", [][]driver.Value{{"a9", questionID, "Only", true}})
	mock.ExpectCommit()

	q, err := repo.Update(context.Background(), questionID, models.QuestionPatch{
		Alternatives: []models.AlternativeInput{{Text: "Only", IsCorrect: true}},
	})
	require.NoError(t, err)
	require.Len(t, q.Alternatives, 1)
	assert.Equal(t, "Only", q.Alternatives[0].Text)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryUpdateVanishedRowRollsBack(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewQuestionRepository(conn)

	text := "New text"
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE questions`).
		WithArgs(text, nil, questionID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), questionID, models.QuestionPatch{Text: &text})
	require.ErrorIs(t, err, interfaces.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryDeleteReturnsAggregate(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewQuestionRepository(conn)

	mock.ExpectBegin()
	expectQuestionLoad(mock, "Q", [][]driver.Value{{"a1", questionID, "A", true}})
	mock.ExpectExec(`DELETE FROM questions WHERE id = \$1`).
		WithArgs(questionID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	q, err := repo.Delete(context.Background(), questionID)
	require.NoError(t, err)
	assert.Equal(t, questionID, q.ID)
	require.Len(t, q.Alternatives, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryListNoMatchesSkipsAssociations(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewQuestionRepository(conn)

	mock.ExpectQuery(`(?s)SELECT q.id, q.text, q.subject_id.*WHERE q.subject_id = \$1`).
		WithArgs(subjectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "subject_id", "created_at", "updated_at", "s_id", "s_name", "s_created_at", "s_updated_at"}))

	qs, err := repo.List(context.Background(), models.QuestionFilter{SubjectID: subjectID})
	require.NoError(t, err)
	assert.Empty(t, qs)
	require.NoError(t, mock.ExpectationsWereMet())
}
