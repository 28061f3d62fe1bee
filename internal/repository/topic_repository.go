package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type topicRepository struct {
	db *sql.DB
}

func NewTopicRepository(db *sql.DB) interfaces.TopicRepository {
	return &topicRepository{db: db}
}

const topicSelect = `
	SELECT t.id, t.name, t.subject_id, t.created_at, t.updated_at,
	       s.id, s.name, s.created_at, s.updated_at
	FROM topics t
	JOIN subjects s ON s.id = t.subject_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (*models.Topic, error) {
	var t models.Topic
	var s models.Subject
	if err := row.Scan(&t.ID, &t.Name, &t.SubjectID, &t.CreatedAt, &t.UpdatedAt,
		&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	t.Subject = &s
	return &t, nil
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	query := `
		INSERT INTO topics (id, name, subject_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, topic.ID, topic.Name, topic.SubjectID).Scan(&topic.CreatedAt, &topic.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return interfaces.ErrConflict
		case isForeignKeyViolation(err):
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

func (r *topicRepository) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	if !validID(id) {
		return nil, interfaces.ErrNotFound
	}
	return r.getOne(ctx, topicSelect+` WHERE t.id = $1`, id)
}

func (r *topicRepository) GetByName(ctx context.Context, subjectID, name string) (*models.Topic, error) {
	if !validID(subjectID) {
		return nil, interfaces.ErrNotFound
	}
	return r.getOne(ctx, topicSelect+` WHERE t.subject_id = $1 AND t.name = $2`, subjectID, name)
}

func (r *topicRepository) getOne(ctx context.Context, query string, args ...any) (*models.Topic, error) {
	t, err := scanTopic(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return t, nil
}

func (r *topicRepository) List(ctx context.Context) ([]models.Topic, error) {
	rows, err := r.db.QueryContext(ctx, topicSelect+` ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating topics: %w", err)
	}
	return topics, nil
}

func (r *topicRepository) Update(ctx context.Context, id string, patch models.TopicPatch) (*models.Topic, error) {
	if !validID(id) || (patch.SubjectID != nil && !validID(*patch.SubjectID)) {
		return nil, interfaces.ErrNotFound
	}

	setValues := []string{}
	args := []any{}
	argID := 1

	if patch.Name != nil {
		setValues = append(setValues, fmt.Sprintf("name = $%d", argID))
		args = append(args, *patch.Name)
		argID++
	}
	if patch.SubjectID != nil {
		setValues = append(setValues, fmt.Sprintf("subject_id = $%d", argID))
		args = append(args, *patch.SubjectID)
		argID++
	}
	setValues = append(setValues, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE topics SET %s WHERE id = $%d", strings.Join(setValues, ", "), argID)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, interfaces.ErrConflict
		case isForeignKeyViolation(err):
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}
	if n == 0 {
		return nil, interfaces.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *topicRepository) Delete(ctx context.Context, id string) (*models.Topic, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// question_topics rows go with the topic via ON DELETE CASCADE
	result, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete topic: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to delete topic: %w", err)
	}
	if n == 0 {
		return nil, interfaces.ErrNotFound
	}
	return t, nil
}
