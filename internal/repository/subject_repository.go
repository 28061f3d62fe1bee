package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type subjectRepository struct {
	db *sql.DB
}

func NewSubjectRepository(db *sql.DB) interfaces.SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, subject.ID, subject.Name).Scan(&subject.CreatedAt, &subject.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return interfaces.ErrConflict
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	if !validID(id) {
		return nil, interfaces.ErrNotFound
	}
	return r.getOne(ctx, `SELECT id, name, created_at, updated_at FROM subjects WHERE id = $1`, id)
}

func (r *subjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	return r.getOne(ctx, `SELECT id, name, created_at, updated_at FROM subjects WHERE name = $1`, name)
}

func (r *subjectRepository) getOne(ctx context.Context, query string, arg any) (*models.Subject, error) {
	var s models.Subject
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &s, nil
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM subjects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	subjects := []models.Subject{}
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}
	return subjects, nil
}

func (r *subjectRepository) Update(ctx context.Context, id string, name string) (*models.Subject, error) {
	if !validID(id) {
		return nil, interfaces.ErrNotFound
	}
	query := `
		UPDATE subjects SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, created_at, updated_at
	`

	var s models.Subject
	err := r.db.QueryRowContext(ctx, query, name, id).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, interfaces.ErrNotFound
		case isUniqueViolation(err):
			return nil, interfaces.ErrConflict
		}
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}
	return &s, nil
}

func (r *subjectRepository) Delete(ctx context.Context, id string) (*models.Subject, error) {
	if !validID(id) {
		return nil, interfaces.ErrNotFound
	}

	var topicCount, questionCount int64
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM topics WHERE subject_id = $1),
			(SELECT COUNT(*) FROM questions WHERE subject_id = $1)
	`, id).Scan(&topicCount, &questionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to check subject references: %w", err)
	}
	if topicCount > 0 || questionCount > 0 {
		refs := map[string]int64{}
		if topicCount > 0 {
			refs["topics"] = topicCount
		}
		if questionCount > 0 {
			refs["questions"] = questionCount
		}
		return nil, &interfaces.DeletionBlockedError{Resource: "subject", References: refs}
	}

	var s models.Subject
	err = r.db.QueryRowContext(ctx, `
		DELETE FROM subjects WHERE id = $1
		RETURNING id, name, created_at, updated_at
	`, id).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, interfaces.ErrNotFound
		case isForeignKeyViolation(err):
			return nil, &interfaces.DeletionBlockedError{Resource: "subject", References: map[string]int64{}}
		}
		return nil, fmt.Errorf("failed to delete subject: %w", err)
	}
	return &s, nil
}
