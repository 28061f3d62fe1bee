package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"qbank/internal/db"
	"qbank/internal/interfaces"
	"qbank/internal/models"
)

type questionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(conn *sql.DB) interfaces.QuestionRepository {
	return &questionRepository{db: conn}
}

func (r *questionRepository) Create(ctx context.Context, nq models.NewQuestion) (*models.Question, error) {
	if !validID(nq.SubjectID) || !allValidIDs(nq.TopicIDs) {
		return nil, interfaces.ErrNotFound
	}
	if nq.ID == "" {
		nq.ID = uuid.NewString()
	}

	var created *models.Question
	err := db.WithTx(ctx, r.db, nil, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, text, subject_id) VALUES ($1, $2, $3)`,
			nq.ID, nq.Text, nq.SubjectID)
		if err != nil {
			return translateWriteErr("create question", err)
		}
		if err := insertTopics(ctx, tx, nq.ID, nq.TopicIDs); err != nil {
			return err
		}
		if err := insertAlternatives(ctx, tx, nq.ID, nq.Alternatives); err != nil {
			return err
		}

		created, err = loadQuestion(ctx, tx, nq.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	if !validID(id) {
		return nil, interfaces.ErrNotFound
	}
	return loadQuestion(ctx, r.db, id)
}

func (r *questionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	conds := []string{}
	args := []any{}

	if filter.SubjectID != "" {
		if !validID(filter.SubjectID) {
			return []models.Question{}, nil
		}
		args = append(args, filter.SubjectID)
		conds = append(conds, fmt.Sprintf("q.subject_id = $%d", len(args)))
	}
	if filter.TopicID != "" {
		if !validID(filter.TopicID) {
			return []models.Question{}, nil
		}
		args = append(args, filter.TopicID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM question_topics f WHERE f.question_id = q.id AND f.topic_id = $%d)", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	return loadQuestions(ctx, r.db, where, args...)
}

// Update applies patch inside one transaction. Topic and alternative sets are
// replaced wholesale when present in the patch.
func (r *questionRepository) Update(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error) {
	if !validID(id) || (patch.SubjectID != nil && !validID(*patch.SubjectID)) || !allValidIDs(patch.TopicIDs) {
		return nil, interfaces.ErrNotFound
	}

	var updated *models.Question
	err := db.WithTx(ctx, r.db, nil, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE questions
			SET text = COALESCE($1::text, text),
			    subject_id = COALESCE($2::uuid, subject_id),
			    updated_at = NOW()
			WHERE id = $3
		`, nullable(patch.Text), nullable(patch.SubjectID), id)
		if err != nil {
			return translateWriteErr("update question", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		if n == 0 {
			return interfaces.ErrNotFound
		}

		if patch.TopicIDs != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM question_topics WHERE question_id = $1`, id); err != nil {
				return fmt.Errorf("failed to clear question topics: %w", err)
			}
			if err := insertTopics(ctx, tx, id, patch.TopicIDs); err != nil {
				return err
			}
		}

		if patch.Alternatives != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM alternatives WHERE question_id = $1`, id); err != nil {
				return fmt.Errorf("failed to clear alternatives: %w", err)
			}
			if err := insertAlternatives(ctx, tx, id, patch.Alternatives); err != nil {
				return err
			}
		}

		updated, err = loadQuestion(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the question; alternatives and topic links cascade.
func (r *questionRepository) Delete(ctx context.Context, id string) (*models.Question, error) {
	if !validID(id) {
		return nil, interfaces.ErrNotFound
	}

	var deleted *models.Question
	err := db.WithTx(ctx, r.db, nil, func(ctx context.Context, tx db.DBTX) error {
		q, err := loadQuestion(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete question: %w", err)
		}
		deleted = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func insertTopics(ctx context.Context, tx db.DBTX, questionID string, topicIDs []string) error {
	for _, topicID := range topicIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO question_topics (question_id, topic_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			questionID, topicID)
		if err != nil {
			return translateWriteErr("link topic", err)
		}
	}
	return nil
}

func insertAlternatives(ctx context.Context, tx db.DBTX, questionID string, alts []models.AlternativeInput) error {
	for i, alt := range alts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO alternatives (id, question_id, text, is_correct, position) VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), questionID, alt.Text, alt.IsCorrect, i)
		if err != nil {
			return fmt.Errorf("failed to create alternative: %w", err)
		}
	}
	return nil
}

const questionSelect = `
	SELECT q.id, q.text, q.subject_id, q.created_at, q.updated_at,
	       s.id, s.name, s.created_at, s.updated_at
	FROM questions q
	JOIN subjects s ON s.id = q.subject_id
`

func loadQuestion(ctx context.Context, conn db.DBTX, id string) (*models.Question, error) {
	qs, err := loadQuestions(ctx, conn, " WHERE q.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &qs[0], nil
}

// loadQuestions resolves full aggregates with three queries regardless of
// how many questions match.
func loadQuestions(ctx context.Context, conn db.DBTX, where string, args ...any) ([]models.Question, error) {
	rows, err := conn.QueryContext(ctx, questionSelect+where+" ORDER BY q.created_at", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	questions := []models.Question{}
	index := map[string]int{}
	for rows.Next() {
		var q models.Question
		var s models.Subject
		if err := rows.Scan(&q.ID, &q.Text, &q.SubjectID, &q.CreatedAt, &q.UpdatedAt,
			&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.Subject = &s
		q.Topics = []models.Topic{}
		q.Alternatives = []models.Alternative{}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	rows.Close()

	if len(questions) == 0 {
		return questions, nil
	}

	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	altRows, err := conn.QueryContext(ctx, `
		SELECT id, question_id, text, is_correct
		FROM alternatives
		WHERE question_id = ANY($1)
		ORDER BY question_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load alternatives: %w", err)
	}
	for altRows.Next() {
		var a models.Alternative
		if err := altRows.Scan(&a.ID, &a.QuestionID, &a.Text, &a.IsCorrect); err != nil {
			altRows.Close()
			return nil, fmt.Errorf("failed to scan alternative: %w", err)
		}
		if i, ok := index[a.QuestionID]; ok {
			questions[i].Alternatives = append(questions[i].Alternatives, a)
		}
	}
	if err := altRows.Err(); err != nil {
		altRows.Close()
		return nil, fmt.Errorf("error iterating alternatives: %w", err)
	}
	altRows.Close()

	topicRows, err := conn.QueryContext(ctx, `
		SELECT qt.question_id, t.id, t.name, t.subject_id, t.created_at, t.updated_at
		FROM question_topics qt
		JOIN topics t ON t.id = qt.topic_id
		WHERE qt.question_id = ANY($1)
		ORDER BY t.name
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load question topics: %w", err)
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var questionID string
		var t models.Topic
		if err := topicRows.Scan(&questionID, &t.ID, &t.Name, &t.SubjectID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question topic: %w", err)
		}
		if i, ok := index[questionID]; ok {
			questions[i].Topics = append(questions[i].Topics, t)
		}
	}
	if err := topicRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question topics: %w", err)
	}

	return questions, nil
}

// translateWriteErr maps a dangling subject or topic reference to ErrNotFound.
func translateWriteErr(op string, err error) error {
	if isForeignKeyViolation(err) {
		return interfaces.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
