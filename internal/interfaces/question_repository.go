package interfaces

import (
	"context"

	"qbank/internal/models"
)

// QuestionRepository stores the question aggregate. Create, Update and Delete
// each touch several tables and must be all-or-nothing.
type QuestionRepository interface {
	Create(ctx context.Context, q models.NewQuestion) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	Update(ctx context.Context, id string, patch models.QuestionPatch) (*models.Question, error)
	Delete(ctx context.Context, id string) (*models.Question, error)
}
