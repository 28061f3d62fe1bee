package interfaces

import (
	"context"

	"qbank/internal/models"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	GetByName(ctx context.Context, name string) (*models.Subject, error)
	List(ctx context.Context) ([]models.Subject, error)
	Update(ctx context.Context, id string, name string) (*models.Subject, error)
	Delete(ctx context.Context, id string) (*models.Subject, error)
}
