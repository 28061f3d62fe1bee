package interfaces

import (
	"context"

	"qbank/internal/models"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id string) (*models.Topic, error)
	GetByName(ctx context.Context, subjectID, name string) (*models.Topic, error)
	List(ctx context.Context) ([]models.Topic, error)
	Update(ctx context.Context, id string, patch models.TopicPatch) (*models.Topic, error)
	Delete(ctx context.Context, id string) (*models.Topic, error)
}
