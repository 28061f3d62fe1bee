package interfaces

import (
	"context"

	"qbank/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateUserRequest) error
}
