package repository

import (
	"context"

	"github.com/pantrio/pantrio/internal/models"
)

// UserRepository persists internal user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
}
