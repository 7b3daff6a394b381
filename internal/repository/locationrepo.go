package repository

import (
	"context"

	"github.com/pantrio/pantrio/internal/models"
)

// LocationRepository persists household storage locations.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Location, error)
	GetByHouseholdAndName(ctx context.Context, householdID, name string) (*models.Location, error)
	ListByHousehold(ctx context.Context, householdID string, params ListParams) ([]models.Location, int64, error)
	SearchByName(ctx context.Context, householdID, name string) ([]models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Save(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, location *models.Location) error
}
