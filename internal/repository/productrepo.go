package repository

import (
	"context"

	"github.com/pantrio/pantrio/internal/models"
)

// ProductRepository persists the global product catalog.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByUPC(ctx context.Context, upc string) (*models.Product, error)
	List(ctx context.Context, params ListParams) ([]models.Product, int64, error)
	SearchByName(ctx context.Context, name string) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string) ([]models.Product, error)
	ListByBrand(ctx context.Context, brand string) ([]models.Product, error)
	// ListRetryCandidates returns products still flagged for an API retry
	// with fewer than maxAttempts attempts, oldest retry first.
	ListRetryCandidates(ctx context.Context, maxAttempts, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, product *models.Product) error
}
