package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Catalog queries run with an optimizer time cap; MySQL honors the hint,
// the other dialects parse it as a plain comment.
const maxExecutionHint = "MAX_EXECUTION_TIME(2000)"

// ProductRepository is the GORM-backed product catalog store.
type ProductRepository struct {
	db *gorm.DB
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) GetByUPC(ctx context.Context, upc string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "upc = ?", upc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product by upc: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, params repository.ListParams) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []models.Product
	err := r.db.WithContext(ctx).
		Clauses(hints.New(maxExecutionHint)).
		Order(orderClause(params, "name")).
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Clauses(hints.New(maxExecutionHint)).
		Where("LOWER(name) LIKE ?", likePattern(name)).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("search products by name: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Clauses(hints.New(maxExecutionHint)).
		Where("category = ?", category).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) ListByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Clauses(hints.New(maxExecutionHint)).
		Where("brand = ?", brand).
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products by brand: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) ListRetryCandidates(ctx context.Context, maxAttempts, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("requires_api_retry = ? AND retry_attempts < ?", true, maxAttempts).
		Order("last_retry_attempt").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list retry candidates: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Delete(product).Error; err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
