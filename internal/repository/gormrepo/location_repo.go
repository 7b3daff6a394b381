package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"gorm.io/gorm"
)

// LocationRepository is the GORM-backed location store.
type LocationRepository struct {
	db *gorm.DB
}

var _ repository.LocationRepository = (*LocationRepository)(nil)

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get location by id: %w", err)
	}
	return &location, nil
}

func (r *LocationRepository) GetByHouseholdAndName(ctx context.Context, householdID, name string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		First(&location, "household_id = ? AND name = ?", householdID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get location by name: %w", err)
	}
	return &location, nil
}

func (r *LocationRepository) ListByHousehold(ctx context.Context, householdID string, params repository.ListParams) ([]models.Location, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Location{}).Where("household_id = ?", householdID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}

	var locations []models.Location
	err := query.
		Order(orderClause(params, "name")).
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&locations).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	return locations, total, nil
}

func (r *LocationRepository) SearchByName(ctx context.Context, householdID, name string) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).
		Where("household_id = ? AND LOWER(name) LIKE ?", householdID, likePattern(name)).
		Order("name").
		Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("search locations by name: %w", err)
	}
	return locations, nil
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *LocationRepository) Save(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Save(location).Error; err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, location *models.Location) error {
	if err := r.db.WithContext(ctx).Delete(location).Error; err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

// likePattern builds a case-insensitive contains pattern. LOWER + LIKE is
// the one spelling all four supported dialects share.
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// orderClause renders ListParams into an ORDER BY expression, falling back
// to the given default column. Sort values are whitelisted by the caller.
func orderClause(params repository.ListParams, defaultSort string) string {
	sort := params.Sort
	if sort == "" {
		sort = defaultSort
	}
	if strings.EqualFold(params.Order, "desc") {
		return sort + " DESC"
	}
	return sort + " ASC"
}
