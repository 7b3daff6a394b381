package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"gorm.io/gorm"
)

// HouseholdRepository is the GORM-backed household store.
type HouseholdRepository struct {
	db *gorm.DB
}

var _ repository.HouseholdRepository = (*HouseholdRepository)(nil)

func NewHouseholdRepository(db *gorm.DB) *HouseholdRepository {
	return &HouseholdRepository{db: db}
}

func (r *HouseholdRepository) GetByID(ctx context.Context, id string) (*models.Household, error) {
	var household models.Household
	err := r.db.WithContext(ctx).Preload("Members").First(&household, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household by id: %w", err)
	}
	return &household, nil
}

func (r *HouseholdRepository) ListByUser(ctx context.Context, userID string) ([]models.Household, error) {
	var households []models.Household
	err := r.db.WithContext(ctx).
		Joins("JOIN household_members ON household_members.household_id = households.id").
		Where("household_members.user_id = ?", userID).
		Order("households.name").
		Find(&households).Error
	if err != nil {
		return nil, fmt.Errorf("list households by user: %w", err)
	}
	return households, nil
}

func (r *HouseholdRepository) CreateWithOwner(ctx context.Context, household *models.Household, ownerUserID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(household).Error; err != nil {
			return err
		}
		member := &models.HouseholdMember{
			HouseholdID: household.ID,
			UserID:      ownerUserID,
			Role:        models.MemberRoleOwner,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return fmt.Errorf("create household with owner: %w", err)
	}
	return nil
}

func (r *HouseholdRepository) Save(ctx context.Context, household *models.Household) error {
	if err := r.db.WithContext(ctx).Save(household).Error; err != nil {
		return fmt.Errorf("save household: %w", err)
	}
	return nil
}

func (r *HouseholdRepository) Delete(ctx context.Context, household *models.Household) error {
	if err := r.db.WithContext(ctx).Select("Members", "Locations").Delete(household).Error; err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}
