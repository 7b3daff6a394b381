package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"gorm.io/gorm"
)

// HouseholdMemberRepository is the GORM-backed membership store.
type HouseholdMemberRepository struct {
	db *gorm.DB
}

var _ repository.HouseholdMemberRepository = (*HouseholdMemberRepository)(nil)

func NewHouseholdMemberRepository(db *gorm.DB) *HouseholdMemberRepository {
	return &HouseholdMemberRepository{db: db}
}

func (r *HouseholdMemberRepository) GetByHouseholdAndUser(ctx context.Context, householdID, userID string) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	err := r.db.WithContext(ctx).
		First(&member, "household_id = ? AND user_id = ?", householdID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &member, nil
}

func (r *HouseholdMemberRepository) ListByHousehold(ctx context.Context, householdID string) ([]models.HouseholdMember, error) {
	var members []models.HouseholdMember
	err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members by household: %w", err)
	}
	return members, nil
}

func (r *HouseholdMemberRepository) CountOwners(ctx context.Context, householdID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HouseholdMember{}).
		Where("household_id = ? AND role = ?", householdID, models.MemberRoleOwner).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count household owners: %w", err)
	}
	return count, nil
}

func (r *HouseholdMemberRepository) Create(ctx context.Context, member *models.HouseholdMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

func (r *HouseholdMemberRepository) Delete(ctx context.Context, member *models.HouseholdMember) error {
	if err := r.db.WithContext(ctx).Delete(member).Error; err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}
