package repository

import (
	"context"

	"github.com/pantrio/pantrio/internal/models"
)

// HouseholdRepository persists households.
type HouseholdRepository interface {
	GetByID(ctx context.Context, id string) (*models.Household, error)
	ListByUser(ctx context.Context, userID string) ([]models.Household, error)
	// CreateWithOwner creates the household and its first OWNER membership
	// in one transaction.
	CreateWithOwner(ctx context.Context, household *models.Household, ownerUserID string) error
	Save(ctx context.Context, household *models.Household) error
	Delete(ctx context.Context, household *models.Household) error
}

// HouseholdMemberRepository persists household membership rows.
type HouseholdMemberRepository interface {
	GetByHouseholdAndUser(ctx context.Context, householdID, userID string) (*models.HouseholdMember, error)
	ListByHousehold(ctx context.Context, householdID string) ([]models.HouseholdMember, error)
	CountOwners(ctx context.Context, householdID string) (int64, error)
	Create(ctx context.Context, member *models.HouseholdMember) error
	Delete(ctx context.Context, member *models.HouseholdMember) error
}
