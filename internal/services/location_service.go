package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"github.com/pantrio/pantrio/internal/types"
)

// LocationService manages storage locations inside a household. Every
// operation requires household membership; name uniqueness is enforced
// per household against the stored value.
type LocationService struct {
	locations repository.LocationRepository
	guard     *AccessGuard
	log       *zap.Logger
}

func NewLocationService(locations repository.LocationRepository, guard *AccessGuard, log *zap.Logger) *LocationService {
	return &LocationService{locations: locations, guard: guard, log: log}
}

// CreateLocationInput carries the fields for a new location.
type CreateLocationInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Create adds a location to a household. The name must not collide with
// an existing location in the same household.
func (s *LocationService) Create(ctx context.Context, user *models.User, householdID string, input CreateLocationInput) (*models.Location, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, types.NewValidationError("location name must not be blank")
	}

	if _, err := s.guard.Authorize(ctx, user, householdID); err != nil {
		return nil, err
	}

	existing, err := s.locations.GetByHouseholdAndName(ctx, householdID, name)
	if err != nil {
		return nil, types.NewUnexpectedError("checking location name failed", err)
	}
	if existing != nil {
		return nil, types.NewConflictError(fmt.Sprintf("a location named %q already exists in this household", name))
	}

	location := &models.Location{
		HouseholdID: householdID,
		Name:        name,
		Description: input.Description,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, types.NewDataIntegrityError("creating location failed", err)
	}

	s.log.Info("created location",
		zap.String("locationId", location.ID),
		zap.String("householdId", householdID))
	return location, nil
}

// Get returns a location scoped to the given household.
func (s *LocationService) Get(ctx context.Context, user *models.User, householdID, locationID string) (*models.Location, error) {
	if _, err := s.guard.Authorize(ctx, user, householdID); err != nil {
		return nil, err
	}
	return s.find(ctx, householdID, locationID)
}

// List returns a page of the household's locations and the total count.
func (s *LocationService) List(ctx context.Context, user *models.User, householdID string, params repository.ListParams) ([]models.Location, int64, error) {
	if _, err := s.guard.Authorize(ctx, user, householdID); err != nil {
		return nil, 0, err
	}

	locations, total, err := s.locations.ListByHousehold(ctx, householdID, params)
	if err != nil {
		return nil, 0, types.NewUnexpectedError("listing locations failed", err)
	}
	return locations, total, nil
}

// Search finds locations by case-insensitive name substring. An empty
// result is a normal outcome, not an error.
func (s *LocationService) Search(ctx context.Context, user *models.User, householdID, query string) ([]models.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.NewValidationError("search query must not be blank")
	}

	if _, err := s.guard.Authorize(ctx, user, householdID); err != nil {
		return nil, err
	}

	locations, err := s.locations.SearchByName(ctx, householdID, query)
	if err != nil {
		return nil, types.NewUnexpectedError("searching locations failed", err)
	}
	return locations, nil
}

// UpdateLocationInput carries a sparse location update. Nil means leave
// unchanged.
type UpdateLocationInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update renames or re-describes a location. Renaming to the current
// name is allowed; renaming onto another location's name is a conflict.
func (s *LocationService) Update(ctx context.Context, user *models.User, householdID, locationID string, input UpdateLocationInput) (*models.Location, error) {
	if _, err := s.guard.Authorize(ctx, user, householdID); err != nil {
		return nil, err
	}

	location, err := s.find(ctx, householdID, locationID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, types.NewValidationError("location name must not be blank")
		}
		if name != location.Name {
			existing, err := s.locations.GetByHouseholdAndName(ctx, householdID, name)
			if err != nil {
				return nil, types.NewUnexpectedError("checking location name failed", err)
			}
			if existing != nil && existing.ID != location.ID {
				return nil, types.NewConflictError(fmt.Sprintf("a location named %q already exists in this household", name))
			}
		}
		location.Name = name
	}
	if input.Description != nil {
		location.Description = input.Description
	}

	if err := s.locations.Save(ctx, location); err != nil {
		return nil, types.NewDataIntegrityError("saving location failed", err)
	}
	return location, nil
}

// Delete removes a location.
func (s *LocationService) Delete(ctx context.Context, user *models.User, householdID, locationID string) error {
	if _, err := s.guard.Authorize(ctx, user, householdID); err != nil {
		return err
	}

	location, err := s.find(ctx, householdID, locationID)
	if err != nil {
		return err
	}

	if err := s.locations.Delete(ctx, location); err != nil {
		return types.NewDataIntegrityError("deleting location failed", err)
	}

	s.log.Info("deleted location",
		zap.String("locationId", locationID),
		zap.String("householdId", householdID))
	return nil
}

// find loads a location and checks it belongs to the household from the
// request path. A location reachable under the wrong household id is
// reported as absent.
func (s *LocationService) find(ctx context.Context, householdID, locationID string) (*models.Location, error) {
	location, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, types.NewUnexpectedError("looking up location failed", err)
	}
	if location == nil || location.HouseholdID != householdID {
		return nil, types.NewNotFoundError("location not found")
	}
	return location, nil
}
