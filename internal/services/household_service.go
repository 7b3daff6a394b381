// household_service.go
//
// A household inventory and product data service with barcode-driven enrichment
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of pantrio.
// pantrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// pantrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with pantrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"github.com/pantrio/pantrio/internal/types"
)

// HouseholdService manages households and their membership rosters.
// Creation makes the caller the OWNER; roster changes and renames are
// owner-only, while reads require plain membership.
type HouseholdService struct {
	households repository.HouseholdRepository
	members    repository.HouseholdMemberRepository
	users      repository.UserRepository
	guard      *AccessGuard
	log        *zap.Logger
}

func NewHouseholdService(
	households repository.HouseholdRepository,
	members repository.HouseholdMemberRepository,
	users repository.UserRepository,
	guard *AccessGuard,
	log *zap.Logger,
) *HouseholdService {
	return &HouseholdService{
		households: households,
		members:    members,
		users:      users,
		guard:      guard,
		log:        log,
	}
}

// Create makes a household with the caller as its OWNER member. Both
// rows are written in one transaction.
func (s *HouseholdService) Create(ctx context.Context, user *models.User, name string) (*models.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.NewValidationError("household name must not be blank")
	}

	household := &models.Household{Name: name}
	if err := s.households.CreateWithOwner(ctx, household, user.ID); err != nil {
		return nil, types.NewDataIntegrityError("creating household failed", err)
	}

	s.log.Info("created household",
		zap.String("householdId", household.ID),
		zap.String("ownerId", user.ID))
	return household, nil
}

// Get returns a household with its member roster. Requires membership.
func (s *HouseholdService) Get(ctx context.Context, user *models.User, householdID string) (*models.Household, error) {
	if _, err := s.guard.Authorize(ctx, user, householdID); err != nil {
		return nil, err
	}

	household, err := s.households.GetByID(ctx, householdID)
	if err != nil {
		return nil, types.NewUnexpectedError("looking up household failed", err)
	}
	if household == nil {
		return nil, types.NewNotFoundError("household not found")
	}
	return household, nil
}

// ListMine returns every household the caller belongs to.
func (s *HouseholdService) ListMine(ctx context.Context, user *models.User) ([]models.Household, error) {
	households, err := s.households.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, types.NewUnexpectedError("listing households failed", err)
	}
	return households, nil
}

// Rename changes the household name. Owner only.
func (s *HouseholdService) Rename(ctx context.Context, user *models.User, householdID, name string) (*models.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.NewValidationError("household name must not be blank")
	}

	if _, err := s.guard.AuthorizeOwner(ctx, user, householdID); err != nil {
		return nil, err
	}

	household, err := s.households.GetByID(ctx, householdID)
	if err != nil {
		return nil, types.NewUnexpectedError("looking up household failed", err)
	}
	if household == nil {
		return nil, types.NewNotFoundError("household not found")
	}

	household.Name = name
	if err := s.households.Save(ctx, household); err != nil {
		return nil, types.NewDataIntegrityError("saving household failed", err)
	}
	return household, nil
}

// Delete removes a household and, through the schema's cascades, its
// memberships and locations. Owner only.
func (s *HouseholdService) Delete(ctx context.Context, user *models.User, householdID string) error {
	if _, err := s.guard.AuthorizeOwner(ctx, user, householdID); err != nil {
		return err
	}

	household, err := s.households.GetByID(ctx, householdID)
	if err != nil {
		return types.NewUnexpectedError("looking up household failed", err)
	}
	if household == nil {
		return types.NewNotFoundError("household not found")
	}

	if err := s.households.Delete(ctx, household); err != nil {
		return types.NewDataIntegrityError("deleting household failed", err)
	}

	s.log.Info("deleted household", zap.String("householdId", householdID))
	return nil
}

// AddMembers adds users to the household roster as MEMBERs. Owner only.
// Users already on the roster are skipped, so the call is idempotent.
// Unknown user ids fail the whole call before anything is written.
func (s *HouseholdService) AddMembers(ctx context.Context, actor *models.User, householdID string, userIDs []string) ([]models.HouseholdMember, error) {
	if len(userIDs) == 0 {
		return nil, types.NewValidationError("at least one user id is required")
	}

	if _, err := s.guard.AuthorizeOwner(ctx, actor, householdID); err != nil {
		return nil, err
	}

	for _, userID := range userIDs {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, types.NewUnexpectedError("looking up user failed", err)
		}
		if user == nil {
			return nil, types.NewNotFoundError("user " + userID + " not found")
		}
	}

	for _, userID := range userIDs {
		existing, err := s.members.GetByHouseholdAndUser(ctx, householdID, userID)
		if err != nil {
			return nil, types.NewUnexpectedError("checking household membership failed", err)
		}
		if existing != nil {
			continue
		}
		member := &models.HouseholdMember{
			HouseholdID: householdID,
			UserID:      userID,
			Role:        models.MemberRoleMember,
		}
		if err := s.members.Create(ctx, member); err != nil {
			return nil, types.NewDataIntegrityError("adding household member failed", err)
		}
	}

	roster, err := s.members.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, types.NewUnexpectedError("listing household members failed", err)
	}
	return roster, nil
}

// RemoveMember takes a user off the roster. Owners can remove anyone;
// a plain member may only remove themself. The last OWNER can never be
// removed, so a household is never left unowned.
func (s *HouseholdService) RemoveMember(ctx context.Context, actor *models.User, householdID, userID string) error {
	actorMember, err := s.guard.Authorize(ctx, actor, householdID)
	if err != nil {
		return err
	}
	if !actorMember.IsOwner() && actor.ID != userID {
		return types.NewInsufficientPermissionError("only the household owner can remove other members")
	}

	member, err := s.members.GetByHouseholdAndUser(ctx, householdID, userID)
	if err != nil {
		return types.NewUnexpectedError("checking household membership failed", err)
	}
	if member == nil {
		return types.NewNotFoundError("household member not found")
	}

	if member.IsOwner() {
		owners, err := s.members.CountOwners(ctx, householdID)
		if err != nil {
			return types.NewUnexpectedError("counting household owners failed", err)
		}
		if owners <= 1 {
			return types.NewValidationError("cannot remove the last owner of a household")
		}
	}

	if err := s.members.Delete(ctx, member); err != nil {
		return types.NewDataIntegrityError("removing household member failed", err)
	}
	return nil
}
