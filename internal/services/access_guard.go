package services

import (
	"context"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"github.com/pantrio/pantrio/internal/types"
)

// AccessGuard is the single authorization decision point for
// household-scoped resources. Every domain service routes its checks
// through it instead of testing roles inline.
type AccessGuard struct {
	members repository.HouseholdMemberRepository
}

func NewAccessGuard(members repository.HouseholdMemberRepository) *AccessGuard {
	return &AccessGuard{members: members}
}

// Authorize returns the caller's membership in a household. Absence is
// Forbidden, never NotFound: a non-member cannot learn whether the
// household exists at all.
func (g *AccessGuard) Authorize(ctx context.Context, user *models.User, householdID string) (*models.HouseholdMember, error) {
	member, err := g.members.GetByHouseholdAndUser(ctx, householdID, user.ID)
	if err != nil {
		return nil, types.NewUnexpectedError("checking household membership failed", err)
	}
	if member == nil {
		return nil, types.NewForbiddenError("you are not a member of this household")
	}
	return member, nil
}

// AuthorizeOwner returns the caller's membership when it carries the
// OWNER role. Members without it get InsufficientPermission, which is
// distinct from the Forbidden of a non-member.
func (g *AccessGuard) AuthorizeOwner(ctx context.Context, user *models.User, householdID string) (*models.HouseholdMember, error) {
	member, err := g.Authorize(ctx, user, householdID)
	if err != nil {
		return nil, err
	}
	if !member.IsOwner() {
		return nil, types.NewInsufficientPermissionError("this action requires the household owner role")
	}
	return member, nil
}

// RequireAdmin checks the user's global role. Product catalog writes go
// through this regardless of household membership.
func (g *AccessGuard) RequireAdmin(user *models.User) error {
	if !user.IsAdmin() {
		return types.NewInsufficientPermissionError("this action requires the ADMIN role")
	}
	return nil
}
