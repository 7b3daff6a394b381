package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"github.com/pantrio/pantrio/internal/types"
)

// UserService resolves verified token claims to internal user records,
// creating the record on first sight of a subject.
type UserService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewUserService(users repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Resolve returns the user for a verified token's claims, creating one
// when the subject has never been seen. The username is the email
// local-part; collisions between identities with the same local-part are
// not resolved here.
func (s *UserService) Resolve(ctx context.Context, claims types.AuthClaims) (*models.User, error) {
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, types.NewValidationError("token is missing the subject claim")
	}

	user, err := s.users.GetByExternalID(ctx, subject)
	if err != nil {
		return nil, types.NewUnexpectedError("looking up user by subject failed", err)
	}
	if user != nil {
		return user, nil
	}

	username, err := usernameFromEmail(claims.Email)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		ExternalID:  subject,
		Username:    username,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        models.RoleUser,
		Memberships: []models.HouseholdMember{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, types.NewDataIntegrityError("creating user failed", err)
	}

	s.log.Info("created user on first sight",
		zap.String("userId", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

// Get returns a user by internal id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, types.NewUnexpectedError("looking up user failed", err)
	}
	if user == nil {
		return nil, types.NewNotFoundError("user not found")
	}
	return user, nil
}

// UpdateProfileInput carries the updatable profile fields. Nil means
// leave unchanged. The username is derived at creation and never changes.
type UpdateProfileInput struct {
	DisplayName *string `json:"displayName"`
	Email       *string `json:"email"`
}

// UpdateProfile applies a sparse profile update to the caller's own record.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if !strings.Contains(email, "@") {
			return nil, types.NewValidationError("email must contain '@'")
		}
		user.Email = email
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, types.NewDataIntegrityError("saving user failed", err)
	}
	return user, nil
}

// usernameFromEmail takes the local-part before the first '@'. No other
// shape checks are applied here.
func usernameFromEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 0 {
		return "", types.NewValidationError("email claim must contain '@'")
	}
	return email[:at], nil
}
