package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// UserService implements profile reads and self-service profile edits.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// PublicProfile returns the public projection of an active user. A
// deactivated user is indistinguishable from an absent one.
func (s *UserService) PublicProfile(ctx context.Context, username string) (domain.PublicProfile, error) {
	user, err := s.users.FindByUsername(ctx, domain.NormalizeUsername(username))
	if err != nil {
		return domain.PublicProfile{}, err
	}
	if !user.IsActive {
		return domain.PublicProfile{}, domain.ErrUserNotFound
	}
	return user.Profile(), nil
}

// UpdateProfile applies the editable fields only. Role, activation, email,
// username, and the password hash are never touched here.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("user_id", userID).Msg("profile updated")
	return user, nil
}
