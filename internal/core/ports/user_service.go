package ports

import (
	"context"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
)

// UpdateProfileInput carries the self-service editable fields. Nil pointers
// leave the current value untouched.
type UpdateProfileInput struct {
	Name   *string
	Bio    *string
	Avatar *string
}

// UserService exposes profile operations.
type UserService interface {
	// PublicProfile returns the public view of an active user.
	// Inactive or unknown usernames both yield domain.ErrUserNotFound.
	PublicProfile(ctx context.Context, username string) (domain.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
}
