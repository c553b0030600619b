package ports

import (
	"context"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
)

// ListUsersFilter carries pagination for admin user listings.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int // max rows per page (capped by the service)
}

// UserStats is the aggregate block served on the admin dashboard.
type UserStats struct {
	TotalUsers  int64 `json:"total_users"`
	ActiveUsers int64 `json:"active_users"`
	AdminUsers  int64 `json:"admin_users"`
}

// UserRepository defines persistence operations for identities. The storage
// layer enforces uniqueness of email, username, and (provider, provider_id);
// Create and Update surface violations as domain.ErrEmailTaken or
// domain.ErrUsernameTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// SetActive toggles the activation flag and returns the updated user.
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	// AdjustFeedbackCount atomically applies delta to the denormalized
	// counter, clamping at zero. Best effort; drift is tolerated.
	AdjustFeedbackCount(ctx context.Context, id string, delta int64) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Stats(ctx context.Context) (*UserStats, error)
}
