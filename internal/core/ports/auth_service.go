package ports

import (
	"context"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
)

// RegisterInput carries the fields required to create a local identity.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// AuthService implements password-based registration and login plus the
// self-service account operations.
type AuthService interface {
	// Register creates a local identity and returns it with a fresh token.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and returns the user with a fresh token.
	// Unknown email and wrong password fail identically.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// DeleteAccount removes the identity and all feedback addressed to it.
	DeleteAccount(ctx context.Context, userID string) error
}

// TokenIssuer mints bearer tokens for a resolved identity. Both password
// login and the federated callback end on this path.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// TokenVerifier validates a bearer token and returns the identity id it
// was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
