package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// AuthService implements password-based registration, login, and the
// self-service account operations.
type AuthService struct {
	users    ports.UserRepository
	feedback ports.FeedbackRepository
	hasher   *PasswordHasher
	tokens   ports.TokenIssuer
	logger   zerolog.Logger
}

func NewAuthService(users ports.UserRepository, feedback ports.FeedbackRepository, hasher *PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, feedback: feedback, hasher: hasher, tokens: tokens, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	email := domain.NormalizeEmail(input.Email)
	username := domain.NormalizeUsername(input.Username)

	if !domain.ValidUsername(username) {
		return nil, "", domain.ErrInvalidUsername
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     username,
		Name:         input.Name,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password return the same error; deactivation is only revealed after the
// password check succeeds.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a comparison so the miss costs the same as a mismatch.
			s.hasher.Verify(password, dummyHash)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", domain.ErrAccountDeactivated
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// DeleteAccount removes the identity and every feedback message addressed
// to it.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	removed, err := s.feedback.DeleteByRecipient(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Int64("feedback_removed", removed).Msg("account deleted")
	return nil
}

// dummyHash is a bcrypt hash of a throwaway value, compared against when the
// email is unknown so response timing does not reveal account existence.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
