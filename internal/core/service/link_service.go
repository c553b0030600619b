package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// LinkService maps a federated provider profile onto a local identity,
// creating one on first sight and refreshing display fields on re-login.
type LinkService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewLinkService(users ports.UserRepository, logger zerolog.Logger) *LinkService {
	return &LinkService{users: users, logger: logger}
}

// Link resolves profile to a local identity. Matching order: the
// (provider, external id) pair first, then the profile's email, so a
// password-based account with the same email gains the provider linkage
// instead of spawning a duplicate.
func (s *LinkService) Link(ctx context.Context, provider domain.AuthProvider, profile *ports.OAuthProfile) (*domain.User, error) {
	if profile.ExternalID == "" {
		return nil, fmt.Errorf("%s profile missing external id", provider)
	}

	email := domain.NormalizeEmail(profile.Email)
	if email == "" {
		// Some providers withhold the email. Synthesize a unique
		// placeholder so the email uniqueness index never sees a blank.
		email = placeholderEmail(provider, profile)
	}

	user, err := s.findExisting(ctx, provider, profile.ExternalID, email)
	if err != nil {
		return nil, err
	}

	if user != nil {
		return s.refresh(ctx, user, provider, profile, email)
	}

	return s.create(ctx, provider, profile, email)
}

func (s *LinkService) findExisting(ctx context.Context, provider domain.AuthProvider, externalID, email string) (*domain.User, error) {
	user, err := s.users.FindByProvider(ctx, provider, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return nil, nil
}

// refresh updates mutable display fields and ensures the provider linkage is
// recorded. Identity, role, and activation are left untouched.
func (s *LinkService) refresh(ctx context.Context, user *domain.User, provider domain.AuthProvider, profile *ports.OAuthProfile, email string) (*domain.User, error) {
	if name := displayName(profile); name != "" {
		user.Name = name
	}
	if profile.AvatarURL != "" {
		user.Avatar = profile.AvatarURL
	}
	if domain.NormalizeEmail(profile.Email) != "" {
		user.Email = domain.NormalizeEmail(profile.Email)
	}
	if user.ProviderID == "" {
		user.AuthProvider = provider
		user.ProviderID = profile.ExternalID
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("provider", string(provider)).Msg("federated login linked existing user")
	return user, nil
}

func (s *LinkService) create(ctx context.Context, provider domain.AuthProvider, profile *ports.OAuthProfile, email string) (*domain.User, error) {
	username, err := s.UniqueUsername(ctx, usernameBase(profile, email))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     username,
		Name:         displayName(profile),
		Avatar:       profile.AvatarURL,
		AuthProvider: provider,
		ProviderID:   profile.ExternalID,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if errors.Is(err, domain.ErrUsernameTaken) {
		// Lost the race between the existence probe and the insert. The
		// unique index is authoritative; re-derive once and retry.
		user.Username, err = s.UniqueUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		created, err = s.users.Create(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("provider", string(provider)).Str("username", created.Username).Msg("federated login created user")
	return created, nil
}

// UniqueUsername derives a valid username from base and probes the store,
// appending _1, _2, ... until an unused value is found. The probe loop is
// best effort; the caller still handles a duplicate-key error from the
// eventual insert.
func (s *LinkService) UniqueUsername(ctx context.Context, base string) (string, error) {
	candidate := SanitizeUsername(base)

	for i := 0; ; i++ {
		name := candidate
		if i > 0 {
			name = fmt.Sprintf("%s_%d", candidate, i)
		}
		if len(name) > domain.UsernameMaxLen {
			suffix := fmt.Sprintf("_%d", i)
			name = candidate[:domain.UsernameMaxLen-len(suffix)] + suffix
		}

		_, err := s.users.FindByUsername(ctx, name)
		if errors.Is(err, domain.ErrUserNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// SanitizeUsername lower-cases base, strips every character outside the
// allowed set, and prefixes short results up to the minimum length.
func SanitizeUsername(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > domain.UsernameMaxLen {
		out = out[:domain.UsernameMaxLen]
	}
	if len(out) < domain.UsernameMinLen {
		out = "user_" + out
	}
	return out
}

func usernameBase(profile *ports.OAuthProfile, email string) string {
	if profile.Username != "" {
		return profile.Username
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

func displayName(profile *ports.OAuthProfile) string {
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	return profile.Username
}

func placeholderEmail(provider domain.AuthProvider, profile *ports.OAuthProfile) string {
	handle := profile.Username
	if handle == "" {
		handle = profile.ExternalID
	}
	return domain.NormalizeEmail(fmt.Sprintf("%s@%s.local", handle, provider))
}
