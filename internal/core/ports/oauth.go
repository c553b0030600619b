package ports

import (
	"context"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
)

// OAuthProfile is the normalized shape every provider adapter reduces its
// response to. Downstream linking logic never sees provider-specific fields.
type OAuthProfile struct {
	ExternalID  string // provider-scoped subject identifier
	DisplayName string
	Email       string // primary verified email; empty when the provider has none
	AvatarURL   string
	Username    string // provider handle, when the provider has one (e.g. github login)
}

// OAuthProvider is one configured external identity provider. Adapters
// return profile facts only; linking and token issuance happen elsewhere.
type OAuthProvider interface {
	Name() domain.AuthProvider
	// AuthCodeURL builds the provider consent URL carrying state.
	AuthCodeURL(state string) string
	// Exchange redeems the callback code and returns the normalized profile.
	Exchange(ctx context.Context, code string) (*OAuthProfile, error)
}

// IdentityLinker maps a federated profile onto a local identity, creating
// one on first sight.
type IdentityLinker interface {
	Link(ctx context.Context, provider domain.AuthProvider, profile *OAuthProfile) (*domain.User, error)
}

// StateStore persists short-lived one-shot OAuth state nonces.
type StateStore interface {
	Save(ctx context.Context, state string) error
	// Consume reports whether state was present, removing it either way.
	Consume(ctx context.Context, state string) (bool, error)
}
