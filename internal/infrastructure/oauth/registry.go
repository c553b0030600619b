// Package oauth contains the external identity provider adapters. Each
// adapter redeems an authorization code and reduces the provider's response
// to the one normalized profile shape the linker consumes.
package oauth

import (
	"fmt"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

// Registry holds the configured providers and resolves them by name.
type Registry struct {
	providers map[domain.AuthProvider]ports.OAuthProvider
}

// NewRegistry registers the given providers. Names must be unique.
func NewRegistry(list ...ports.OAuthProvider) *Registry {
	m := make(map[domain.AuthProvider]ports.OAuthProvider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (ports.OAuthProvider, error) {
	p, ok := r.providers[domain.AuthProvider(name)]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}
