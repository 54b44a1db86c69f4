// Package provider defines the contract for external OIDC login
// providers.
package provider

import (
	"context"

	"gamevault/internal/auth"
)

// OAuthProvider is implemented by each external identity provider.
// Implementations return identity facts only; user provisioning and
// session management happen elsewhere.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL builds the authorization URL. State and PKCE
	// parameters are supplied by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode trades the authorization code for a verified,
	// normalized identity.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Identity, error)
}
