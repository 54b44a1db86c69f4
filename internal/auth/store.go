package auth

import "context"

// UserStore is the external collaborator that persists principals.
// Lookups return (nil, nil) when no account matches; errors are reserved
// for store failures.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*Principal, error)
	FindByUsername(ctx context.Context, username string) (*Principal, error)
	FindByEmail(ctx context.Context, email string) (*Principal, error)

	// Create persists a new principal and fills in its ID and timestamps.
	Create(ctx context.Context, p *Principal) error

	// UpdateDigest replaces the stored password digest, e.g. after a
	// re-hash on login when the digest format changes.
	UpdateDigest(ctx context.Context, id, digest string) error
}
