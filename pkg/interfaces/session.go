package interfaces

import (
	"context"

	"github.com/centroimagen/booking-api/pkg/types"
)

// SessionService defines the single source of truth for "who is logged in"
type SessionService interface {
	// Load reads the persisted identity, if any. Absence and parse
	// failures both yield (nil, nil); they are logged, never surfaced.
	Load(ctx context.Context) (*types.Identity, error)

	// Login authenticates against the identity set. Unknown email and
	// wrong password produce the same generic failure.
	Login(ctx context.Context, creds *types.Credentials) (*types.Identity, *types.AuthToken, error)

	// Register creates a new identity with role forced to "user" and
	// sets it as the current session.
	Register(ctx context.Context, req *types.RegistrationRequest) (*types.Identity, *types.AuthToken, error)

	// Logout clears the persisted and in-memory identity.
	Logout(ctx context.Context) error

	// Current returns the in-memory current identity, nil when logged out.
	Current() *types.Identity

	// ValidateToken parses and validates a session token.
	ValidateToken(token string) (*types.SessionClaims, error)

	// RefreshToken issues a new access token from a refresh token.
	RefreshToken(refreshToken string) (*types.AuthToken, error)

	// ListIdentities returns registered identities for administrative
	// views, optionally filtered.
	ListIdentities(ctx context.Context, filters *types.IdentityFilters) ([]*types.Identity, error)
}

// IdentityRepository defines the identity-lookup capability backing the
// session service. Implementations must never expose password hashes.
type IdentityRepository interface {
	FindByCredentials(ctx context.Context, email, password string) (*types.Identity, error)
	GetByID(ctx context.Context, id string) (*types.Identity, error)
	GetByEmail(ctx context.Context, email string) (*types.Identity, error)
	Create(ctx context.Context, identity *types.Identity, password string) error
	List(ctx context.Context, filters *types.IdentityFilters) ([]*types.Identity, error)
}

// SessionStore persists at most one current identity across restarts
type SessionStore interface {
	Load(ctx context.Context) (*types.Identity, error)
	Save(ctx context.Context, identity *types.Identity) error
	Clear(ctx context.Context) error
	Close() error
}
