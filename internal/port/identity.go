package port

import (
	"context"

	"github.com/bmp-ai/brandhub/internal/domain"
)

// IdentityProvider abstracts the external identity/session provider.
// Implementations authenticate credentials, validate session tokens, and
// expose the role-lookup procedure. All methods are remote calls; callers
// must treat any error as "no valid session" (fail closed).
type IdentityProvider interface {
	// SignIn exchanges credentials for a session.
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)

	// ValidateToken checks a session token and returns the identity it is
	// bound to. Invalid, expired, or unverifiable tokens return an error.
	ValidateToken(ctx context.Context, token string) (*domain.SessionUser, error)

	// GetRole invokes the provider's role-lookup procedure with the given
	// session token as bearer credential.
	GetRole(ctx context.Context, token string) (*domain.RoleRecord, error)

	// SignOut revokes the session behind the given token.
	SignOut(ctx context.Context, token string) error
}
