package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
)

// AuthService owns session establishment: sign-in, sign-out, and the
// bootstrap resolution of the current session into an AuthState.
type AuthService struct {
	identity port.IdentityProvider
	timeout  time.Duration
}

// NewAuthService creates a new authentication service. The timeout bounds
// every bootstrap resolution so a slow provider never freezes callers.
func NewAuthService(identity port.IdentityProvider, timeout time.Duration) *AuthService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AuthService{identity: identity, timeout: timeout}
}

// SignInResult is the outcome of a credential sign-in.
type SignInResult struct {
	Session    *domain.Session  `json:"session"`
	State      domain.AuthState `json:"state"`
	RedirectTo string           `json:"redirect_to,omitempty"`
}

// SignIn authenticates credentials and resolves the role record.
//
// The role lookup uses the access token from the sign-in response directly.
// Re-reading a shared session store here races the store update and can
// observe a stale or missing session.
func (s *AuthService) SignIn(ctx context.Context, email, password, redirect string) (*SignInResult, error) {
	session, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return nil, fmt.Errorf("sign in: %w", port.ErrUnauthorized)
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	state := s.resolveRole(ctx, session.AccessToken, &session.User)

	result := &SignInResult{
		Session:    session,
		State:      state,
		RedirectTo: redirectTarget(state, redirect),
	}

	slog.Info("user signed in", "user_id", session.User.ID, "status", state.Status)
	return result, nil
}

// SignOut revokes the session. Revocation failures are logged, not fatal:
// the caller clears its local credential regardless.
func (s *AuthService) SignOut(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.identity.SignOut(ctx, token); err != nil {
		slog.Warn("sign out revocation failed", "error", err)
	}
}

// Resolve establishes the AuthState for an existing session token. It is
// re-entrant: callers run it on every auth-state change. Resolution is
// bounded by the configured timeout, after which the best-known state is
// returned instead of hanging.
func (s *AuthService) Resolve(ctx context.Context, token string) domain.AuthState {
	if token == "" {
		return domain.AuthState{Status: domain.AuthUnauthenticated}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.identity.ValidateToken(ctx, token)
	if err != nil {
		// No valid session; fail closed.
		return domain.AuthState{Status: domain.AuthUnauthenticated}
	}

	return s.resolveRole(ctx, token, user)
}

// resolveRole runs the role lookup with the given token. Transport errors
// and authorized=false surface identically as the no-role state.
func (s *AuthService) resolveRole(ctx context.Context, token string, user *domain.SessionUser) domain.AuthState {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record, err := s.identity.GetRole(ctx, token)
	if err != nil || record == nil || !record.Authorized {
		if err != nil {
			slog.Warn("role lookup failed", "error", err)
		}
		return domain.AuthState{Status: domain.AuthNoRole, User: user}
	}

	return domain.AuthState{Status: domain.AuthHasRole, User: user, Role: record}
}

// redirectTarget picks the post-login destination: the redirect parameter
// verbatim when present, the home page for admins, the partner hub for
// partner roles.
func redirectTarget(state domain.AuthState, redirect string) string {
	if state.Status != domain.AuthHasRole {
		return ""
	}
	if redirect != "" {
		return redirect
	}
	if state.Role.IsAdmin {
		return "/"
	}
	if state.Role.PartnerSlug != "" {
		return "/" + state.Role.PartnerSlug
	}
	return ""
}
