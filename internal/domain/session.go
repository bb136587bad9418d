package domain

// SessionUser is the identity bound to a session token.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the tokens issued by the identity provider after sign-in.
// The application only reads and forwards it; refresh and expiry are owned
// by the provider.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	ExpiresAt    int64       `json:"expires_at"`
	User         SessionUser `json:"user"`
}

// AuthStatus is the outcome of session bootstrap.
type AuthStatus string

const (
	// AuthUnauthenticated means no valid session exists.
	AuthUnauthenticated AuthStatus = "unauthenticated"
	// AuthNoRole means a session exists but the role lookup returned
	// authorized=false (or could not be reached; same outcome).
	AuthNoRole AuthStatus = "no_role"
	// AuthHasRole means a session exists and an authorized role was resolved.
	AuthHasRole AuthStatus = "has_role"
)

// AuthState is the resolved session + role state produced by bootstrap.
// Consumers must not trust Role unless Status == AuthHasRole.
type AuthState struct {
	Status AuthStatus   `json:"status"`
	User   *SessionUser `json:"user,omitempty"`
	Role   *RoleRecord  `json:"role,omitempty"`
}

// CanAccess delegates to the resolved role record, denying by default.
func (s AuthState) CanAccess(partner, client string) bool {
	if s.Status != AuthHasRole {
		return false
	}
	return s.Role.CanAccess(partner, client)
}

// UserContext is the authenticated user context injected into request handlers.
type UserContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
