// Package auth implements port.IdentityProvider against a GoTrue-compatible
// identity service (password grant, user-info endpoint, and a role-lookup
// RPC exposed over the REST surface).
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/golang-jwt/jwt/v5"
)

// roleLookupFn is the provider-side procedure returning the caller's role
// record for the session attached as bearer credential.
const roleLookupFn = "fn_bmp_get_my_role"

// GoTrueProvider talks to the identity provider over HTTP.
type GoTrueProvider struct {
	baseURL    string
	anonKey    string
	jwtSecret  string // optional: verify tokens locally instead of calling the provider
	httpClient *http.Client
}

// NewGoTrueProvider creates an identity provider client.
// jwtSecret may be empty; tokens are then validated with a remote user-info
// call on every check.
func NewGoTrueProvider(baseURL, anonKey, jwtSecret string) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL:    baseURL,
		anonKey:    anonKey,
		jwtSecret:  jwtSecret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SignIn exchanges credentials for a session via the password grant.
func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if p.baseURL == "" || p.anonKey == "" {
		return nil, fmt.Errorf("sign in: %w", port.ErrNotConfigured)
	}
	payload := map[string]string{"email": email, "password": password}

	body, status, err := p.post(ctx, "/auth/v1/token?grant_type=password", "", payload)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, fmt.Errorf("sign in: %w", port.ErrUnauthorized)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("sign in: provider status %d: %w", status, port.ErrUpstream)
	}

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
		ExpiresAt    int64  `json:"expires_at"`
		User         struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("sign in decode: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("sign in: %w", port.ErrUnauthorized)
	}

	expiresAt := resp.ExpiresAt
	if expiresAt == 0 {
		expiresAt = time.Now().Unix() + resp.ExpiresIn
	}

	return &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         domain.SessionUser{ID: resp.User.ID, Email: resp.User.Email},
	}, nil
}

// ValidateToken checks a session token. With a configured JWT secret the
// check is local (HS256 signature + expiry); otherwise the provider's
// user-info endpoint is called. Any failure means no valid session.
func (p *GoTrueProvider) ValidateToken(ctx context.Context, token string) (*domain.SessionUser, error) {
	if token == "" {
		return nil, port.ErrTokenInvalid
	}
	if p.jwtSecret != "" {
		return p.validateLocal(token)
	}
	return p.validateRemote(ctx, token)
}

func (p *GoTrueProvider) validateLocal(token string) (*domain.SessionUser, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(p.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", port.ErrTokenInvalid, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, port.ErrTokenInvalid
	}
	email, _ := claims["email"].(string)
	return &domain.SessionUser{ID: sub, Email: email}, nil
}

func (p *GoTrueProvider) validateRemote(ctx context.Context, token string) (*domain.SessionUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("validate token: provider status %d: %w", resp.StatusCode, port.ErrTokenInvalid)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("validate token decode: %w", err)
	}
	if user.ID == "" {
		return nil, port.ErrTokenInvalid
	}
	return &domain.SessionUser{ID: user.ID, Email: user.Email}, nil
}

// GetRole invokes the role-lookup procedure with the session token as bearer
// credential. The token must be passed in by the caller, never re-derived
// from shared state.
func (p *GoTrueProvider) GetRole(ctx context.Context, token string) (*domain.RoleRecord, error) {
	body, status, err := p.post(ctx, "/rest/v1/rpc/"+roleLookupFn, token, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("role lookup: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("role lookup: provider status %d: %w", status, port.ErrUpstream)
	}

	var record domain.RoleRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("role lookup decode: %w", err)
	}
	return &record, nil
}

// SignOut revokes the session. Best effort: a failed revocation still ends
// the session locally (the cookie is cleared by the caller).
func (p *GoTrueProvider) SignOut(ctx context.Context, token string) error {
	_, status, err := p.post(ctx, "/auth/v1/logout", token, nil)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if status >= http.StatusInternalServerError {
		return fmt.Errorf("sign out: provider status %d: %w", status, port.ErrUpstream)
	}
	return nil
}

// post is a helper for POST requests to the provider (with optional bearer token).
func (p *GoTrueProvider) post(ctx context.Context, path, token string, payload any) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal payload: %w", err)
		}
		reader = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (p *GoTrueProvider) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "Bearer "+p.anonKey)
	}
}
