package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-signing-key"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestSignIn(t *testing.T) {
	var gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		gotAPIKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "tok-abc",
			"refresh_token": "ref-abc",
			"expires_in": 3600,
			"user": {"id": "u1", "email": "u1@example.com"}
		}`))
	}))
	defer srv.Close()

	p := NewGoTrueProvider(srv.URL, "anon-key", "")
	session, err := p.SignIn(context.Background(), "u1@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "tok-abc", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
	assert.Greater(t, session.ExpiresAt, time.Now().Unix())
}

func TestSignInBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	p := NewGoTrueProvider(srv.URL, "anon-key", "")
	_, err := p.SignIn(context.Background(), "u1@example.com", "wrong")
	assert.ErrorIs(t, err, port.ErrUnauthorized)
}

func TestSignInNotConfigured(t *testing.T) {
	p := NewGoTrueProvider("", "", "")
	_, err := p.SignIn(context.Background(), "u1@example.com", "pw")
	assert.ErrorIs(t, err, port.ErrNotConfigured)
}

func TestValidateTokenLocal(t *testing.T) {
	p := NewGoTrueProvider("http://unused", "anon-key", testSecret)

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub":   "u1",
		"email": "u1@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	user, err := p.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "u1@example.com", user.Email)
}

func TestValidateTokenLocalRejectsBadSignature(t *testing.T) {
	p := NewGoTrueProvider("http://unused", "anon-key", testSecret)

	token := signedToken(t, "a-different-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := p.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, port.ErrTokenInvalid)
}

func TestValidateTokenLocalRejectsExpired(t *testing.T) {
	p := NewGoTrueProvider("http://unused", "anon-key", testSecret)

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := p.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, port.ErrTokenInvalid)
}

func TestValidateTokenLocalRejectsMissingSubject(t *testing.T) {
	p := NewGoTrueProvider("http://unused", "anon-key", testSecret)

	token := signedToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := p.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, port.ErrTokenInvalid)
}

func TestValidateTokenRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id": "u1", "email": "u1@example.com"}`))
	}))
	defer srv.Close()

	p := NewGoTrueProvider(srv.URL, "anon-key", "")
	user, err := p.ValidateToken(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestValidateTokenRemoteRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewGoTrueProvider(srv.URL, "anon-key", "")
	_, err := p.ValidateToken(context.Background(), "stale")
	assert.ErrorIs(t, err, port.ErrTokenInvalid)
}

func TestGetRole(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/rpc/fn_bmp_get_my_role", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{
			"authorized": true,
			"role": "partner",
			"partner_slug": "hahmshout",
			"is_admin": false,
			"display_name": "Hahmshout",
			"clients": [
				{"partner_slug": "hahmshout", "client_slug": "samsung-hospital", "client_name": "Samsung Hospital"}
			]
		}`))
	}))
	defer srv.Close()

	p := NewGoTrueProvider(srv.URL, "anon-key", "")
	record, err := p.GetRole(context.Background(), "tok-abc")
	require.NoError(t, err)

	// The session token, not the anon key, must be the bearer credential.
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.True(t, record.Authorized)
	assert.Equal(t, "hahmshout", record.PartnerSlug)
	require.Len(t, record.Clients, 1)
	assert.Equal(t, "samsung-hospital", record.Clients[0].ClientSlug)
	assert.True(t, record.CanAccess("hahmshout", "samsung-hospital"))
}

func TestGetRoleUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewGoTrueProvider(srv.URL, "anon-key", "")
	_, err := p.GetRole(context.Background(), "tok-abc")
	assert.ErrorIs(t, err, port.ErrUpstream)
}
