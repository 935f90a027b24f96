package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"huellitas/internal/ports/auth"

	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	claims auth.Claims
	err    error
}

func (s stubVerifier) Verify(_ context.Context, _ string) (auth.Claims, error) {
	return s.claims, s.err
}

func TestAuthContext_BearerToken(t *testing.T) {
	mw := AuthContext(stubVerifier{claims: auth.Claims{UserID: "u1", Provider: "local"}}, false)

	var got auth.Claims
	h := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "u1", got.UserID)
}

func TestAuthContext_InvalidTokenFallsThroughWithoutClaims(t *testing.T) {
	mw := AuthContext(stubVerifier{err: errors.New("expired")}, false)

	called, hasClaims := false, false
	h := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		called = true
		_, hasClaims = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
	assert.False(t, hasClaims)
}

func TestAuthContext_DebugHeaderOnlyInDevMode(t *testing.T) {
	for _, dev := range []bool{true, false} {
		var got auth.Claims
		h := AuthContext(nil, dev)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got, _ = GetClaims(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Debug-User-ID", "dev-user")
		h.ServeHTTP(httptest.NewRecorder(), req)

		if dev {
			assert.Equal(t, "dev-user", got.UserID)
		} else {
			assert.Empty(t, got.UserID)
		}
	}
}

func TestRequireUser_WritesUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := RequireUser(rec, req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_authenticated")
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("bearer  abc"))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
}
