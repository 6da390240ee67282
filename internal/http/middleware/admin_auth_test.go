package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedAdminToken(t *testing.T, secret string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "admin-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runAdminJWT(secret, header string) (*httptest.ResponseRecorder, bool) {
	req := httptest.NewRequest(http.MethodPut, "/admin/settings/opening_hours", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	called := false
	AdminJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec, called
}

func TestAdminJWTDisabledWithoutSecret(t *testing.T) {
	rec, called := runAdminJWT("", "Bearer anything")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminJWTMissingHeader(t *testing.T) {
	rec, called := runAdminJWT("secret", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminJWTWrongSecret(t *testing.T) {
	token := signedAdminToken(t, "other-secret")
	rec, called := runAdminJWT("secret", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminJWTExpiredToken(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "admin-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	rec, called := runAdminJWT("secret", "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminJWTValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/admin/settings/opening_hours", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "secret"))
	rec := httptest.NewRecorder()

	AdminJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "admin-user", claims.Subject)
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
