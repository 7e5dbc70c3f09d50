package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, secret string, role Role) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test-user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func passthroughOK(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestMiddlewareIsPassthroughWithNoSecret(t *testing.T) {
	gate, err := NewGate("", testLogger())
	require.NoError(t, err)

	handler := gate.Middleware(http.HandlerFunc(passthroughOK))
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	gate, err := NewGate("secret", testLogger())
	require.NoError(t, err)

	handler := gate.Middleware(http.HandlerFunc(passthroughOK))
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsTokenSignedWithWrongSecret(t *testing.T) {
	gate, err := NewGate("secret", testLogger())
	require.NoError(t, err)

	token := signToken(t, "wrong-secret", RoleAdmin)
	handler := gate.Middleware(http.HandlerFunc(passthroughOK))
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareAllowsAdminAnyRoute(t *testing.T) {
	gate, err := NewGate("secret", testLogger())
	require.NoError(t, err)

	token := signToken(t, "secret", RoleAdmin)
	handler := gate.Middleware(http.HandlerFunc(passthroughOK))
	req := httptest.NewRequest(http.MethodDelete, "/workflows/w1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareForbidsViewerFromMutatingRoutes(t *testing.T) {
	gate, err := NewGate("secret", testLogger())
	require.NoError(t, err)

	token := signToken(t, "secret", RoleViewer)
	handler := gate.Middleware(http.HandlerFunc(passthroughOK))
	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewareAllowsViewerReadOnTasks(t *testing.T) {
	gate, err := NewGate("secret", testLogger())
	require.NoError(t, err)

	token := signToken(t, "secret", RoleViewer)
	handler := gate.Middleware(http.HandlerFunc(passthroughOK))
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareForbidsOperatorFromWorkflowRoutes(t *testing.T) {
	gate, err := NewGate("secret", testLogger())
	require.NoError(t, err)

	token := signToken(t, "secret", RoleOperator)
	handler := gate.Middleware(http.HandlerFunc(passthroughOK))
	req := httptest.NewRequest(http.MethodGet, "/workflows", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClaimsFromContextAfterSuccessfulAuth(t *testing.T) {
	gate, err := NewGate("secret", testLogger())
	require.NoError(t, err)

	token := signToken(t, "secret", RoleAdmin)
	var seenRole Role
	handler := gate.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		seenRole = claims.Role
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, RoleAdmin, seenRole)
}
