package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zimtrader/internal/domain"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/protected", okHandler, mw)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), testSecret)
	require.NoError(t, err)

	rec := doRequest(t, AuthMiddleware(testSecret), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareAcceptsCookie(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), testSecret)
	require.NoError(t, err)

	rec := doRequest(t, AuthMiddleware(testSecret), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	rec := doRequest(t, AuthMiddleware(testSecret), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "other-secret")
	require.NoError(t, err)

	rec := doRequest(t, AuthMiddleware(testSecret), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type staticResolver struct {
	roles map[uuid.UUID][]domain.Role
}

func (r staticResolver) HasAnyRole(ctx context.Context, userID uuid.UUID, roles ...domain.Role) (bool, error) {
	for _, held := range r.roles[userID] {
		for _, want := range roles {
			if held == want {
				return true, nil
			}
		}
	}
	return false, nil
}

func roleGatedRequest(t *testing.T, userID uuid.UUID, resolver RoleResolver, roles ...domain.Role) *httptest.ResponseRecorder {
	t.Helper()
	token, err := GenerateJWT(userID, testSecret)
	require.NoError(t, err)

	e := echo.New()
	e.GET("/gated", okHandler, AuthMiddleware(testSecret), RequireAnyRole(resolver, roles...))

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAnyRole(t *testing.T) {
	admin := uuid.New()
	trader := uuid.New()
	nobody := uuid.New()
	resolver := staticResolver{roles: map[uuid.UUID][]domain.Role{
		admin:  {domain.RoleAdmin},
		trader: {domain.RoleTrader},
	}}

	rec := roleGatedRequest(t, admin, resolver, domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = roleGatedRequest(t, trader, resolver, domain.RoleAdmin, domain.RoleCompliance)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// a user with no role rows is denied, not errored
	rec = roleGatedRequest(t, nobody, resolver, domain.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
