package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "intrak/internal/errors"
	"intrak/internal/model"
)

func serve(t *testing.T, mw []echo.MiddlewareFunc, header string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return c, h(c)
}

func statusOf(t *testing.T, err error) (int, string) {
	t.Helper()
	require.Error(t, err)
	var he *apperrors.HTTPError
	require.ErrorAs(t, err, &he)
	return he.StatusCode, he.Code
}

func TestJWTMiddleware(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	clock := &fakeClock{t: issuedAt}
	s := newTestJWTService(t, clock)
	expired, err := s.Issue(testIdentity())
	require.NoError(t, err)
	clock.t = time.Now()

	valid, err := s.Issue(testIdentity())
	require.NoError(t, err)

	t.Run("valid token stores claims", func(t *testing.T) {
		c, err := serve(t, []echo.MiddlewareFunc{JWTMiddleware(s)}, "Bearer "+valid)
		require.NoError(t, err)

		claims, ok := ClaimsFromContext(c)
		require.True(t, ok)
		assert.Equal(t, testIdentity(), claims.Identity())
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "TOKEN_MISSING"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "TOKEN_MISSING"},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, []echo.MiddlewareFunc{JWTMiddleware(s)}, tt.header)

			status, code := statusOf(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	s := newTestJWTService(t, nil)

	tokenFor := func(role model.Role) string {
		id := testIdentity()
		id.Role = role
		token, err := s.Issue(id)
		require.NoError(t, err)
		return "Bearer " + token
	}

	tests := []struct {
		name     string
		allowed  []model.Role
		role     model.Role
		wantCode string
	}{
		{"coordinator allowed", []model.Role{model.RoleCoordinator}, model.RoleCoordinator, ""},
		{"one of many", []model.Role{model.RoleInstructor, model.RoleCoordinator}, model.RoleInstructor, ""},
		{"student forbidden", []model.Role{model.RoleCoordinator}, model.RoleStudent, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serve(t, []echo.MiddlewareFunc{JWTMiddleware(s), RequireRole(tt.allowed...)}, tokenFor(tt.role))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			status, code := statusOf(t, err)
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}

	t.Run("without jwt middleware", func(t *testing.T) {
		_, err := serve(t, []echo.MiddlewareFunc{RequireRole(model.RoleStudent)}, "")

		status, code := statusOf(t, err)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "TOKEN_MISSING", code)
	})
}
