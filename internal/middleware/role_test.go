package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRole(t *testing.T, req *http.Request, role interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	rec := runRole(t, req, RoleEmployee, RoleEmployee)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbidsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	rec := runRole(t, req, RoleCustomer, RoleEmployee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleBrowserRedirectsToCatalog(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	req.Header.Set("Accept", "text/html")
	rec := runRole(t, req, RoleCustomer, RoleEmployee)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vehicles", rec.Header().Get("Location"))
}

func TestRequireRoleMissingRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	rec := runRole(t, req, nil, RoleEmployee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
