package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Role values stored in the session token.
const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
)

// RequireRole enforces that the authenticated principal carries one of
// the allowed roles. It assumes SessionAuth ran earlier in the chain.
// A wrong-role request is sent to the public vehicle listing rather
// than an error page, so the existence of restricted areas is not
// revealed; non-HTML clients get a plain 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				if wantsHTML(c) {
					return c.Redirect(http.StatusSeeOther, "/vehicles")
				}
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
