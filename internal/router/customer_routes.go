package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/handler"
	"github.com/dmelo/dealership-api/internal/middleware"
)

// RegisterAccount registers the customer self-service endpoints under
// /account. All routes require a valid session with the customer role;
// each handler only ever touches the row belonging to the session, so
// no id appears in the paths.
func RegisterAccount(e *echo.Echo, h *handler.AccountHandler, secret string) {
	g := e.Group(
		"/account",
		middleware.SessionAuth(secret),
		middleware.RequireRole(middleware.RoleCustomer),
	)
	g.GET("", h.Profile)
	g.PUT("", h.UpdateProfile)
	g.PATCH("", h.UpdateProfile)
	g.POST("/password", h.ChangePassword)
	// Deletion demands the confirmation phrase in the body and refuses
	// accounts that already bought a vehicle.
	g.DELETE("", h.DeleteAccount)
}
