package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/handler"    // staff handlers
	"github.com/dmelo/dealership-api/internal/middleware" // session + role middlewares
)

// RegisterEmployee registers the staff-scoped endpoints. All routes
// require a valid session with the employee role; customers and guests
// are redirected or refused by the middleware before any handler runs.
func RegisterEmployee(e *echo.Echo, cu *handler.CustomerHandler, em *handler.EmployeeHandler, v *handler.VehicleHandler, s *handler.SaleHandler, a *handler.AuthHandler, secret string) {
	g := e.Group(
		"",
		middleware.SessionAuth(secret),
		middleware.RequireRole(middleware.RoleEmployee),
	)

	// ---- Customers ----
	g.GET("/customers", cu.List)
	g.GET("/customers/:id", cu.Get)
	g.POST("/customers", cu.Create)
	g.PUT("/customers/:id", cu.Update)
	g.PATCH("/customers/:id", cu.Update) // partial updates via PATCH as well
	g.DELETE("/customers/:id", cu.Delete)

	// ---- Employees ----
	g.GET("/employees", em.List)
	g.GET("/employees/:id", em.Get)
	g.POST("/employees", em.Create)
	g.PUT("/employees/:id", em.Update)
	g.PATCH("/employees/:id", em.Update)
	g.DELETE("/employees/:id", em.Delete)
	// Registering a staff account requires an existing staff session.
	g.POST("/auth/register/employee", a.RegisterEmployee)

	// ---- Vehicles ----
	// Reads live on the public catalog; only mutations need staff.
	g.POST("/vehicles", v.Create)
	g.PUT("/vehicles/:id", v.Update)
	g.PATCH("/vehicles/:id", v.Update)
	g.DELETE("/vehicles/:id", v.Delete)

	// ---- Sales ----
	// The report route must be registered before the :id route would
	// otherwise swallow it, but Echo matches static segments first so
	// the order here is cosmetic.
	g.GET("/sales/report", s.Report)
	g.GET("/sales", s.List)
	g.GET("/sales/:id", s.Get)
	g.POST("/sales", s.Create)
	g.PUT("/sales/:id", s.Update)
	g.PATCH("/sales/:id", s.Update)
	g.DELETE("/sales/:id", s.Delete)
}
