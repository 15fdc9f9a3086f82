package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/dmelo/dealership-api/internal/handler"    // handlers implement the business logic
	"github.com/dmelo/dealership-api/internal/middleware" // session and role middleware
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems probe this endpoint to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the public vehicle catalog. These routes
// apply no session middleware so guests can browse the inventory; the
// optional cache middleware fronts them since listings change far less
// often than they are read.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, uploadDir string, cache echo.MiddlewareFunc) {
	g := e.Group("")
	if cache != nil {
		g.Use(cache)
	}
	// Full inventory, or only sellable vehicles with ?available=true.
	g.GET("/vehicles", h.List)
	// Single vehicle detail by id.
	g.GET("/vehicles/:id", h.Get)
	// Stored vehicle photos are served straight from the configured
	// upload directory, the same one PhotoStore writes into.
	e.Static("/uploads", uploadDir)
}

// RegisterAuth registers login, registration and logout, plus the
// authenticated /me endpoint. The rate limiter guards the credential
// endpoints against brute force when Redis is configured.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, secret string, limit echo.MiddlewareFunc) {
	g := e.Group("/auth")
	if limit != nil {
		g.Use(limit)
	}
	// Email + password login for both customers and employees.
	g.POST("/login", a.Login)
	// Customer self-registration.
	g.POST("/register", a.RegisterCustomer)
	// Logout only clears the cookie, so no session is required.
	g.POST("/logout", a.Logout)

	auth := e.Group("", middleware.SessionAuth(secret))
	// Echo the authenticated identity back to the client.
	auth.GET("/me", a.Me)
}
