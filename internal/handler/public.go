package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/repository"
)

// CatalogHandler serves the public vehicle catalog. No session is
// required; these are the routes the response cache fronts.
type CatalogHandler struct {
	Vehicles *repository.VehicleRepo
}

func NewCatalogHandler(v *repository.VehicleRepo) *CatalogHandler {
	return &CatalogHandler{Vehicles: v}
}

// List handles GET /vehicles. With ?available=true only sellable
// vehicles are returned; otherwise the whole inventory is listed so
// visitors can also browse what was already sold.
func (h *CatalogHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if c.QueryParam("available") == "true" {
		items, err := h.Vehicles.ListAvailable(ctx)
		if err != nil {
			return repoError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	}
	items, err := h.Vehicles.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /vehicles/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Vehicles.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}
