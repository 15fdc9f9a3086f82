package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/repository"
)

// getUserID extracts the authenticated user id placed in the context by
// the session middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// repoError translates the repository error taxonomy into an HTTP
// response: validation failures are 400, missing records 404, conflicts
// (duplicate CPF/email, unavailable vehicle, blocked delete) 409, and
// anything else a generic 500 that reveals nothing about the store.
func repoError(c echo.Context, err error) error {
	switch {
	case repository.IsValidation(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrVehicleUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle is not available"})
	case errors.Is(err, repository.ErrHasSales):
		return c.JSON(http.StatusConflict, echo.Map{"error": "record has sales attached and cannot be deleted"})
	case errors.Is(err, repository.ErrCPFExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "cpf already registered"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting state"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
