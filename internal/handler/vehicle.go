package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/model"
	"github.com/dmelo/dealership-api/internal/repository"
	"github.com/dmelo/dealership-api/internal/storage"
)

// VehicleHandler covers the employee-facing inventory mutations.
// Vehicle forms arrive as multipart so a photo can ride along with the
// fields, which means manual form parsing instead of Bind.
type VehicleHandler struct {
	Vehicles *repository.VehicleRepo
	Photos   *storage.PhotoStore
}

func NewVehicleHandler(v *repository.VehicleRepo, p *storage.PhotoStore) *VehicleHandler {
	return &VehicleHandler{Vehicles: v, Photos: p}
}

// Create handles POST /vehicles (multipart/form-data).
func (h *VehicleHandler) Create(c echo.Context) error {
	var v model.Vehicle
	v.Brand = c.FormValue("brand")
	v.Model = c.FormValue("model")
	v.Color = c.FormValue("color")
	v.FuelType = c.FormValue("fuel_type")

	var err error
	if v.Year, err = formInt(c, "year"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must be a number"})
	}
	if v.Price, err = formFloat(c, "price"); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a number"})
	}
	if c.FormValue("mileage") != "" {
		if v.Mileage, err = formInt(c, "mileage"); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "mileage must be a number"})
		}
	}

	path, err := h.savePhoto(c)
	if err != nil {
		return photoError(c, err)
	}
	v.Photo = path

	if err := h.Vehicles.Create(c.Request().Context(), &v); err != nil {
		if path != nil {
			h.Photos.Remove(*path)
		}
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// Update handles PUT /vehicles/:id (multipart/form-data). Only the
// fields present in the form change; a new photo replaces and purges
// the previous file.
func (h *VehicleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var patch repository.VehiclePatch
	if s := c.FormValue("brand"); s != "" {
		patch.Brand = &s
	}
	if s := c.FormValue("model"); s != "" {
		patch.Model = &s
	}
	if s := c.FormValue("color"); s != "" {
		patch.Color = &s
	}
	if s := c.FormValue("fuel_type"); s != "" {
		patch.FuelType = &s
	}
	if s := c.FormValue("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must be a number"})
		}
		patch.Year = &n
	}
	if s := c.FormValue("price"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a number"})
		}
		patch.Price = &f
	}
	if s := c.FormValue("mileage"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "mileage must be a number"})
		}
		patch.Mileage = &n
	}
	if s := c.FormValue("available"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "available must be true or false"})
		}
		patch.Available = &b
	}

	// Fetch the current row first so a replaced photo can be purged
	// after the update lands.
	current, err := h.Vehicles.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}

	newPhoto, err := h.savePhoto(c)
	if err != nil {
		return photoError(c, err)
	}
	patch.Photo = newPhoto

	if err := h.Vehicles.Update(c.Request().Context(), id, patch); err != nil {
		if newPhoto != nil {
			h.Photos.Remove(*newPhoto)
		}
		return repoError(c, err)
	}
	if newPhoto != nil && current.Photo != nil {
		h.Photos.Remove(*current.Photo)
	}

	updated, err := h.Vehicles.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /vehicles/:id. Vehicles that appear in a sale
// are kept; the stored photo goes with the row.
func (h *VehicleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	photo, err := h.Vehicles.Delete(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	if photo != nil {
		h.Photos.Remove(*photo)
	}
	return c.NoContent(http.StatusNoContent)
}

// savePhoto stores the uploaded "photo" part if one was sent. A
// missing part is not an error; the vehicle simply has no picture.
func (h *VehicleHandler) savePhoto(c echo.Context) (*string, error) {
	fh, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, nil // no multipart body at all
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	path, err := h.Photos.Save(fh.Filename, src, fh.Size)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

func photoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrBadExtension):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo must be png, jpg, jpeg, gif or webp"})
	case errors.Is(err, storage.ErrTooLarge):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo exceeds the 5MB limit"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store photo"})
	}
}

func formInt(c echo.Context, field string) (int, error) {
	return strconv.Atoi(c.FormValue(field))
}

func formFloat(c echo.Context, field string) (float64, error) {
	return strconv.ParseFloat(c.FormValue(field), 64)
}
