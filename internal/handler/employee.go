package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/config"
	"github.com/dmelo/dealership-api/internal/model"
	"github.com/dmelo/dealership-api/internal/repository"
	"github.com/dmelo/dealership-api/internal/utils"
)

// EmployeeHandler manages employee records. All routes require an
// employee session.
type EmployeeHandler struct {
	Cfg       config.Config
	Employees *repository.EmployeeRepo
}

func NewEmployeeHandler(cfg config.Config, em *repository.EmployeeRepo) *EmployeeHandler {
	return &EmployeeHandler{Cfg: cfg, Employees: em}
}

type employeeResp struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Title         string `json:"title"`
	AdmissionDate string `json:"admission_date"`
}

func toEmployeeResp(m model.Employee) employeeResp {
	return employeeResp{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Title:         m.Title,
		AdmissionDate: m.AdmissionDate.Format("2006-01-02"),
	}
}

// List handles GET /employees.
func (h *EmployeeHandler) List(c echo.Context) error {
	items, err := h.Employees.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	out := make([]employeeResp, 0, len(items))
	for _, m := range items {
		out = append(out, toEmployeeResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /employees/:id.
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Employees.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toEmployeeResp(m))
}

type employeeCreateReq struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email"`
	Password      string `json:"password" form:"password"`
	Title         string `json:"title" form:"title"`
	AdmissionDate string `json:"admission_date" form:"admission_date"` // YYYY-MM-DD, optional
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must have at least 6 characters"})
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
	}
	m := model.Employee{Name: req.Name, Email: req.Email, PasswordHash: hash, Title: req.Title}
	if req.AdmissionDate != "" {
		d, err := time.Parse("2006-01-02", req.AdmissionDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "admission_date must be YYYY-MM-DD"})
		}
		m.AdmissionDate = d
	}
	if err := h.Employees.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toEmployeeResp(m))
}

type employeeUpdateReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Title    *string `json:"title"`
	Password *string `json:"password"` // present = rotate credential
}

// Update handles PUT /employees/:id. Passing a password rotates the
// stored hash; omitting it leaves the credential alone.
func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req employeeUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := repository.EmployeePatch{Name: req.Name, Email: req.Email, Title: req.Title}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must have at least 6 characters"})
		}
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
		}
		patch.PasswordHash = &hash
	}
	if err := h.Employees.Update(c.Request().Context(), id, patch); err != nil {
		return repoError(c, err)
	}
	m, err := h.Employees.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toEmployeeResp(m))
}

// Delete handles DELETE /employees/:id. Employees that brokered sales
// stay on record and cannot be removed.
func (h *EmployeeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if uid, uidErr := getUserID(c); uidErr == nil && uid == id {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete your own account while logged in"})
	}
	if err := h.Employees.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
