package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/model"
	"github.com/dmelo/dealership-api/internal/repository"
)

// CustomerHandler exposes the employee-facing customer management
// endpoints. Self-service for customers lives in AccountHandler.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(cu *repository.CustomerRepo) *CustomerHandler {
	if cu == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{Customers: cu}
}

// customerResp hides the credential columns from every listing and
// detail response.
type customerResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	CPF     string `json:"cpf"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

func toCustomerResp(m model.Customer) customerResp {
	return customerResp{ID: m.ID, Name: m.Name, CPF: m.CPF, Phone: m.Phone, Email: m.Email, Address: m.Address}
}

// List handles GET /customers.
func (h *CustomerHandler) List(c echo.Context) error {
	items, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	out := make([]customerResp, 0, len(items))
	for _, m := range items {
		out = append(out, toCustomerResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResp(m))
}

type customerCreateReq struct {
	Name    string `json:"name" form:"name"`
	CPF     string `json:"cpf" form:"cpf"`
	Phone   string `json:"phone" form:"phone"`
	Email   string `json:"email" form:"email"`
	Address string `json:"address" form:"address"`
}

// Create handles POST /customers. Customers created this way carry no
// credentials; they can self-register later with the same CPF blocked
// by the unique index.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m := model.Customer{Name: req.Name, CPF: req.CPF, Phone: req.Phone, Email: req.Email, Address: req.Address}
	if err := h.Customers.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toCustomerResp(m))
}

type customerUpdateReq struct {
	Name    *string `json:"name"`
	CPF     *string `json:"cpf"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// Update handles PUT /customers/:id with partial semantics: absent
// fields keep their stored values.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req customerUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := repository.CustomerPatch{
		Name: req.Name, CPF: req.CPF, Phone: req.Phone, Email: req.Email, Address: req.Address,
	}
	if err := h.Customers.Update(c.Request().Context(), id, patch); err != nil {
		return repoError(c, err)
	}
	m, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResp(m))
}

// Delete handles DELETE /customers/:id. Customers with sales attached
// cannot be removed.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
