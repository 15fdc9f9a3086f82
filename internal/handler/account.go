package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/config"
	"github.com/dmelo/dealership-api/internal/repository"
	"github.com/dmelo/dealership-api/internal/utils"
)

// deleteConfirmation is the literal phrase a customer must type to
// erase their own account.
const deleteConfirmation = "EXCLUIR"

// AccountHandler serves the customer self-service surface: profile,
// password change and account deletion. Every route requires a
// customer session.
type AccountHandler struct {
	Cfg       config.Config
	Customers *repository.CustomerRepo
}

func NewAccountHandler(cfg config.Config, cu *repository.CustomerRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Customers: cu}
}

// Profile handles GET /account.
func (h *AccountHandler) Profile(c echo.Context) error {
	id, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	m, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResp(m))
}

type profileUpdateReq struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// UpdateProfile handles PUT /account. The CPF is immutable from the
// self-service side; only an employee may correct it.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	id, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := repository.CustomerPatch{
		Name: req.Name, Phone: req.Phone, Email: req.Email, Address: req.Address,
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

type changePasswordReq struct {
	Current string `json:"current_password" form:"current_password"`
	New     string `json:"new_password" form:"new_password"`
	Confirm string `json:"confirm_password" form:"confirm_password"`
}

// ChangePassword handles POST /account/password. The current password
// must verify against the stored hash before the new one is written.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	id, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.New) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must have at least 6 characters"})
	}
	if req.New != req.Confirm {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password confirmation does not match"})
	}

	m, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	var stored string
	if m.PasswordHash != nil {
		stored = *m.PasswordHash
	}
	if !utils.VerifyPassword(stored, req.Current) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "current password is incorrect"})
	}

	hash, err := utils.HashPassword(req.New, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update password"})
	}
	patch := repository.CustomerPatch{PasswordHash: &hash}
	if err := h.Customers.Update(c.Request().Context(), id, patch); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type deleteAccountReq struct {
	Confirmation string `json:"confirmation" form:"confirmation"`
}

// DeleteAccount handles DELETE /account. The request body must carry
// the exact confirmation phrase; accounts with purchase history are
// refused the same way employee-side deletion is.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req deleteAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Confirmation != deleteConfirmation {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type EXCLUIR to confirm account deletion"})
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}
