package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/config"
	"github.com/dmelo/dealership-api/internal/middleware"
	"github.com/dmelo/dealership-api/internal/model"
	"github.com/dmelo/dealership-api/internal/repository"
	"github.com/dmelo/dealership-api/internal/utils"
)

// AuthHandler bundles dependencies for login, registration and logout.
type AuthHandler struct {
	Cfg       config.Config
	Customers *repository.CustomerRepo
	Employees *repository.EmployeeRepo
}

func NewAuthHandler(cfg config.Config, cu *repository.CustomerRepo, em *repository.EmployeeRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Customers: cu, Employees: em}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Remember bool   `json:"remember" form:"remember"`
}

type registerCustomerReq struct {
	Name            string `json:"name" form:"name"`
	CPF             string `json:"cpf" form:"cpf"`
	Phone           string `json:"phone" form:"phone"`
	Email           string `json:"email" form:"email"`
	Address         string `json:"address" form:"address"`
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type registerEmployeeReq struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Title           string `json:"title" form:"title"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type authResp struct {
	User    utils.Identity `json:"user"`
	Token   string         `json:"token"`
	Expires time.Time      `json:"expires"`
}

// Login authenticates a principal against the customer table first,
// falling back to the employee table. Both misses, and any password
// mismatch, produce the same generic "invalid credentials" answer so an
// attacker cannot probe which accounts exist. A successful login
// returns the identity and sets the session cookie; remember=true
// stretches the expiry to the configured number of days.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ttl := time.Duration(h.Cfg.SessionTTLMin) * time.Minute
	if req.Remember {
		ttl = time.Duration(h.Cfg.RememberTTLDays) * 24 * time.Hour
	}
	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, id, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	setSessionCookie(c, tok)
	return c.JSON(http.StatusOK, authResp{User: id, Token: tok.Token, Expires: tok.Exp})
}

var errInvalidCredentials = errors.New("invalid credentials")

// authenticate resolves email+password to an identity. Customer lookup
// runs first; a customer row without a stored hash is treated as a
// failed match, not an error, before falling through to employees.
func (h *AuthHandler) authenticate(ctx context.Context, email, password string) (utils.Identity, error) {
	cust, err := h.Customers.GetByEmail(ctx, email)
	if err == nil {
		hash := ""
		if cust.PasswordHash != nil {
			hash = *cust.PasswordHash
		}
		if utils.VerifyPassword(hash, password) {
			return utils.Identity{
				UserID: cust.ID,
				Name:   cust.Name,
				Email:  cust.Email,
				Role:   middleware.RoleCustomer,
			}, nil
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return utils.Identity{}, err
	}

	emp, err := h.Employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Identity{}, errInvalidCredentials
		}
		return utils.Identity{}, err
	}
	if !utils.VerifyPassword(emp.PasswordHash, password) {
		return utils.Identity{}, errInvalidCredentials
	}
	return utils.Identity{
		UserID: emp.ID,
		Name:   emp.Name,
		Email:  emp.Email,
		Role:   middleware.RoleEmployee,
		Title:  emp.Title,
	}, nil
}

// RegisterCustomer handles self-registration. Name, CPF, email and
// password are required; the password must be at least six characters
// and match its confirmation. The CPF unique index turns duplicates
// into a 409.
func (h *AuthHandler) RegisterCustomer(c echo.Context) error {
	var req registerCustomerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.CPF) == "" ||
		req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, cpf, email and password are required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must have at least 6 characters"})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = req.Email
	}
	cust := model.Customer{
		Name:         req.Name,
		CPF:          req.CPF,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		Username:     &username,
		PasswordHash: &hash,
	}
	if err := h.Customers.Create(ctx, &cust); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": cust.ID, "name": cust.Name, "email": cust.Email})
}

// RegisterEmployee creates an employee account. Title stands in for the
// customer's CPF; there is no uniqueness constraint on it, only on the
// login email.
func (h *AuthHandler) RegisterEmployee(c echo.Context) error {
	var req registerEmployeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if strings.TrimSpace(req.Name) == "" || req.Email == "" ||
		strings.TrimSpace(req.Title) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email, title and password are required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must have at least 6 characters"})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	emp := model.Employee{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Title:        req.Title,
	}
	if err := h.Employees.Create(ctx, &emp); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": emp.ID, "name": emp.Name, "email": emp.Email, "title": emp.Title})
}

// Logout clears the session cookie unconditionally. The token itself is
// stateless, so clearing the cookie is all there is to forget.
func (h *AuthHandler) Logout(c echo.Context) error {
	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the authenticated identity (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"name":    c.Get("name"),
		"role":    c.Get("role"),
		"title":   c.Get("title"),
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func setSessionCookie(c echo.Context, tok utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
