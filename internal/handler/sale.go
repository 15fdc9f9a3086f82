package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmelo/dealership-api/internal/model"
	"github.com/dmelo/dealership-api/internal/queue"
	"github.com/dmelo/dealership-api/internal/repository"
	queue_publisher "github.com/dmelo/dealership-api/internal/service"
)

// SaleHandler drives the sale lifecycle. Creating, rewriting and
// deleting a sale each run inside a single database transaction owned
// by the repository, so the sale row and the vehicle availability flag
// always move together.
type SaleHandler struct {
	Sales *repository.SaleRepo
}

func NewSaleHandler(s *repository.SaleRepo) *SaleHandler {
	return &SaleHandler{Sales: s}
}

// List handles GET /sales, newest first.
func (h *SaleHandler) List(c echo.Context) error {
	items, err := h.Sales.List(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Sales.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

type saleReq struct {
	CustomerID    uint64  `json:"customer_id" form:"customer_id"`
	VehicleID     uint64  `json:"vehicle_id" form:"vehicle_id"`
	EmployeeID    uint64  `json:"employee_id" form:"employee_id"`
	FinalPrice    float64 `json:"final_price" form:"final_price"`
	PaymentMethod *string `json:"payment_method" form:"payment_method"`
	Notes         *string `json:"notes" form:"notes"`
}

func (r saleReq) toModel() model.Sale {
	return model.Sale{
		CustomerID:    r.CustomerID,
		VehicleID:     r.VehicleID,
		EmployeeID:    r.EmployeeID,
		FinalPrice:    r.FinalPrice,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}
}

// Create handles POST /sales. When the seller field is omitted the
// authenticated employee is recorded as the seller. A completed sale is
// announced on the broker after the transaction commits; a publish
// failure never rolls back a sale that already happened.
func (h *SaleHandler) Create(c echo.Context) error {
	var req saleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EmployeeID == 0 {
		if uid, err := getUserID(c); err == nil {
			req.EmployeeID = uid
		}
	}
	s := req.toModel()
	if err := h.Sales.Create(c.Request().Context(), &s); err != nil {
		return repoError(c, err)
	}

	detail, err := h.Sales.GetByID(c.Request().Context(), s.ID)
	if err != nil {
		// The sale committed; report it even if the join lookup hiccuped.
		return c.JSON(http.StatusCreated, s)
	}
	h.announce(c, detail)
	return c.JSON(http.StatusCreated, detail)
}

// Update handles PUT /sales/:id.
func (h *SaleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req saleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s := req.toModel()
	if err := h.Sales.Update(c.Request().Context(), id, &s); err != nil {
		return repoError(c, err)
	}
	detail, err := h.Sales.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /sales/:id. Cancelling a sale puts the vehicle
// back on the lot; a sale that never existed is silently fine.
func (h *SaleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Sales.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Report handles GET /sales/report?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Either bound may be omitted for an open-ended range.
func (h *SaleHandler) Report(c echo.Context) error {
	var from, to *time.Time
	if s := c.QueryParam("from"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
		}
		from = &d
	}
	if s := c.QueryParam("to"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
		}
		// Inclusive upper bound: cover the whole day.
		d = d.Add(24*time.Hour - time.Nanosecond)
		to = &d
	}
	rep, err := h.Sales.Report(c.Request().Context(), from, to)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

// announce publishes the completed sale on the broker, best effort.
func (h *SaleHandler) announce(c echo.Context, d repository.SaleDetail) {
	ev := queue.SaleCompletedEvent{
		SaleID:       d.ID,
		CustomerID:   d.CustomerID,
		CustomerName: d.CustomerName,
		VehicleID:    d.VehicleID,
		VehicleBrand: d.VehicleBrand,
		VehicleModel: d.VehicleModel,
		VehicleYear:  d.VehicleYear,
		EmployeeID:   d.EmployeeID,
		EmployeeName: d.EmployeeName,
		FinalPrice:   d.FinalPrice,
		SoldAt:       d.SoldAt.UTC().Format(time.RFC3339),
	}
	if d.PaymentMethod != nil {
		ev.PaymentMethod = *d.PaymentMethod
	}
	if err := queue_publisher.PublishSaleCompleted(c.Request().Context(), ev); err != nil {
		c.Logger().Warnf("sale %d: publish failed: %v", d.ID, err)
	}
}
