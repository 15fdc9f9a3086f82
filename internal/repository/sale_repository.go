package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmelo/dealership-api/internal/model"
)

// SaleRepo provides CRUD operations for sales and owns the
// sale/vehicle consistency workflow. Creating a sale verifies the
// vehicle is available and flips its flag to false; deleting a sale
// flips it back; editing a sale that swaps vehicles releases the old
// one and reserves the new one. Each workflow runs inside a single
// transaction with the vehicle row locked (SELECT ... FOR UPDATE)
// between the availability check and the flag write, so two concurrent
// sales of the same vehicle cannot both succeed.
type SaleRepo struct{ db *sql.DB }

// NewSaleRepo returns a SaleRepo bound to the given database.
func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{db: db} }

// DB exposes the underlying handle for callers that need to open their
// own transactions.
func (r *SaleRepo) DB() *sql.DB { return r.db }

func validateSale(s *model.Sale) error {
	if s.CustomerID == 0 || s.VehicleID == 0 || s.EmployeeID == 0 {
		return validationf("customer, vehicle and employee are required")
	}
	if s.FinalPrice <= 0 {
		return validationf("final price must be greater than zero")
	}
	return nil
}

// lockVehicleAvailability reads the availability flag of a vehicle
// inside tx, taking a row lock so the flag cannot change between this
// read and a later write in the same transaction. Absent or
// unavailable vehicles both yield ErrVehicleUnavailable.
func lockVehicleAvailability(ctx context.Context, tx *sql.Tx, vehicleID uint64) error {
	var available bool
	err := tx.QueryRowContext(ctx,
		"SELECT available FROM vehicles WHERE id = ? FOR UPDATE", vehicleID).Scan(&available)
	if err == sql.ErrNoRows {
		return ErrVehicleUnavailable
	}
	if err != nil {
		return err
	}
	if !available {
		return ErrVehicleUnavailable
	}
	return nil
}

// Create validates the sale, then atomically inserts the row and marks
// the vehicle unavailable. On success s.ID and s.SoldAt are populated.
// No writes happen when the vehicle is absent or already sold.
func (r *SaleRepo) Create(ctx context.Context, s *model.Sale) error {
	if err := validateSale(s); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockVehicleAvailability(ctx, tx, s.VehicleID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO sales (customer_id, vehicle_id, employee_id, final_price, payment_method, notes) VALUES (?,?,?,?,?,?)",
		s.CustomerID, s.VehicleID, s.EmployeeID, s.FinalPrice, s.PaymentMethod, s.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	if _, err := tx.ExecContext(ctx,
		"UPDATE vehicles SET available = FALSE WHERE id = ?", s.VehicleID); err != nil {
		return err
	}

	// Query back the generated timestamp so the caller sees the stored row.
	if err := tx.QueryRowContext(ctx,
		"SELECT sold_at FROM sales WHERE id = ?", s.ID).Scan(&s.SoldAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update rewrites an existing sale. When the vehicle reference changes,
// the old vehicle is released and the new one is checked and reserved,
// all inside the same transaction as the row update, so a failure at
// any step leaves both vehicles and the sale untouched. An unchanged
// vehicle reference skips the release/reserve steps entirely.
func (r *SaleRepo) Update(ctx context.Context, id uint64, s *model.Sale) error {
	if err := validateSale(s); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var currentVehicleID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE", id).Scan(&currentVehicleID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if currentVehicleID != s.VehicleID {
		if _, err := tx.ExecContext(ctx,
			"UPDATE vehicles SET available = TRUE WHERE id = ?", currentVehicleID); err != nil {
			return err
		}
		if err := lockVehicleAvailability(ctx, tx, s.VehicleID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE vehicles SET available = FALSE WHERE id = ?", s.VehicleID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE sales SET customer_id = ?, vehicle_id = ?, employee_id = ?, final_price = ?, payment_method = ?, notes = ? WHERE id = ?",
		s.CustomerID, s.VehicleID, s.EmployeeID, s.FinalPrice, s.PaymentMethod, s.Notes, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	s.ID = id
	return nil
}

// Delete removes a sale and returns its vehicle to the available pool,
// atomically. A missing sale is a no-op, not an error.
func (r *SaleRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var vehicleID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT vehicle_id FROM sales WHERE id = ? FOR UPDATE", id).Scan(&vehicleID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM sales WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE vehicles SET available = TRUE WHERE id = ?", vehicleID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SaleDetail is a sale joined with the names a listing needs, so the
// presentation layer never issues follow-up queries per row.
type SaleDetail struct {
	ID            uint64    `json:"id"`
	SoldAt        time.Time `json:"sold_at"`
	FinalPrice    float64   `json:"final_price"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CustomerID    uint64    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerCPF   string    `json:"customer_cpf"`
	VehicleID     uint64    `json:"vehicle_id"`
	VehicleBrand  string    `json:"vehicle_brand"`
	VehicleModel  string    `json:"vehicle_model"`
	VehicleYear   int       `json:"vehicle_year"`
	EmployeeID    uint64    `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	EmployeeTitle string    `json:"employee_title"`
}

const saleDetailQuery = `SELECT s.id, s.sold_at, s.final_price, s.payment_method, s.notes,
       c.id, c.name, c.cpf,
       v.id, v.brand, v.model, v.year,
       e.id, e.name, e.title
FROM sales s
JOIN customers c ON c.id = s.customer_id
JOIN vehicles v ON v.id = s.vehicle_id
JOIN employees e ON e.id = s.employee_id`

func scanSaleDetail(row interface{ Scan(...interface{}) error }) (SaleDetail, error) {
	var d SaleDetail
	var pay, notes sql.NullString
	err := row.Scan(&d.ID, &d.SoldAt, &d.FinalPrice, &pay, &notes,
		&d.CustomerID, &d.CustomerName, &d.CustomerCPF,
		&d.VehicleID, &d.VehicleBrand, &d.VehicleModel, &d.VehicleYear,
		&d.EmployeeID, &d.EmployeeName, &d.EmployeeTitle)
	if err != nil {
		return d, err
	}
	if pay.Valid {
		p := pay.String
		d.PaymentMethod = &p
	}
	if notes.Valid {
		n := notes.String
		d.Notes = &n
	}
	return d, nil
}

// List returns all sales with customer, vehicle and employee details,
// newest first.
func (r *SaleRepo) List(ctx context.Context) ([]SaleDetail, error) {
	rows, err := r.db.QueryContext(ctx, saleDetailQuery+" ORDER BY s.sold_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SaleDetail, 0)
	for rows.Next() {
		d, err := scanSaleDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID returns one sale with its joined details.
func (r *SaleRepo) GetByID(ctx context.Context, id uint64) (SaleDetail, error) {
	d, err := scanSaleDetail(r.db.QueryRowContext(ctx, saleDetailQuery+" WHERE s.id = ?", id))
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	return d, err
}

// Report aggregates sale count and revenue, optionally bounded by a
// closed date range. Nil bounds are open ends.
type Report struct {
	TotalSales int     `json:"total_sales"`
	TotalValue float64 `json:"total_value"`
}

func (r *SaleRepo) Report(ctx context.Context, from, to *time.Time) (Report, error) {
	q := "SELECT COUNT(*), COALESCE(SUM(final_price), 0) FROM sales"
	args := make([]interface{}, 0, 2)
	switch {
	case from != nil && to != nil:
		q += " WHERE sold_at BETWEEN ? AND ?"
		args = append(args, *from, *to)
	case from != nil:
		q += " WHERE sold_at >= ?"
		args = append(args, *from)
	case to != nil:
		q += " WHERE sold_at <= ?"
		args = append(args, *to)
	}
	var rep Report
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&rep.TotalSales, &rep.TotalValue)
	return rep, err
}
