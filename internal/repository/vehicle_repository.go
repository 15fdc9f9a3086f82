package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmelo/dealership-api/internal/model"
)

// Vehicle model years accepted by create and update.
const (
	minVehicleYear = 1900
	maxVehicleYear = 2025
)

// VehicleRepo provides CRUD operations for the vehicle inventory. The
// availability flag is mutated only by SaleRepo's transactional
// workflow; the generic Update refuses to touch it while a sale
// references the vehicle.
type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

const vehicleCols = "id, brand, model, year, price, photo, mileage, color, fuel_type, available, created_at, updated_at"

func scanVehicle(row interface{ Scan(...interface{}) error }) (model.Vehicle, error) {
	var v model.Vehicle
	var photo sql.NullString
	err := row.Scan(&v.ID, &v.Brand, &v.Model, &v.Year, &v.Price, &photo,
		&v.Mileage, &v.Color, &v.FuelType, &v.Available, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return v, err
	}
	if photo.Valid {
		p := photo.String
		v.Photo = &p
	}
	return v, nil
}

// List returns all vehicles ordered by brand then model.
func (r *VehicleRepo) List(ctx context.Context) ([]model.Vehicle, error) {
	return r.list(ctx, "SELECT "+vehicleCols+" FROM vehicles ORDER BY brand, model")
}

// ListAvailable returns only vehicles whose availability flag is true.
// This feeds the public listing pages.
func (r *VehicleRepo) ListAvailable(ctx context.Context) ([]model.Vehicle, error) {
	return r.list(ctx, "SELECT "+vehicleCols+" FROM vehicles WHERE available = TRUE ORDER BY brand, model")
}

func (r *VehicleRepo) list(ctx context.Context, q string) ([]model.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (model.Vehicle, error) {
	v, err := scanVehicle(r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleCols+" FROM vehicles WHERE id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return v, ErrNotFound
	}
	return v, err
}

func validateVehicle(v *model.Vehicle) error {
	v.Brand = strings.TrimSpace(v.Brand)
	v.Model = strings.TrimSpace(v.Model)
	if v.Brand == "" || v.Model == "" {
		return validationf("brand and model are required")
	}
	if v.Year < minVehicleYear || v.Year > maxVehicleYear {
		return validationf("year is out of range")
	}
	if v.Price <= 0 {
		return validationf("price must be greater than zero")
	}
	if v.Mileage < 0 {
		return validationf("mileage cannot be negative")
	}
	return nil
}

// Create inserts a vehicle. Availability defaults to true in the schema
// and is not part of the insert.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	if err := validateVehicle(v); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO vehicles (brand, model, year, price, photo, mileage, color, fuel_type) VALUES (?,?,?,?,?,?,?,?)",
		v.Brand, v.Model, v.Year, v.Price, v.Photo, v.Mileage, v.Color, v.FuelType)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	v.Available = true
	return nil
}

// VehiclePatch carries a partial vehicle update. A nil field is left
// unchanged. Photo, Mileage and Available accept explicit zero values:
// a present pointer always wins, whatever it points to.
type VehiclePatch struct {
	Brand     *string
	Model     *string
	Year      *int
	Price     *float64
	Photo     *string
	Mileage   *int
	Color     *string
	FuelType  *string
	Available *bool
}

// Update applies a partial update. Forcing the availability flag is
// rejected with ErrConflict while any sale references the vehicle,
// because the flag then belongs to the sale workflow.
func (r *VehicleRepo) Update(ctx context.Context, id uint64, p VehiclePatch) error {
	var b patchBuilder
	if p.Brand != nil {
		brand := strings.TrimSpace(*p.Brand)
		if brand == "" {
			return validationf("brand is required")
		}
		b.set("brand", brand)
	}
	if p.Model != nil {
		m := strings.TrimSpace(*p.Model)
		if m == "" {
			return validationf("model is required")
		}
		b.set("model", m)
	}
	if p.Year != nil {
		if *p.Year < minVehicleYear || *p.Year > maxVehicleYear {
			return validationf("year is out of range")
		}
		b.set("year", *p.Year)
	}
	if p.Price != nil {
		if *p.Price <= 0 {
			return validationf("price must be greater than zero")
		}
		b.set("price", *p.Price)
	}
	if p.Photo != nil {
		b.set("photo", *p.Photo)
	}
	if p.Mileage != nil {
		if *p.Mileage < 0 {
			return validationf("mileage cannot be negative")
		}
		b.set("mileage", *p.Mileage)
	}
	if p.Color != nil {
		b.set("color", strings.TrimSpace(*p.Color))
	}
	if p.FuelType != nil {
		b.set("fuel_type", strings.TrimSpace(*p.FuelType))
	}
	if p.Available != nil {
		has, err := r.HasSales(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return ErrConflict
		}
		b.set("available", *p.Available)
	}
	if b.empty() {
		return nil
	}
	q, args := b.query("vehicles", id)
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a vehicle unless sales reference it. It returns the
// photo path that was attached to the row, if any, so the caller can
// purge the asset after the row is gone.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) (photo *string, err error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	has, err := r.HasSales(ctx, id)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrHasSales
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id); err != nil {
		return nil, err
	}
	return v.Photo, nil
}

// HasSales reports whether any sale references the vehicle.
func (r *VehicleRepo) HasSales(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sales WHERE vehicle_id = ?", id).Scan(&n)
	return n > 0, err
}
