package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmelo/dealership-api/internal/model"
	"github.com/dmelo/dealership-api/internal/utils"
)

// CustomerRepo provides CRUD operations for customers. Every create and
// update validates field shapes before touching the store so that a
// validation failure never reaches the database.
type CustomerRepo struct{ DB *sql.DB }

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerCols = "id, name, cpf, phone, email, address, username, password_hash, created_at, updated_at"

func scanCustomer(row interface{ Scan(...interface{}) error }) (model.Customer, error) {
	var c model.Customer
	var username, hash sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.CPF, &c.Phone, &c.Email, &c.Address,
		&username, &hash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if username.Valid {
		u := username.String
		c.Username = &u
	}
	if hash.Valid {
		h := hash.String
		c.PasswordHash = &h
	}
	return c, nil
}

// List returns all customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+customerCols+" FROM customers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches one customer. ErrNotFound is returned when the id
// does not exist.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerCols+" FROM customers WHERE id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// GetByEmail fetches a customer by normalized email for authentication.
// sql.ErrNoRows is surfaced as ErrNotFound; a row without a password
// hash is returned as-is and the caller treats it as a failed login.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		"SELECT "+customerCols+" FROM customers WHERE email = ? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// validateCustomer checks required fields and shapes shared by Create
// and Update. It rewrites c.CPF to its normalized 11-digit form.
func validateCustomer(c *model.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return validationf("name is required")
	}
	cpf, ok := utils.NormalizeCPF(c.CPF)
	if !ok {
		return validationf("cpf must have exactly 11 digits")
	}
	c.CPF = cpf
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email != "" && !utils.ValidEmail(c.Email) {
		return validationf("email is invalid")
	}
	return nil
}

// Create inserts a customer and populates its generated ID. A duplicate
// CPF yields ErrCPFExists and leaves the existing row untouched.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	if err := validateCustomer(c); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (name, cpf, phone, email, address, username, password_hash) VALUES (?,?,?,?,?,?,?)",
		c.Name, c.CPF, c.Phone, c.Email, c.Address, c.Username, c.PasswordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCPFExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// CustomerPatch carries the fields of a partial customer update. A nil
// field is left unchanged.
type CustomerPatch struct {
	Name         *string
	CPF          *string
	Phone        *string
	Email        *string
	Address      *string
	PasswordHash *string
}

// Update applies a partial update. Supplied fields are validated with
// the same rules as Create before the statement is built.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, p CustomerPatch) error {
	var b patchBuilder
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return validationf("name is required")
		}
		b.set("name", name)
	}
	if p.CPF != nil {
		cpf, ok := utils.NormalizeCPF(*p.CPF)
		if !ok {
			return validationf("cpf must have exactly 11 digits")
		}
		b.set("cpf", cpf)
	}
	if p.Phone != nil {
		b.set("phone", strings.TrimSpace(*p.Phone))
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if email != "" && !utils.ValidEmail(email) {
			return validationf("email is invalid")
		}
		b.set("email", email)
	}
	if p.Address != nil {
		b.set("address", strings.TrimSpace(*p.Address))
	}
	if p.PasswordHash != nil {
		b.set("password_hash", *p.PasswordHash)
	}
	if b.empty() {
		return nil
	}
	q, args := b.query("customers", id)
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCPFExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "missing row" from "values already identical".
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a customer unless sales reference it, in which case
// ErrHasSales is returned and the row is kept.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	has, err := r.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return ErrHasSales
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasSales reports whether any sale references the customer.
func (r *CustomerRepo) HasSales(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sales WHERE customer_id = ?", id).Scan(&n)
	return n > 0, err
}
