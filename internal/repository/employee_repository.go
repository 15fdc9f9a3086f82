package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmelo/dealership-api/internal/model"
	"github.com/dmelo/dealership-api/internal/utils"
)

// EmployeeRepo provides CRUD operations for employees.
type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

const employeeCols = "id, name, email, password_hash, title, admission_date, created_at, updated_at"

func scanEmployee(row interface{ Scan(...interface{}) error }) (model.Employee, error) {
	var e model.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &e.Title,
		&e.AdmissionDate, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// List returns all employees ordered by name. The password hash column
// is selected but should never be serialized by handlers.
func (r *EmployeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+employeeCols+" FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (model.Employee, error) {
	e, err := scanEmployee(r.DB.QueryRowContext(ctx,
		"SELECT "+employeeCols+" FROM employees WHERE id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (model.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	e, err := scanEmployee(r.DB.QueryRowContext(ctx,
		"SELECT "+employeeCols+" FROM employees WHERE email = ? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

// Create inserts an employee with an already-hashed password and
// populates the generated ID. A duplicate email yields ErrEmailExists.
// A zero AdmissionDate defaults to today.
func (r *EmployeeRepo) Create(ctx context.Context, e *model.Employee) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Title = strings.TrimSpace(e.Title)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	if e.Name == "" || e.Title == "" {
		return validationf("name and title are required")
	}
	if !utils.ValidEmail(e.Email) {
		return validationf("email is invalid")
	}
	if e.PasswordHash == "" {
		return validationf("password is required")
	}
	if e.AdmissionDate.IsZero() {
		e.AdmissionDate = time.Now().UTC()
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO employees (name, email, password_hash, title, admission_date) VALUES (?,?,?,?,?)",
		e.Name, e.Email, e.PasswordHash, e.Title, e.AdmissionDate)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// EmployeePatch carries the fields of a partial employee update.
// PasswordHash, when present, rotates the credential.
type EmployeePatch struct {
	Name         *string
	Email        *string
	Title        *string
	PasswordHash *string
}

// Update applies a partial update with the same validation as Create.
func (r *EmployeeRepo) Update(ctx context.Context, id uint64, p EmployeePatch) error {
	var b patchBuilder
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return validationf("name is required")
		}
		b.set("name", name)
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if !utils.ValidEmail(email) {
			return validationf("email is invalid")
		}
		b.set("email", email)
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return validationf("title is required")
		}
		b.set("title", title)
	}
	if p.PasswordHash != nil {
		b.set("password_hash", *p.PasswordHash)
	}
	if b.empty() {
		return nil
	}
	q, args := b.query("employees", id)
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an employee unless sales reference it.
func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) error {
	has, err := r.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return ErrHasSales
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasSales reports whether any sale references the employee.
func (r *EmployeeRepo) HasSales(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sales WHERE employee_id = ?", id).Scan(&n)
	return n > 0, err
}
