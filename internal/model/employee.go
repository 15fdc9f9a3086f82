package model

import "time"

// Employee mirrors the `employees` table. Email is the login identity
// and is unique. Title is the job title shown in the UI; it has no
// uniqueness constraint.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name.
//  Email         – unique login email.
//  PasswordHash  – bcrypt hash of the password.
//  Title         – job title (e.g. "Vendedor", "Gerente").
//  AdmissionDate – date the employee joined the dealership.
type Employee struct {
	ID            uint64    // employees.id
	Name          string    // employees.name
	Email         string    // employees.email
	PasswordHash  string    // employees.password_hash
	Title         string    // employees.title
	AdmissionDate time.Time // employees.admission_date
	CreatedAt     time.Time // employees.created_at
	UpdatedAt     time.Time // employees.updated_at
}
