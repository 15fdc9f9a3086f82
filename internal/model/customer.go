package model

import "time"

// Customer mirrors the `customers` table. CPF is stored normalized to
// its 11 digits and carries a unique index. Username and PasswordHash
// are nullable: a customer created by an employee has no login until
// they self-register.
type Customer struct {
	ID           uint64    // customers.id
	Name         string    // customers.name
	CPF          string    // customers.cpf (11 digits, unique)
	Phone        string    // customers.phone
	Email        string    // customers.email
	Address      string    // customers.address
	Username     *string   // customers.username (nullable)
	PasswordHash *string   // customers.password_hash (nullable)
	CreatedAt    time.Time // customers.created_at
	UpdatedAt    time.Time // customers.updated_at
}
