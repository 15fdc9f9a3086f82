// Package repository defines error values shared across the entity
// repositories. These sentinels let handlers distinguish failure
// scenarios without string matching: ErrHasSales signals that a delete
// is blocked by referencing sale records, ErrVehicleUnavailable that a
// sale targeted a vehicle whose availability flag is already false, and
// so on. Handlers translate each into the appropriate HTTP status.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested entity does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as forcing the availability flag of a vehicle
// that an active sale references. Handlers should translate this into
// an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrHasSales is returned when deleting a customer, employee or vehicle
// that at least one sale still references.
var ErrHasSales = errors.New("record has sales attached")

// ErrVehicleUnavailable is returned by the sale workflow when the
// target vehicle is absent or its availability flag is false.
var ErrVehicleUnavailable = errors.New("vehicle unavailable")

// ErrCPFExists is returned when inserting a customer whose normalized
// CPF collides with an existing row.
var ErrCPFExists = errors.New("cpf already registered")

// ErrEmailExists is returned when inserting an employee whose email
// collides with an existing row.
var ErrEmailExists = errors.New("email already exists")

// ValidationError marks a bad-input failure detected before any store
// access. It is always recoverable by the caller correcting the input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validationf(msg string) error { return &ValidationError{Msg: msg} }

// isDuplicateKey detects the MySQL duplicate entry error (1062) on
// unique indexes.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
