package model

import "time"

// Sale records the sale of one vehicle to one customer, handled by one
// employee. A sale may only reference a vehicle that was available at
// creation time; the repository enforces that invariant inside a single
// transaction together with the availability flip.
//
// Fields:
//  ID            – primary key identifier.
//  CustomerID    – buyer (references customers.id).
//  VehicleID     – vehicle sold (references vehicles.id).
//  EmployeeID    – employee who closed the sale (references employees.id).
//  FinalPrice    – negotiated price, must be positive.
//  PaymentMethod – free-form payment description, nullable.
//  Notes         – free-form notes, nullable.
//  SoldAt        – timestamp of the sale.
type Sale struct {
	ID            uint64    // sales.id
	CustomerID    uint64    // sales.customer_id
	VehicleID     uint64    // sales.vehicle_id
	EmployeeID    uint64    // sales.employee_id
	FinalPrice    float64   // sales.final_price
	PaymentMethod *string   // sales.payment_method (nullable)
	Notes         *string   // sales.notes (nullable)
	SoldAt        time.Time // sales.sold_at
}
