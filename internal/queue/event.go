// Package queue defines message payloads exchanged over the message broker.
package queue

// SaleCompletedEvent is published after a sale commits. It carries
// enough denormalized information for downstream consumers (receipts,
// notifications, analytics) to act without querying the primary
// database.
type SaleCompletedEvent struct {
	SaleID        uint64  `json:"sale_id"`
	CustomerID    uint64  `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	VehicleID     uint64  `json:"vehicle_id"`
	VehicleBrand  string  `json:"vehicle_brand"`
	VehicleModel  string  `json:"vehicle_model"`
	VehicleYear   int     `json:"vehicle_year"`
	EmployeeID    uint64  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	FinalPrice    float64 `json:"final_price"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	SoldAt        string  `json:"sold_at"`
}
