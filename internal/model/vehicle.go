package model

import "time"

// Vehicle mirrors the `vehicles` table. Available defaults to true on
// insert and is flipped exclusively by the sale workflow while a sale
// references the vehicle.
//
// Fields:
//  ID        – primary key identifier.
//  Brand     – manufacturer (e.g. "Toyota").
//  Model     – model name (e.g. "Corolla").
//  Year      – model year, 1900–2025 inclusive.
//  Price     – asking price, must be positive.
//  Photo     – relative path of the stored photo, nullable.
//  Mileage   – odometer reading in kilometers.
//  Color     – paint color.
//  FuelType  – fuel type (e.g. "Flex", "Diesel").
//  Available – true while the vehicle is unsold and sellable.
type Vehicle struct {
	ID        uint64    // vehicles.id
	Brand     string    // vehicles.brand
	Model     string    // vehicles.model
	Year      int       // vehicles.year
	Price     float64   // vehicles.price
	Photo     *string   // vehicles.photo (nullable)
	Mileage   int       // vehicles.mileage
	Color     string    // vehicles.color
	FuelType  string    // vehicles.fuel_type
	Available bool      // vehicles.available
	CreatedAt time.Time // vehicles.created_at
	UpdatedAt time.Time // vehicles.updated_at
}
