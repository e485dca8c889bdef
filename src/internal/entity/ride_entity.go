package entity

import "time"

// Ride is the sole entity with lifecycle semantics, one row in `rides`.
// Rows are never deleted; completed and cancelled are terminal states.
type Ride struct {
	ID            string     `db:"id" json:"id"`
	PassengerID   string     `db:"passenger_id" json:"passenger_id"`
	DriverID      *string    `db:"driver_id" json:"driver_id"`
	Pickup        string     `db:"pickup" json:"pickup"`
	Destination   string     `db:"destination" json:"destination"`
	TransportType string     `db:"transport_type" json:"transport_type"`
	PricePerKm    float64    `db:"price_per_km" json:"price_per_km"`
	Status        RideStatus `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// RideWithContact is a ride joined with the counterparty's display profile:
// the driver's for passenger listings, the passenger's for driver listings.
type RideWithContact struct {
	Ride
	ContactName  *string `db:"contact_name"`
	ContactPhone *string `db:"contact_phone"`
}

const (
	TransportCar          = "car"
	TransportBike         = "bike"
	TransportElectricBike = "electric_bike"
	TransportBus          = "bus"
)
