package model

import "time"

type CreateRideRequest struct {
	PassengerID   string  `json:"-" validate:"required"`
	Pickup        string  `json:"pickup" validate:"required,max=255"`
	Destination   string  `json:"destination" validate:"required,max=255"`
	TransportType string  `json:"transport_type" validate:"required,oneof=car bike electric_bike bus"`
	PricePerKm    float64 `json:"price_per_km" validate:"required,gt=0"`
}

type AcceptRideRequest struct {
	RideID   string `json:"-" validate:"required"`
	DriverID string `json:"-" validate:"required"`
}

type CompleteRideRequest struct {
	RideID   string `json:"-" validate:"required"`
	DriverID string `json:"-" validate:"required"`
}

type CancelRideRequest struct {
	RideID      string `json:"-" validate:"required"`
	PassengerID string `json:"-" validate:"required"`
}

type RideResponse struct {
	ID            string          `json:"id"`
	PassengerID   string          `json:"passenger_id"`
	DriverID      *string         `json:"driver_id"`
	Pickup        string          `json:"pickup"`
	Destination   string          `json:"destination"`
	TransportType string          `json:"transport_type"`
	PricePerKm    float64         `json:"price_per_km"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Contact       *ContactSummary `json:"contact,omitempty"`
}

// ContactSummary is the joined counterparty profile shown in listings.
type ContactSummary struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}
