package models

import "time"

// BookingRequest is what gets handed to the external booking collaborator.
type BookingRequest struct {
	PropertyID int64          `json:"property_id"`
	CheckIn    time.Time      `json:"check_in"`
	CheckOut   time.Time      `json:"check_out"`
	Guests     int            `json:"guests"`
	Price      PriceBreakdown `json:"price"`
}

type BookingConfirmation struct {
	ID         string         `json:"id"`
	PropertyID int64          `json:"property_id"`
	CheckIn    time.Time      `json:"check_in"`
	CheckOut   time.Time      `json:"check_out"`
	Guests     int            `json:"guests"`
	Price      PriceBreakdown `json:"price"`
	Message    string         `json:"message"`
	CreatedAt  time.Time      `json:"created_at"`
}
