package models

import "time"

type Property struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	NightlyRate int64       `json:"nightly_rate"`
	MaxGuests   int         `json:"max_guests"`
	Blackouts   BlackoutSet `json:"blackouts"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
