package models

// PriceBreakdown is derived from a selection and never persisted.
// Amounts are whole currency units.
type PriceBreakdown struct {
	NightlyRate    int64   `json:"nightly_rate"`
	Nights         int     `json:"nights"`
	Subtotal       int64   `json:"subtotal"`
	ServiceFeeRate float64 `json:"service_fee_rate"`
	ServiceFee     int64   `json:"service_fee"`
	Total          int64   `json:"total"`
}
