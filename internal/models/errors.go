package models

import "fmt"

type ValidationReason string

const (
	ReasonMissingDates      ValidationReason = "missing_dates"
	ReasonZeroNights        ValidationReason = "zero_nights"
	ReasonGuestCountInvalid ValidationReason = "guest_count_invalid"
)

// ValidationError is a caller-correctable input error. It is never retried.
type ValidationError struct {
	Reason  ValidationReason `json:"reason"`
	Message string           `json:"message"`
}

func NewValidationError(reason ValidationReason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Reason, e.Message)
}
