package domain

import (
	"context"
	"time"

	"staybook/internal/models"
)

// PropertyProvider supplies rate, capacity and blackout data for a property view.
type PropertyProvider interface {
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	ListProperties(ctx context.Context) ([]*models.Property, error)
}

type PropertyStore interface {
	PropertyProvider
	SaveProperty(ctx context.Context, property *models.Property) error
	AddBlackout(ctx context.Context, propertyID int64, interval models.DateInterval) error
	ReplaceBlackouts(ctx context.Context, propertyID int64, blackouts models.BlackoutSet) error
}

// BookingGateway is the seam to the external booking collaborator.
type BookingGateway interface {
	Reserve(ctx context.Context, req models.BookingRequest) error
}

type SelectionRepository interface {
	GetSelection(ctx context.Context, sessionID string, propertyID int64) (*models.ViewSelection, error)
	SetSelection(ctx context.Context, selection *models.ViewSelection) error
	ClearSelection(ctx context.Context, sessionID string, propertyID int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type Calculator interface {
	Today() time.Time
	IsDateBlocked(date time.Time, blackouts models.BlackoutSet) bool
	SelectRange(current models.DateRangeSelection, clicked time.Time, blackouts models.BlackoutSet) models.DateRangeSelection
}

type BookingService interface {
	Quote(ctx context.Context, propertyID int64, selection models.DateRangeSelection) (models.PriceBreakdown, error)
	SubmitBooking(ctx context.Context, propertyID int64, selection models.DateRangeSelection, guests int) (*models.BookingConfirmation, error)
}

type SelectionService interface {
	GetSelection(ctx context.Context, sessionID string, propertyID int64) (models.DateRangeSelection, error)
	PickDate(ctx context.Context, sessionID string, propertyID int64, date time.Time) (models.DateRangeSelection, error)
	ClearSelection(ctx context.Context, sessionID string, propertyID int64) error
	SubmitSelection(ctx context.Context, sessionID string, propertyID int64, guests int) (*models.BookingConfirmation, error)
}
