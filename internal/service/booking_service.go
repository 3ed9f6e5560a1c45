package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"staybook/internal/availability"
	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/metrics"
	"staybook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const confirmationDateLayout = "Jan 02, 2006"

type submissionKey struct {
	propertyID int64
	from, to   time.Time
}

type BookingService struct {
	properties domain.PropertyProvider
	gateway    domain.BookingGateway
	eventBus   domain.EventPublisher
	feeRate    float64
	logger     *zerolog.Logger
	now        func() time.Time

	// in-flight submissions; a second one for the same stay is refused
	pending sync.Map
}

func NewBookingService(properties domain.PropertyProvider, gateway domain.BookingGateway, eventBus domain.EventPublisher, feeRate float64, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		properties: properties,
		gateway:    gateway,
		eventBus:   eventBus,
		feeRate:    feeRate,
		logger:     logger,
		now:        time.Now,
	}
}

// ValidateBooking checks a submission and returns the nights to charge.
// Checks run in order: dates present, at least one night, guest count in 1..maxGuests.
func ValidateBooking(selection models.DateRangeSelection, guests, maxGuests int) (int, error) {
	if !selection.Complete() {
		return 0, models.NewValidationError(models.ReasonMissingDates, "please select check-in and check-out dates")
	}
	nights := availability.ComputeNights(selection)
	if nights == 0 {
		return 0, models.NewValidationError(models.ReasonZeroNights, "check-out must be after check-in")
	}
	if guests < 1 || guests > maxGuests {
		return 0, models.NewValidationError(models.ReasonGuestCountInvalid, "guests must be between 1 and %d, got %d", maxGuests, guests)
	}
	return nights, nil
}

func (s *BookingService) Quote(ctx context.Context, propertyID int64, selection models.DateRangeSelection) (models.PriceBreakdown, error) {
	p, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return models.PriceBreakdown{}, err
	}
	metrics.IncQuote()
	return availability.Quote(selection, p.NightlyRate, s.feeRate), nil
}

// SubmitBooking validates the selection against the property and hands it to the gateway.
func (s *BookingService) SubmitBooking(ctx context.Context, propertyID int64, selection models.DateRangeSelection, guests int) (*models.BookingConfirmation, error) {
	p, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		metrics.IncSubmission("error")
		return nil, err
	}

	nights, err := ValidateBooking(selection, guests, p.MaxGuests)
	if err != nil {
		s.reject(p.ID, guests, err)
		return nil, err
	}

	checkIn, checkOut := models.DateOf(*selection.From), models.DateOf(*selection.To)
	key := submissionKey{propertyID: p.ID, from: checkIn, to: checkOut}
	if _, busy := s.pending.LoadOrStore(key, struct{}{}); busy {
		metrics.IncSubmission("pending")
		return nil, ErrSubmissionPending
	}
	defer s.pending.Delete(key)

	price := availability.ComputePriceBreakdown(nights, p.NightlyRate, s.feeRate)
	req := models.BookingRequest{
		PropertyID: p.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		Price:      price,
	}
	if err := s.gateway.Reserve(ctx, req); err != nil {
		metrics.IncSubmission("error")
		s.logger.Error().Err(err).Int64("property_id", p.ID).Msg("reserve stay")
		return nil, fmt.Errorf("reserve stay: %w", err)
	}

	conf := &models.BookingConfirmation{
		ID:         uuid.NewString(),
		PropertyID: p.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		Price:      price,
		Message: fmt.Sprintf("Your stay is booked from %s to %s.",
			checkIn.Format(confirmationDateLayout), checkOut.Format(confirmationDateLayout)),
		CreatedAt: s.now(),
	}

	metrics.IncSubmission(models.StatusConfirmed)
	s.publishEvent(events.EventBookingConfirmed, events.BookingEventPayload{
		ConfirmationID: conf.ID,
		PropertyID:     conf.PropertyID,
		CheckIn:        conf.CheckIn,
		CheckOut:       conf.CheckOut,
		Guests:         conf.Guests,
		Nights:         price.Nights,
		Total:          price.Total,
		Message:        conf.Message,
	})
	s.logger.Info().Str("confirmation_id", conf.ID).Int64("property_id", p.ID).Int("nights", nights).Int64("total", price.Total).Msg("booking confirmed")

	return conf, nil
}

func (s *BookingService) reject(propertyID int64, guests int, err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	metrics.IncSubmission(string(verr.Reason))
	s.publishEvent(events.EventBookingRejected, events.BookingEventPayload{
		PropertyID: propertyID,
		Guests:     guests,
		Reason:     string(verr.Reason),
		Message:    verr.Message,
	})
	s.logger.Debug().Int64("property_id", propertyID).Str("reason", string(verr.Reason)).Msg("booking rejected")
}

func (s *BookingService) publishEvent(eventType string, payload events.BookingEventPayload) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("property_id", payload.PropertyID).Msg("publish event error")
	}
}
