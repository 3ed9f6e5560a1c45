package service

import (
	"context"
	"time"

	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/models"

	"github.com/rs/zerolog"
)

// SelectionService owns the date selection of each (session, property) view.
type SelectionService struct {
	repo       domain.SelectionRepository
	properties domain.PropertyProvider
	calc       domain.Calculator
	bookings   domain.BookingService
	eventBus   domain.EventPublisher
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewSelectionService(
	repo domain.SelectionRepository,
	properties domain.PropertyProvider,
	calc domain.Calculator,
	bookings domain.BookingService,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *SelectionService {
	return &SelectionService{
		repo:       repo,
		properties: properties,
		calc:       calc,
		bookings:   bookings,
		eventBus:   eventBus,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *SelectionService) GetSelection(ctx context.Context, sessionID string, propertyID int64) (models.DateRangeSelection, error) {
	if sessionID == "" {
		return models.DateRangeSelection{}, ErrSessionRequired
	}
	view, err := s.repo.GetSelection(ctx, sessionID, propertyID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Int64("property_id", propertyID).Msg("failed to get selection")
		return models.DateRangeSelection{}, err
	}
	if view == nil {
		return models.DateRangeSelection{}, nil
	}
	return view.Selection, nil
}

// PickDate applies a calendar pick against the property's current blackouts.
func (s *SelectionService) PickDate(ctx context.Context, sessionID string, propertyID int64, date time.Time) (models.DateRangeSelection, error) {
	p, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return models.DateRangeSelection{}, err
	}
	current, err := s.GetSelection(ctx, sessionID, propertyID)
	if err != nil {
		return models.DateRangeSelection{}, err
	}

	next := s.calc.SelectRange(current, date, p.Blackouts)
	view := &models.ViewSelection{
		SessionID:  sessionID,
		PropertyID: propertyID,
		Selection:  next,
		UpdatedAt:  s.now(),
	}
	if err := s.repo.SetSelection(ctx, view); err != nil {
		return models.DateRangeSelection{}, err
	}

	s.publishSelection(sessionID, propertyID, next)
	return next, nil
}

func (s *SelectionService) ClearSelection(ctx context.Context, sessionID string, propertyID int64) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if err := s.repo.ClearSelection(ctx, sessionID, propertyID); err != nil {
		return err
	}
	s.publishSelection(sessionID, propertyID, models.DateRangeSelection{})
	return nil
}

// SubmitSelection books the stored selection and resets it on success.
func (s *SelectionService) SubmitSelection(ctx context.Context, sessionID string, propertyID int64, guests int) (*models.BookingConfirmation, error) {
	selection, err := s.GetSelection(ctx, sessionID, propertyID)
	if err != nil {
		return nil, err
	}

	conf, err := s.bookings.SubmitBooking(ctx, propertyID, selection, guests)
	if err != nil {
		return nil, err
	}

	if err := s.ClearSelection(ctx, sessionID, propertyID); err != nil {
		// the booking went through; a stale selection is harmless
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to reset selection after booking")
	}
	return conf, nil
}

func (s *SelectionService) publishSelection(sessionID string, propertyID int64, sel models.DateRangeSelection) {
	if s.eventBus == nil {
		return
	}
	payload := events.SelectionEventPayload{
		SessionID:  sessionID,
		PropertyID: propertyID,
		State:      string(sel.State()),
	}
	if sel.From != nil {
		payload.From = sel.From.Format(models.DateLayout)
	}
	if sel.To != nil {
		payload.To = sel.To.Format(models.DateLayout)
	}
	if err := s.eventBus.PublishJSON(events.EventSelectionChanged, payload); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("publish event error")
	}
}
