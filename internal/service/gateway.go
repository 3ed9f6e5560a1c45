package service

import (
	"context"
	"time"

	"staybook/internal/models"

	"github.com/rs/zerolog"
)

// SimulatedGateway stands in for the booking backend: it accepts every request
// after a fixed delay. A real client replaces it without touching BookingService.
type SimulatedGateway struct {
	delay  time.Duration
	logger *zerolog.Logger
}

func NewSimulatedGateway(delay time.Duration, logger *zerolog.Logger) *SimulatedGateway {
	return &SimulatedGateway{delay: delay, logger: logger}
}

func (g *SimulatedGateway) Reserve(ctx context.Context, req models.BookingRequest) error {
	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	g.logger.Debug().
		Int64("property_id", req.PropertyID).
		Str("check_in", req.CheckIn.Format(models.DateLayout)).
		Str("check_out", req.CheckOut.Format(models.DateLayout)).
		Int64("total", req.Price.Total).
		Msg("reservation accepted")
	return nil
}
