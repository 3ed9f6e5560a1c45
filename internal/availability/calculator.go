// Package availability decides which calendar days a stay may cover and what it costs.
package availability

import (
	"math"
	"time"

	"staybook/internal/models"
)

// feeScale is the precision of service fee rates: one basis point.
const feeScale int64 = 10000

// Clock returns the current time. Tests pin it to a fixed instant.
type Clock func() time.Time

// Calculator answers availability questions relative to the current day.
type Calculator struct {
	now Clock
}

func NewCalculator(now Clock) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Today returns the current calendar day.
func (c *Calculator) Today() time.Time {
	return models.DateOf(c.now())
}

// IsDateBlocked reports whether date lies in the past or inside any blackout interval.
func (c *Calculator) IsDateBlocked(date time.Time, blackouts models.BlackoutSet) bool {
	day := models.DateOf(date)
	if day.Before(c.Today()) {
		return true
	}
	return blackouts.Contains(day)
}

// SelectRange applies one calendar pick to the current selection.
//
// A pick completes the range only when a check-in is set, the pick is later
// than it and no blocked day lies strictly between them. Any other pick
// restarts the selection at the picked day.
func (c *Calculator) SelectRange(current models.DateRangeSelection, clicked time.Time, blackouts models.BlackoutSet) models.DateRangeSelection {
	day := models.DateOf(clicked)
	if current.State() != models.SelectionFromSet {
		return models.SelectionFrom(day)
	}

	from := models.DateOf(*current.From)
	if !day.After(from) || c.blockedBetween(from, day, blackouts) {
		return models.SelectionFrom(day)
	}
	return models.SelectionRange(from, day)
}

// blockedBetween reports whether any day strictly between from and to is past
// or falls inside a blackout interval.
func (c *Calculator) blockedBetween(from, to time.Time, blackouts models.BlackoutSet) bool {
	first, last := from.AddDate(0, 0, 1), to.AddDate(0, 0, -1)
	if last.Before(first) {
		return false
	}
	if first.Before(c.Today()) {
		return true
	}
	for _, interval := range blackouts {
		if !models.DateOf(interval.Start).After(last) && !models.DateOf(interval.End).Before(first) {
			return true
		}
	}
	return false
}

// Day is one cell of a rendered calendar.
type Day struct {
	Date    time.Time `json:"date"`
	Blocked bool      `json:"blocked"`
}

// Calendar returns the blocked flag for each of days consecutive days starting at from.
func (c *Calculator) Calendar(from time.Time, days int, blackouts models.BlackoutSet) []Day {
	if days <= 0 {
		return nil
	}
	start := models.DateOf(from)
	out := make([]Day, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		out = append(out, Day{Date: d, Blocked: c.IsDateBlocked(d, blackouts)})
	}
	return out
}

// Clear resets a selection to the empty state.
func Clear() models.DateRangeSelection {
	return models.DateRangeSelection{}
}

// ComputeNights counts charged nights; the checkout day is not charged.
func ComputeNights(selection models.DateRangeSelection) int {
	if !selection.Complete() {
		return 0
	}
	nights := models.DaysBetween(*selection.From, *selection.To)
	if nights < 0 {
		return 0
	}
	return nights
}

// ComputePriceBreakdown prices a stay. The service fee is rounded half-up to a whole unit.
func ComputePriceBreakdown(nights int, nightlyRate int64, serviceFeeRate float64) models.PriceBreakdown {
	if nights < 0 {
		nights = 0
	}
	subtotal := int64(nights) * nightlyRate
	fee := serviceFee(subtotal, serviceFeeRate)
	return models.PriceBreakdown{
		NightlyRate:    nightlyRate,
		Nights:         nights,
		Subtotal:       subtotal,
		ServiceFeeRate: serviceFeeRate,
		ServiceFee:     fee,
		Total:          subtotal + fee,
	}
}

// Quote prices a selection directly.
func Quote(selection models.DateRangeSelection, nightlyRate int64, serviceFeeRate float64) models.PriceBreakdown {
	return ComputePriceBreakdown(ComputeNights(selection), nightlyRate, serviceFeeRate)
}

// serviceFee works in basis points so that x.5 amounts round up exactly.
func serviceFee(subtotal int64, rate float64) int64 {
	if subtotal <= 0 || rate <= 0 {
		return 0
	}
	bps := int64(math.Round(rate * float64(feeScale)))
	return (subtotal*bps + feeScale/2) / feeScale
}
