package availability

import (
	"testing"
	"time"

	"staybook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func newTestCalculator() *Calculator {
	return NewCalculator(fixedClock(date(2025, 5, 20).Add(14 * time.Hour)))
}

func blackoutOn(days ...time.Time) models.BlackoutSet {
	intervals := make([]models.DateInterval, 0, len(days))
	for _, d := range days {
		intervals = append(intervals, models.DateInterval{Start: d, End: d})
	}
	return models.NewBlackoutSet(intervals...)
}

func TestIsDateBlocked(t *testing.T) {
	calc := newTestCalculator()
	set := models.NewBlackoutSet(models.DateInterval{Start: date(2025, 6, 3), End: date(2025, 6, 6)})

	t.Run("InsideInterval", func(t *testing.T) {
		for d := date(2025, 6, 3); !d.After(date(2025, 6, 6)); d = d.AddDate(0, 0, 1) {
			assert.True(t, calc.IsDateBlocked(d, set), d.Format(models.DateLayout))
		}
	})

	t.Run("OutsideInterval", func(t *testing.T) {
		assert.False(t, calc.IsDateBlocked(date(2025, 6, 2), set))
		assert.False(t, calc.IsDateBlocked(date(2025, 6, 7), set))
	})

	t.Run("PastDatesAlwaysBlocked", func(t *testing.T) {
		for i := 1; i <= 30; i++ {
			d := date(2025, 5, 20).AddDate(0, 0, -i)
			assert.True(t, calc.IsDateBlocked(d, nil))
			assert.True(t, calc.IsDateBlocked(d, set))
		}
	})

	t.Run("TodayIsOpen", func(t *testing.T) {
		assert.False(t, calc.IsDateBlocked(date(2025, 5, 20), nil))
		assert.False(t, calc.IsDateBlocked(date(2025, 5, 20).Add(23*time.Hour), nil))
	})
}

func TestSelectRange(t *testing.T) {
	calc := newTestCalculator()
	jun1, jun5 := date(2025, 6, 1), date(2025, 6, 5)

	t.Run("EmptyToFromSet", func(t *testing.T) {
		got := calc.SelectRange(models.DateRangeSelection{}, jun1, nil)
		assert.Equal(t, models.SelectionFromSet, got.State())
		require.NotNil(t, got.From)
		assert.Equal(t, jun1, *got.From)
	})

	t.Run("FromSetToRangeSet", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(jun1), jun5, nil)
		assert.Equal(t, models.SelectionRangeSet, got.State())
		assert.Equal(t, jun1, *got.From)
		assert.Equal(t, jun5, *got.To)
		assert.Equal(t, 4, ComputeNights(got))
	})

	t.Run("BlackoutBetweenRestarts", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(jun1), jun5, blackoutOn(date(2025, 6, 3)))
		assert.Equal(t, models.SelectionFrom(jun5), got)
	})

	t.Run("BlackoutOnEndpointsOnlyDoesNotRestart", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(jun1), jun5, blackoutOn(jun5))
		assert.Equal(t, models.SelectionRange(jun1, jun5), got)
	})

	t.Run("EarlierDateRestarts", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(jun5), jun1, nil)
		assert.Equal(t, models.SelectionFrom(jun1), got)
	})

	t.Run("SameDateRestarts", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(jun1), jun1.Add(3*time.Hour), nil)
		assert.Equal(t, models.SelectionFrom(jun1), got)
	})

	t.Run("RangeSetRestarts", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionRange(jun1, jun5), date(2025, 6, 10), nil)
		assert.Equal(t, models.SelectionFrom(date(2025, 6, 10)), got)
	})

	t.Run("ClearIsEmpty", func(t *testing.T) {
		assert.Equal(t, models.SelectionEmpty, Clear().State())
	})
}

func TestSelectRange_LongSpans(t *testing.T) {
	calc := newTestCalculator()
	jun1 := date(2025, 6, 1)
	farOut := date(9999, 12, 31)

	t.Run("ClearRangeCompletes", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(jun1), farOut, blackoutOn(date(2025, 5, 31)))
		assert.Equal(t, models.SelectionRange(jun1, farOut), got)
	})

	t.Run("DistantBlackoutRestarts", func(t *testing.T) {
		set := models.NewBlackoutSet(models.DateInterval{Start: date(5000, 1, 1), End: date(5000, 1, 3)})
		got := calc.SelectRange(models.SelectionFrom(jun1), farOut, set)
		assert.Equal(t, models.SelectionFrom(farOut), got)
	})

	t.Run("BlackoutTouchingEndpointsAllowed", func(t *testing.T) {
		set := models.NewBlackoutSet(
			models.DateInterval{Start: date(2025, 5, 28), End: jun1},
			models.DateInterval{Start: date(2025, 6, 5), End: date(2025, 6, 9)},
		)
		got := calc.SelectRange(models.SelectionFrom(jun1), date(2025, 6, 5), set)
		assert.Equal(t, models.SelectionRangeSet, got.State())
	})

	t.Run("PastDayBetweenRestarts", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(date(2025, 5, 10)), date(2025, 5, 25), nil)
		assert.Equal(t, models.SelectionFrom(date(2025, 5, 25)), got)
	})

	t.Run("AdjacentPastCheckInHasNothingBetween", func(t *testing.T) {
		got := calc.SelectRange(models.SelectionFrom(date(2025, 5, 19)), date(2025, 5, 20), nil)
		assert.Equal(t, models.SelectionRangeSet, got.State())
	})
}

func TestComputeNights(t *testing.T) {
	t.Run("CenturiesAreExact", func(t *testing.T) {
		assert.Equal(t, 146097, ComputeNights(models.SelectionRange(date(2025, 6, 1), date(2425, 6, 1))))
		price := ComputePriceBreakdown(ComputeNights(models.SelectionRange(date(2025, 6, 1), date(2425, 6, 1))), 149, 0.12)
		assert.Equal(t, int64(146097*149), price.Subtotal)
	})

	jun1 := date(2025, 6, 1)

	assert.Equal(t, 0, ComputeNights(models.DateRangeSelection{}))
	assert.Equal(t, 0, ComputeNights(models.SelectionFrom(jun1)))
	assert.Equal(t, 0, ComputeNights(models.DateRangeSelection{To: &jun1}))
	assert.Equal(t, 1, ComputeNights(models.SelectionRange(jun1, date(2025, 6, 2))))
	assert.Equal(t, 0, ComputeNights(models.SelectionRange(date(2025, 6, 2), jun1)))
}

func TestComputePriceBreakdown(t *testing.T) {
	tests := []struct {
		name     string
		nights   int
		rate     int64
		feeRate  float64
		subtotal int64
		fee      int64
		total    int64
	}{
		{name: "ThreeNights", nights: 3, rate: 100, feeRate: 0.12, subtotal: 300, fee: 36, total: 336},
		{name: "ZeroNights", nights: 0, rate: 149, feeRate: 0.12, subtotal: 0, fee: 0, total: 0},
		{name: "HalfRoundsUp", nights: 1, rate: 25, feeRate: 0.1, subtotal: 25, fee: 3, total: 28},
		{name: "BelowHalfRoundsDown", nights: 1, rate: 149, feeRate: 0.12, subtotal: 149, fee: 18, total: 167},
		{name: "StorefrontDefaults", nights: 5, rate: 149, feeRate: 0.12, subtotal: 745, fee: 89, total: 834},
		{name: "NoFee", nights: 2, rate: 80, feeRate: 0, subtotal: 160, fee: 0, total: 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePriceBreakdown(tt.nights, tt.rate, tt.feeRate)
			assert.Equal(t, tt.subtotal, got.Subtotal)
			assert.Equal(t, tt.fee, got.ServiceFee)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.rate, got.NightlyRate)
			assert.Equal(t, tt.feeRate, got.ServiceFeeRate)
		})
	}
}

func TestQuote(t *testing.T) {
	got := Quote(models.SelectionRange(date(2025, 6, 1), date(2025, 6, 4)), 100, 0.12)
	assert.Equal(t, 3, got.Nights)
	assert.Equal(t, int64(336), got.Total)
}

func TestCalendar(t *testing.T) {
	calc := newTestCalculator()
	set := blackoutOn(date(2025, 5, 21))

	days := calc.Calendar(date(2025, 5, 19), 4, set)
	require.Len(t, days, 4)
	assert.True(t, days[0].Blocked, "yesterday")
	assert.False(t, days[1].Blocked, "today")
	assert.True(t, days[2].Blocked, "blackout")
	assert.False(t, days[3].Blocked)
	assert.Equal(t, date(2025, 5, 22), days[3].Date)

	assert.Nil(t, calc.Calendar(date(2025, 5, 19), 0, set))
}
