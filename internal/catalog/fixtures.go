package catalog

import (
	"math/rand/v2"
	"time"

	"staybook/internal/models"
)

const (
	fixtureHorizonDays = 60
	fixtureStepDays    = 3
	fixtureChance      = 0.3
	fixtureMaxExtra    = 3
)

// GenerateBlackouts produces demo blackouts over the next two months: every third
// day has a 30% chance of starting a 2 to 4 day block. Fixture data only.
func GenerateBlackouts(today time.Time, rng *rand.Rand) models.BlackoutSet {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(today.Unix()), 0))
	}
	base := models.DateOf(today)

	var intervals []models.DateInterval
	for i := 1; i < fixtureHorizonDays; i += fixtureStepDays {
		if rng.Float64() >= fixtureChance {
			continue
		}
		start := base.AddDate(0, 0, i)
		end := start.AddDate(0, 0, rng.IntN(fixtureMaxExtra)+1)
		intervals = append(intervals, models.DateInterval{Start: start, End: end})
	}
	return models.NewBlackoutSet(intervals...)
}

// NewRand returns a deterministic generator for a non-zero seed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)))
}
