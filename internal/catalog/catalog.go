// Package catalog reads the property catalog file that seeds the property store.
package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"staybook/internal/domain"
	"staybook/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type File struct {
	Properties []Entry `yaml:"properties"`
}

type Entry struct {
	ID                int64           `yaml:"id"`
	Name              string          `yaml:"name"`
	Location          string          `yaml:"location"`
	NightlyRate       int64           `yaml:"nightly_rate"`
	MaxGuests         int             `yaml:"max_guests"`
	Blackouts         []BlackoutEntry `yaml:"blackouts"`
	GenerateBlackouts bool            `yaml:"generate_blackouts"`
}

type BlackoutEntry struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Defaults fill fields a catalog entry leaves empty.
type Defaults struct {
	NightlyRate int64
	MaxGuests   int
}

func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]Entry, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(file.Properties); err != nil {
		return nil, err
	}
	return file.Properties, nil
}

func Validate(entries []Entry) error {
	ids := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if e.ID <= 0 {
			return fmt.Errorf("property '%s' has invalid ID %d", e.Name, e.ID)
		}
		if ids[e.ID] {
			return fmt.Errorf("duplicate property ID found: %d", e.ID)
		}
		ids[e.ID] = true
		if e.NightlyRate < 0 {
			return fmt.Errorf("property %d has negative nightly rate", e.ID)
		}
		if e.MaxGuests < 0 {
			return fmt.Errorf("property %d has negative max guests", e.ID)
		}
		if _, err := e.blackoutSet(); err != nil {
			return fmt.Errorf("property %d: %w", e.ID, err)
		}
	}
	return nil
}

func (e Entry) blackoutSet() (models.BlackoutSet, error) {
	intervals := make([]models.DateInterval, 0, len(e.Blackouts))
	for _, b := range e.Blackouts {
		start, err := models.ParseDate(b.Start)
		if err != nil {
			return nil, fmt.Errorf("blackout start %q: %w", b.Start, err)
		}
		end := start
		if b.End != "" {
			if end, err = models.ParseDate(b.End); err != nil {
				return nil, fmt.Errorf("blackout end %q: %w", b.End, err)
			}
		}
		interval, err := models.NewDateInterval(start, end)
		if err != nil {
			return nil, fmt.Errorf("blackout %s..%s: %w", b.Start, b.End, err)
		}
		intervals = append(intervals, interval)
	}
	return models.NewBlackoutSet(intervals...), nil
}

// ToProperty converts an entry. Generated blackouts are appended when the entry asks for them.
func (e Entry) ToProperty(defaults Defaults, today time.Time, rng *rand.Rand) (*models.Property, error) {
	blackouts, err := e.blackoutSet()
	if err != nil {
		return nil, err
	}
	if e.GenerateBlackouts {
		blackouts = models.NewBlackoutSet(append(blackouts, GenerateBlackouts(today, rng)...)...)
	}

	p := &models.Property{
		ID:          e.ID,
		Name:        e.Name,
		Location:    e.Location,
		NightlyRate: e.NightlyRate,
		MaxGuests:   e.MaxGuests,
		Blackouts:   blackouts,
	}
	if p.NightlyRate == 0 {
		p.NightlyRate = defaults.NightlyRate
	}
	if p.MaxGuests == 0 {
		p.MaxGuests = defaults.MaxGuests
	}
	return p, nil
}

// Import writes every entry into the store, replacing stored blackouts.
func Import(ctx context.Context, store domain.PropertyStore, entries []Entry, defaults Defaults, today time.Time, rng *rand.Rand, logger *zerolog.Logger) error {
	for _, e := range entries {
		p, err := e.ToProperty(defaults, today, rng)
		if err != nil {
			return fmt.Errorf("property %d: %w", e.ID, err)
		}
		if err := store.SaveProperty(ctx, p); err != nil {
			return fmt.Errorf("save property %d: %w", e.ID, err)
		}
		if err := store.ReplaceBlackouts(ctx, p.ID, p.Blackouts); err != nil {
			return fmt.Errorf("save blackouts of property %d: %w", e.ID, err)
		}
		logger.Debug().Int64("property_id", p.ID).Int("blackouts", len(p.Blackouts)).Msg("property imported")
	}
	logger.Info().Int("properties", len(entries)).Msg("catalog imported")
	return nil
}
