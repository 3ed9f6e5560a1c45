package repository

import (
	"context"
	"sync"
	"time"

	"staybook/internal/domain"
	"staybook/internal/metrics"
	"staybook/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSelectionRepository serves from primary (Redis) and switches to fallback
// (memory) on error. While down, the primary is probed again with exponential backoff.
type FailoverSelectionRepository struct {
	primary  domain.SelectionRepository
	fallback domain.SelectionRepository
	policy   RetryPolicy
	logger   *zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	down      bool
	failures  int
	nextProbe time.Time
}

func NewFailoverSelectionRepository(primary, fallback domain.SelectionRepository, policy RetryPolicy, logger *zerolog.Logger) *FailoverSelectionRepository {
	return &FailoverSelectionRepository{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// Down reports whether calls currently go to the fallback.
func (r *FailoverSelectionRepository) Down() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.down
}

func (r *FailoverSelectionRepository) usePrimary() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.down || !r.now().Before(r.nextProbe)
}

func (r *FailoverSelectionRepository) markFailure(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.down {
		r.logger.Error().Err(err).Str("op", op).Msg("primary selection store failed, falling back to memory")
		metrics.IncSelectionFailover()
	}
	r.down = true
	r.failures++
	r.nextProbe = r.now().Add(r.policy.NextDelay(r.failures))
}

func (r *FailoverSelectionRepository) markHealthy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		r.logger.Info().Int("failures", r.failures).Msg("primary selection store recovered")
	}
	r.down = false
	r.failures = 0
}

func (r *FailoverSelectionRepository) GetSelection(ctx context.Context, sessionID string, propertyID int64) (*models.ViewSelection, error) {
	if r.usePrimary() {
		sel, err := r.primary.GetSelection(ctx, sessionID, propertyID)
		if err == nil {
			r.markHealthy()
			if sel != nil {
				return sel, nil
			}
			// selections written during an outage live only in the fallback
			return r.fallback.GetSelection(ctx, sessionID, propertyID)
		}
		r.markFailure("get", err)
	}
	return r.fallback.GetSelection(ctx, sessionID, propertyID)
}

func (r *FailoverSelectionRepository) SetSelection(ctx context.Context, selection *models.ViewSelection) error {
	if r.usePrimary() {
		err := r.primary.SetSelection(ctx, selection)
		if err == nil {
			r.markHealthy()
			return r.fallback.ClearSelection(ctx, selection.SessionID, selection.PropertyID)
		}
		r.markFailure("set", err)
	}
	return r.fallback.SetSelection(ctx, selection)
}

func (r *FailoverSelectionRepository) ClearSelection(ctx context.Context, sessionID string, propertyID int64) error {
	if r.usePrimary() {
		err := r.primary.ClearSelection(ctx, sessionID, propertyID)
		if err == nil {
			r.markHealthy()
		} else {
			r.markFailure("clear", err)
		}
	}
	return r.fallback.ClearSelection(ctx, sessionID, propertyID)
}
