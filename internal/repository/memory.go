package repository

import (
	"context"
	"sync"
	"time"

	"staybook/internal/models"
)

type memoryEntry struct {
	selection models.ViewSelection
	expiresAt time.Time
}

// MemorySelectionRepository keeps selections in process. Used as the Redis fallback.
type MemorySelectionRepository struct {
	entries sync.Map
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySelectionRepository(ttl time.Duration) *MemorySelectionRepository {
	return &MemorySelectionRepository{
		ttl: ttl,
		now: time.Now,
	}
}

func (r *MemorySelectionRepository) GetSelection(ctx context.Context, sessionID string, propertyID int64) (*models.ViewSelection, error) {
	key := selectionKey{sessionID: sessionID, propertyID: propertyID}
	val, ok := r.entries.Load(key)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		r.entries.Delete(key)
		return nil, nil
	}
	sel := entry.selection
	return &sel, nil
}

func (r *MemorySelectionRepository) SetSelection(ctx context.Context, selection *models.ViewSelection) error {
	entry := &memoryEntry{selection: *selection}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.entries.Store(selectionKey{sessionID: selection.SessionID, propertyID: selection.PropertyID}, entry)
	return nil
}

func (r *MemorySelectionRepository) ClearSelection(ctx context.Context, sessionID string, propertyID int64) error {
	r.entries.Delete(selectionKey{sessionID: sessionID, propertyID: propertyID})
	return nil
}
