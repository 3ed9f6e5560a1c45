package database

import (
	"context"
	"fmt"

	"staybook/internal/models"
)

// GetBlackouts returns a fresh snapshot of a property's blackout intervals ordered by start.
func (db *DB) GetBlackouts(ctx context.Context, propertyID int64) (models.BlackoutSet, error) {
	query := `SELECT start_date, end_date FROM blackouts WHERE property_id = ? ORDER BY start_date, end_date`
	rows, err := db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get blackouts: %w", err)
	}
	defer rows.Close()

	var intervals []models.DateInterval
	for rows.Next() {
		var startStr, endStr string
		if err := rows.Scan(&startStr, &endStr); err != nil {
			return nil, fmt.Errorf("failed to scan blackout: %w", err)
		}
		start, err := models.ParseDate(startStr)
		if err != nil {
			return nil, fmt.Errorf("bad blackout start %q: %w", startStr, err)
		}
		end, err := models.ParseDate(endStr)
		if err != nil {
			return nil, fmt.Errorf("bad blackout end %q: %w", endStr, err)
		}
		intervals = append(intervals, models.DateInterval{Start: start, End: end})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return models.NewBlackoutSet(intervals...), nil
}

func (db *DB) AddBlackout(ctx context.Context, propertyID int64, interval models.DateInterval) error {
	interval, err := models.NewDateInterval(interval.Start, interval.End)
	if err != nil {
		return err
	}
	if err := db.ensureProperty(ctx, propertyID); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO blackouts (property_id, start_date, end_date) VALUES (?, ?, ?)`,
		propertyID, interval.Start.Format(models.DateLayout), interval.End.Format(models.DateLayout))
	if err != nil {
		return fmt.Errorf("failed to add blackout: %w", err)
	}
	return nil
}

// ReplaceBlackouts swaps a property's whole blackout set in one transaction.
func (db *DB) ReplaceBlackouts(ctx context.Context, propertyID int64, set models.BlackoutSet) error {
	if err := db.ensureProperty(ctx, propertyID); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blackouts WHERE property_id = ?`, propertyID); err != nil {
		return fmt.Errorf("failed to clear blackouts: %w", err)
	}
	for _, in := range set {
		in, err := models.NewDateInterval(in.Start, in.End)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO blackouts (property_id, start_date, end_date) VALUES (?, ?, ?)`,
			propertyID, in.Start.Format(models.DateLayout), in.End.Format(models.DateLayout))
		if err != nil {
			return fmt.Errorf("failed to insert blackout: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blackouts: %w", err)
	}
	return nil
}

func (db *DB) ensureProperty(ctx context.Context, propertyID int64) error {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM properties WHERE id = ?)`, propertyID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check property: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrPropertyNotFound, propertyID)
	}
	return nil
}
