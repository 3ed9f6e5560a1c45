package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staybook/internal/models"
)

// SaveProperty inserts the property or updates it when the ID already exists.
func (db *DB) SaveProperty(ctx context.Context, p *models.Property) error {
	query := `INSERT INTO properties (id, name, location, nightly_rate, max_guests, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				location = excluded.location,
				nightly_rate = excluded.nightly_rate,
				max_guests = excluded.max_guests,
				updated_at = excluded.updated_at`
	now := time.Now().UTC()
	if _, err := db.ExecContext(ctx, query, p.ID, p.Name, p.Location, p.NightlyRate, p.MaxGuests, now, now); err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

func (db *DB) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT id, name, COALESCE(location, ''), nightly_rate, max_guests, created_at, updated_at
			FROM properties WHERE id = ?`
	var p models.Property
	err := db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Location, &p.NightlyRate, &p.MaxGuests, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrPropertyNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	p.Blackouts, err = db.GetBlackouts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) ListProperties(ctx context.Context) ([]*models.Property, error) {
	rows, err := db.QueryContext(ctx, `SELECT id FROM properties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan property id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	properties := make([]*models.Property, 0, len(ids))
	for _, id := range ids {
		p, err := db.GetProperty(ctx, id)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, nil
}
