package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// Markers use upsert/delete so concurrent evaluation passes are safe without
// explicit locking; last write wins.

func (s *Store) HasMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM alert_markers WHERE device_id = $1 AND property_id = $2)`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, string(deviceID), propertyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has marker: %w", err)
	}
	return exists, nil
}

func (s *Store) SetMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	const q = `
		INSERT INTO alert_markers (device_id, property_id, notified_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (device_id, property_id) DO NOTHING
	`
	if _, err := s.pool.Exec(ctx, q, string(deviceID), propertyID, time.Now().UTC()); err != nil {
		return fmt.Errorf("set marker: %w", err)
	}
	return nil
}

func (s *Store) ClearMarker(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM alert_markers WHERE device_id = $1 AND property_id = $2`,
		string(deviceID), propertyID)
	if err != nil {
		return fmt.Errorf("clear marker: %w", err)
	}
	return nil
}
