package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

func (s *Store) GetThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string) (*domain.ThresholdRange, error) {
	const q = `SELECT min, max FROM thresholds WHERE device_id = $1 AND property_id = $2`
	var r domain.ThresholdRange
	err := s.pool.QueryRow(ctx, q, string(deviceID), propertyID).Scan(&r.Min, &r.Max)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get threshold: %w", err)
	}
	return &r, nil
}

func (s *Store) SetThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string, r domain.ThresholdRange) error {
	const q = `
		INSERT INTO thresholds (device_id, property_id, min, max)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (device_id, property_id)
		DO UPDATE SET min = EXCLUDED.min, max = EXCLUDED.max
	`
	if _, err := s.pool.Exec(ctx, q, string(deviceID), propertyID, r.Min, r.Max); err != nil {
		return fmt.Errorf("set threshold: %w", err)
	}
	return nil
}

func (s *Store) DeleteThreshold(ctx context.Context, deviceID domain.DeviceID, propertyID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM thresholds WHERE device_id = $1 AND property_id = $2`,
		string(deviceID), propertyID)
	if err != nil {
		return fmt.Errorf("delete threshold: %w", err)
	}
	return nil
}
