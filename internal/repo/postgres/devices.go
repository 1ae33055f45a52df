package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

func (s *Store) AddDevice(ctx context.Context, d *domain.Device) error {
	if d.AddedAt.IsZero() {
		d.AddedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO devices (id, name, added_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		string(d.ID), d.Name, d.AddedAt)
	if err != nil {
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

func (s *Store) ListDevices(ctx context.Context) ([]domain.Device, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, added_at FROM devices ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var out []domain.Device
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.AddedAt); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDevice(ctx context.Context, id domain.DeviceID) (*domain.Device, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name, added_at FROM devices WHERE id = $1`, string(id))
	var d domain.Device
	if err := row.Scan(&d.ID, &d.Name, &d.AddedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &d, nil
}
